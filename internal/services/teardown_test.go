package services

import (
	"context"
	"testing"
	"time"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/repository"
)

func TestTeardownWaitsOutGraceInterval(t *testing.T) {
	ctx := context.Background()
	reg := repository.NewMemoryRegistry()
	if err := reg.Create(ctx, "1", "https://www.ubereats.com/ca/store/1"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	topicID := repository.TopicID("1")

	teardown := NewTeardown(reg, nil, 100*time.Millisecond, time.Second, testLogger())
	teardown.Start(topicID)

	time.Sleep(30 * time.Millisecond)
	if !reg.Exists(topicID) {
		t.Fatal("topic deleted before the grace interval elapsed")
	}

	teardown.Wait()
	if reg.Exists(topicID) {
		t.Fatal("topic still exists after grace interval and teardown completion")
	}
}

func TestTeardownOfMissingTopicSucceeds(t *testing.T) {
	reg := repository.NewMemoryRegistry()
	teardown := NewTeardown(reg, nil, time.Millisecond, time.Second, testLogger())

	// The topic never existed; idempotent delete makes this a quiet no-op.
	teardown.Start(repository.TopicID("404"))
	teardown.Wait()
}

func TestRacingTeardownsAreHarmless(t *testing.T) {
	ctx := context.Background()
	reg := repository.NewMemoryRegistry()
	if err := reg.Create(ctx, "2", "https://www.ubereats.com/ca/store/2"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	topicID := repository.TopicID("2")

	teardown := NewTeardown(reg, nil, time.Millisecond, time.Second, testLogger())
	teardown.Start(topicID)
	teardown.Start(topicID)
	teardown.Wait()

	if reg.Exists(topicID) {
		t.Fatal("topic survived teardown")
	}
}

func TestTeardownAbandonedPastTimeout(t *testing.T) {
	ctx := context.Background()
	reg := repository.NewMemoryRegistry()
	if err := reg.Create(ctx, "3", "https://www.ubereats.com/ca/store/3"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	topicID := repository.TopicID("3")

	// Grace longer than the overall budget: the run must give up, not delete.
	teardown := NewTeardown(reg, nil, time.Second, 20*time.Millisecond, testLogger())
	teardown.Start(topicID)
	teardown.Wait()

	if !reg.Exists(topicID) {
		t.Fatal("abandoned teardown must not delete the topic")
	}
}
