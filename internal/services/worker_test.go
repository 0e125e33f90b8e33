package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/models"
	"github.com/aaronbrighton/chatime-ordering-helper/pkg/metrics"
)

type fakeProber struct {
	body string
	err  error
}

func (f *fakeProber) Fetch(ctx context.Context, url string) (string, error) {
	return f.body, f.err
}

type fakePublisher struct {
	topicIDs []string
	messages []string
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, topicID, message string) error {
	if f.err != nil {
		return f.err
	}
	f.topicIDs = append(f.topicIDs, topicID)
	f.messages = append(f.messages, message)
	return nil
}

type fakeTeardown struct {
	started []string
}

func (f *fakeTeardown) Start(topicID string) {
	f.started = append(f.started, topicID)
}

func newTestWorker(prober *fakeProber, publisher *fakePublisher, teardown *fakeTeardown) *Worker {
	return NewWorker(prober, publisher, teardown, nil, metrics.New(), testLogger())
}

func TestWorkerClosedStoreTakesNoAction(t *testing.T) {
	prober := &fakeProber{body: "<html>Currently unavailable</html>"}
	publisher := &fakePublisher{}
	teardown := &fakeTeardown{}
	worker := newTestWorker(prober, publisher, teardown)

	task := models.ProbeTask{TopicID: "chatime_notifier_1", OrderingURL: "https://www.ubereats.com/ca/store/1"}
	if err := worker.Handle(context.Background(), task); err != nil {
		t.Fatalf("closed store should complete normally: %v", err)
	}
	if len(publisher.topicIDs) != 0 {
		t.Fatalf("expected no publish for closed store, got %d", len(publisher.topicIDs))
	}
	if len(teardown.started) != 0 {
		t.Fatalf("expected no teardown for closed store, got %d", len(teardown.started))
	}
}

func TestWorkerOpenStorePublishesAndStartsTeardown(t *testing.T) {
	prober := &fakeProber{body: "<html>Order away!</html>"}
	publisher := &fakePublisher{}
	teardown := &fakeTeardown{}
	worker := newTestWorker(prober, publisher, teardown)

	task := models.ProbeTask{TopicID: "chatime_notifier_1", OrderingURL: "https://www.ubereats.com/ca/store/1"}
	if err := worker.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if len(publisher.topicIDs) != 1 || publisher.topicIDs[0] != "chatime_notifier_1" {
		t.Fatalf("expected exactly one publish to the topic, got %v", publisher.topicIDs)
	}
	if publisher.messages[0] != "Order now from: https://www.ubereats.com/ca/store/1" {
		t.Fatalf("unexpected notification message: %q", publisher.messages[0])
	}
	if len(teardown.started) != 1 || teardown.started[0] != "chatime_notifier_1" {
		t.Fatalf("expected exactly one teardown start, got %v", teardown.started)
	}
}

func TestWorkerProbeFailureAbortsTask(t *testing.T) {
	prober := &fakeProber{err: errors.New("upstream timeout")}
	publisher := &fakePublisher{}
	teardown := &fakeTeardown{}
	worker := newTestWorker(prober, publisher, teardown)

	task := models.ProbeTask{TopicID: "chatime_notifier_1", OrderingURL: "https://www.ubereats.com/ca/store/1"}
	if err := worker.Handle(context.Background(), task); err == nil {
		t.Fatal("expected error from failed probe")
	}
	if len(publisher.topicIDs) != 0 || len(teardown.started) != 0 {
		t.Fatal("failed probe must not publish or start teardown")
	}
}

func TestWorkerPublishFailureSkipsTeardown(t *testing.T) {
	prober := &fakeProber{body: "open"}
	publisher := &fakePublisher{err: errors.New("fanout failed")}
	teardown := &fakeTeardown{}
	worker := newTestWorker(prober, publisher, teardown)

	task := models.ProbeTask{TopicID: "chatime_notifier_1", OrderingURL: "https://www.ubereats.com/ca/store/1"}
	if err := worker.Handle(context.Background(), task); err == nil {
		t.Fatal("expected error from failed publish")
	}
	if len(teardown.started) != 0 {
		t.Fatal("teardown must not start when the publish failed")
	}
}

func TestIsClosed(t *testing.T) {
	if !IsClosed("menu page ... Currently unavailable ... footer") {
		t.Fatal("marker substring not detected")
	}
	if IsClosed("menu page, open for orders") {
		t.Fatal("false positive on page without marker")
	}
}
