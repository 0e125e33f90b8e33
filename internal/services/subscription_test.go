package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/models"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/repository"
)

type fakeGeocoder struct {
	coords *models.Coordinates
	err    error
}

func (f *fakeGeocoder) Search(ctx context.Context, text string) (*models.Coordinates, error) {
	return f.coords, f.err
}

type fakeLocator struct {
	stores  []models.StoreRecord
	err     error
	gotLat  float64
	gotLng  float64
	gotRad  int
	gotCat  int
	queried bool
}

func (f *fakeLocator) Nearby(ctx context.Context, lat, lng float64, radius, category int) ([]models.StoreRecord, error) {
	f.queried = true
	f.gotLat, f.gotLng, f.gotRad, f.gotCat = lat, lng, radius, category
	return f.stores, f.err
}

type sentSMS struct {
	phone   string
	message string
}

type fakeSender struct {
	sent []sentSMS
	err  error
}

func (f *fakeSender) Send(ctx context.Context, phone, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{phone: phone, message: message})
	return nil
}

func listing(url string) string {
	return `<div class="store"><a href="` + url + `">Order</a></div>`
}

func newTestSubscriptions(geo *fakeGeocoder, loc *fakeLocator, reg repository.TopicRegistry, sender *fakeSender) *SubscriptionService {
	return NewSubscriptionService(geo, loc, reg, sender, nil, testLogger(), 50, 63)
}

func TestHandlePostalCodeOffersOrderableStores(t *testing.T) {
	ctx := context.Background()
	geo := &fakeGeocoder{coords: &models.Coordinates{Longitude: -75.1, Latitude: 45.4}}
	loc := &fakeLocator{stores: []models.StoreRecord{
		{ID: "101", Name: "Downtown", ListingHTML: listing("https://www.ubereats.com/ca/store/downtown/abc")},
		{ID: "102", Name: "Uptown", ListingHTML: `<div>no delivery here</div>`},
		{ID: "103", Name: "Riverside", ListingHTML: listing("https://www.ubereats.com/ca/store/riverside/def")},
	}}
	reg := repository.NewMemoryRegistry()
	sender := &fakeSender{}
	subs := newTestSubscriptions(geo, loc, reg, sender)

	subs.HandlePostalCode(ctx, "A1A1A1", "+15550009999")

	if loc.gotLat != 45.4 || loc.gotLng != -75.1 {
		t.Fatalf("locator queried with (%v, %v), want (45.4, -75.1)", loc.gotLat, loc.gotLng)
	}
	if loc.gotRad != 50 || loc.gotCat != 63 {
		t.Fatalf("locator queried with radius=%d category=%d", loc.gotRad, loc.gotCat)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly one reply, got %d", len(sender.sent))
	}
	reply := sender.sent[0]
	if reply.phone != "+15550009999" {
		t.Fatalf("reply sent to %q", reply.phone)
	}
	if !strings.Contains(reply.message, "101 - Downtown") || !strings.Contains(reply.message, "103 - Riverside") {
		t.Fatalf("reply missing orderable stores: %q", reply.message)
	}
	if strings.Contains(reply.message, "102") {
		t.Fatalf("reply offered a store without ordering support: %q", reply.message)
	}

	topics, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	url, _ := reg.OrderingURL(ctx, repository.TopicID("101"))
	if url != "https://www.ubereats.com/ca/store/downtown/abc" {
		t.Fatalf("topic 101 tagged with %q", url)
	}
	subscribers, _ := reg.Subscribers(ctx, repository.TopicID("101"))
	if len(subscribers) != 0 {
		t.Fatalf("new topic should have no subscribers, got %v", subscribers)
	}
}

func TestHandlePostalCodeTakesFirstThreeStores(t *testing.T) {
	ctx := context.Background()
	geo := &fakeGeocoder{coords: &models.Coordinates{Longitude: -79.4, Latitude: 43.7}}
	loc := &fakeLocator{stores: []models.StoreRecord{
		{ID: "1", Name: "One", ListingHTML: listing("https://www.ubereats.com/ca/store/1")},
		{ID: "2", Name: "Two", ListingHTML: listing("https://www.ubereats.com/ca/store/2")},
		{ID: "3", Name: "Three", ListingHTML: listing("https://www.ubereats.com/ca/store/3")},
		{ID: "4", Name: "Four", ListingHTML: listing("https://www.ubereats.com/ca/store/4")},
	}}
	reg := repository.NewMemoryRegistry()
	sender := &fakeSender{}
	subs := newTestSubscriptions(geo, loc, reg, sender)

	subs.HandlePostalCode(ctx, "M5V3L9", "+15550009999")

	topics, _ := reg.List(ctx)
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(topics))
	}
	if reg.Exists(repository.TopicID("4")) {
		t.Fatal("fourth store should not be offered")
	}
}

func TestHandlePostalCodeSendsEmptyListAsIs(t *testing.T) {
	ctx := context.Background()
	geo := &fakeGeocoder{coords: &models.Coordinates{Longitude: -75.1, Latitude: 45.4}}
	loc := &fakeLocator{stores: []models.StoreRecord{
		{ID: "1", Name: "One", ListingHTML: "<div>pickup only</div>"},
		{ID: "2", Name: "Two", ListingHTML: "<div>pickup only</div>"},
	}}
	reg := repository.NewMemoryRegistry()
	sender := &fakeSender{}
	subs := newTestSubscriptions(geo, loc, reg, sender)

	subs.HandlePostalCode(ctx, "A1A1A1", "+15550009999")

	// No options qualified, but the reply still goes out unmodified.
	if len(sender.sent) != 1 {
		t.Fatalf("expected the header-only reply, got %d sends", len(sender.sent))
	}
	if !strings.HasPrefix(sender.sent[0].message, "Respond with Store ID") {
		t.Fatalf("unexpected reply: %q", sender.sent[0].message)
	}
	topics, _ := reg.List(ctx)
	if len(topics) != 0 {
		t.Fatalf("expected no topics, got %d", len(topics))
	}
}

func TestHandlePostalCodeGeocodeMissAbortsSilently(t *testing.T) {
	ctx := context.Background()
	geo := &fakeGeocoder{coords: nil}
	loc := &fakeLocator{}
	reg := repository.NewMemoryRegistry()
	sender := &fakeSender{}
	subs := newTestSubscriptions(geo, loc, reg, sender)

	subs.HandlePostalCode(ctx, "A1A1A1", "+15550009999")

	if loc.queried {
		t.Fatal("locator must not be queried when geocoding finds nothing")
	}
	if len(sender.sent) != 0 {
		t.Fatal("no reply may be sent on geocode miss")
	}
}

func TestHandlePostalCodeLocatorFailureAbortsSilently(t *testing.T) {
	ctx := context.Background()
	geo := &fakeGeocoder{coords: &models.Coordinates{Longitude: -75.1, Latitude: 45.4}}
	loc := &fakeLocator{err: errors.New("upstream down")}
	reg := repository.NewMemoryRegistry()
	sender := &fakeSender{}
	subs := newTestSubscriptions(geo, loc, reg, sender)

	subs.HandlePostalCode(ctx, "A1A1A1", "+15550009999")

	if len(sender.sent) != 0 {
		t.Fatal("no reply may be sent on locator failure")
	}
}

func TestHandleStoreSelectionSubscribesAndConfirms(t *testing.T) {
	ctx := context.Background()
	reg := repository.NewMemoryRegistry()
	sender := &fakeSender{}
	subs := newTestSubscriptions(&fakeGeocoder{}, &fakeLocator{}, reg, sender)

	subs.HandleStoreSelection(ctx, "12345", "+15550001111")

	subscribers, err := reg.Subscribers(ctx, repository.TopicID("12345"))
	if err != nil {
		t.Fatalf("subscribers failed: %v", err)
	}
	if len(subscribers) != 1 || subscribers[0] != "+15550001111" {
		t.Fatalf("expected the sender subscribed, got %v", subscribers)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected one confirmation, got %d", len(sender.sent))
	}
	want := "We'll monitor store #12345 and let you know when they open for online orders."
	if sender.sent[0].message != want {
		t.Fatalf("confirmation = %q, want %q", sender.sent[0].message, want)
	}
}

func TestHandleStoreSelectionSendFailureIsSilent(t *testing.T) {
	ctx := context.Background()
	reg := repository.NewMemoryRegistry()
	sender := &fakeSender{err: errors.New("gateway down")}
	subs := newTestSubscriptions(&fakeGeocoder{}, &fakeLocator{}, reg, sender)

	// Must not panic; the subscription itself still landed.
	subs.HandleStoreSelection(ctx, "777", "+15550001111")

	subscribers, _ := reg.Subscribers(ctx, repository.TopicID("777"))
	if len(subscribers) != 1 {
		t.Fatalf("expected subscription to persist, got %v", subscribers)
	}
}
