package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/models"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/repository"
)

// Geocoder resolves free text to coordinates. A nil result with a nil error
// means the lookup found nothing.
type Geocoder interface {
	Search(ctx context.Context, text string) (*models.Coordinates, error)
}

// StoreLocator finds stores near a coordinate pair.
type StoreLocator interface {
	Nearby(ctx context.Context, lat, lng float64, radius, category int) ([]models.StoreRecord, error)
}

// SMSSender delivers one message to one phone number.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// maxStoreChoices caps how many nearby stores are offered in a reply.
const maxStoreChoices = 3

// SubscriptionService turns interpreted SMS commands into registry state and
// reply messages. All failures follow the silent-abort policy: log, record
// nothing further, send no error SMS.
type SubscriptionService struct {
	geocoder Geocoder
	locator  StoreLocator
	registry repository.TopicRegistry
	sms      SMSSender
	events   *repository.EventStore
	logger   *slog.Logger
	radius   int
	category int
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(
	geocoder Geocoder,
	locator StoreLocator,
	registry repository.TopicRegistry,
	sms SMSSender,
	events *repository.EventStore,
	logger *slog.Logger,
	radius, category int,
) *SubscriptionService {
	return &SubscriptionService{
		geocoder: geocoder,
		locator:  locator,
		registry: registry,
		sms:      sms,
		events:   events,
		logger:   logger,
		radius:   radius,
		category: category,
	}
}

// HandlePostalCode geocodes the postal code, finds the closest stores that
// support online ordering, ensures a topic exists for each, and replies with
// the choices. A reply listing zero stores is still sent.
func (s *SubscriptionService) HandlePostalCode(ctx context.Context, code, originNumber string) {
	coords, err := s.geocoder.Search(ctx, code)
	if err != nil {
		s.logger.Error("geocode lookup failed", slog.String("postal_code", code), slog.Any("error", err))
		return
	}
	if coords == nil {
		s.logger.Warn("postal code not found", slog.String("postal_code", code))
		return
	}
	s.logger.Info("coordinates resolved",
		slog.String("postal_code", code),
		slog.Float64("longitude", coords.Longitude),
		slog.Float64("latitude", coords.Latitude),
	)

	stores, err := s.locator.Nearby(ctx, coords.Latitude, coords.Longitude, s.radius, s.category)
	if err != nil {
		s.logger.Error("store locator query failed", slog.Any("error", err))
		return
	}
	if len(stores) > maxStoreChoices {
		stores = stores[:maxStoreChoices]
	}

	message := "Respond with Store ID of location you'd like to monitor:\n"
	for _, store := range stores {
		orderingURL, ok := ExtractOrderingURL(store)
		if !ok {
			// Without an ordering storefront there is nothing to monitor.
			s.logger.Info("store has no ordering support", slog.String("store_id", store.ID))
			continue
		}

		if err := s.registry.Create(ctx, store.ID, orderingURL); err != nil {
			s.logger.Error("topic create failed", slog.String("store_id", store.ID), slog.Any("error", err))
			return
		}
		message += fmt.Sprintf("\n%s - %s", store.ID, store.Name)
	}

	if err := s.sms.Send(ctx, originNumber, message); err != nil {
		s.logger.Error("store list reply failed", slog.String("phone", originNumber), slog.Any("error", err))
		return
	}
	s.recordEvent(repository.EventReplySent, "", originNumber, code)
}

// HandleStoreSelection attaches the sender to the store's topic and confirms.
func (s *SubscriptionService) HandleStoreSelection(ctx context.Context, storeID, originNumber string) {
	topicID := repository.TopicID(storeID)
	if err := s.registry.Subscribe(ctx, topicID, originNumber); err != nil {
		s.logger.Error("subscribe failed", slog.String("topic_id", topicID), slog.Any("error", err))
		return
	}

	confirmation := fmt.Sprintf("We'll monitor store #%s and let you know when they open for online orders.", storeID)
	if err := s.sms.Send(ctx, originNumber, confirmation); err != nil {
		s.logger.Error("confirmation reply failed", slog.String("phone", originNumber), slog.Any("error", err))
		return
	}
	s.recordEvent(repository.EventSubscribed, storeID, originNumber, "")
}

func (s *SubscriptionService) recordEvent(kind, storeID, phone, detail string) {
	if err := s.events.Record(kind, storeID, phone, detail); err != nil {
		s.logger.Warn("audit event not recorded", slog.String("kind", kind), slog.Any("error", err))
	}
}
