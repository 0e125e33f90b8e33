package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/command"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/models"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/repository"
	"github.com/aaronbrighton/chatime-ordering-helper/internal/services"
	"github.com/aaronbrighton/chatime-ordering-helper/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// SMSHandler receives inbound SMS webhook events from the gateway.
type SMSHandler struct {
	subscriptions *services.SubscriptionService
	events        *repository.EventStore
	metrics       *metrics.Collector
	logger        *slog.Logger
}

// NewSMSHandler creates a new SMSHandler.
func NewSMSHandler(subscriptions *services.SubscriptionService, events *repository.EventStore, collector *metrics.Collector, logger *slog.Logger) *SMSHandler {
	return &SMSHandler{
		subscriptions: subscriptions,
		events:        events,
		metrics:       collector,
		logger:        logger,
	}
}

// HandleInbound interprets one inbound message and dispatches it. The
// response is always 200 for well-formed events, whatever the outcome: the
// end user gets silence on failure, and the webhook must not redeliver.
func (h *SMSHandler) HandleInbound(c *gin.Context) {
	var event models.InboundSMS
	if err := c.ShouldBindJSON(&event); err != nil {
		respondValidationError(c, err)
		return
	}

	cmd := command.Interpret(event.MessageBody)
	if err := h.events.Record(repository.EventCommandReceived, "", event.OriginationNumber, event.MessageBody); err != nil {
		h.logger.Warn("audit event not recorded", slog.Any("error", err))
	}

	switch cmd.Kind {
	case command.KindPostalCode:
		h.metrics.CommandsPostalCode.Add(1)
		h.logger.Info("postal code detected", slog.String("postal_code", cmd.Value))
		h.subscriptions.HandlePostalCode(c.Request.Context(), cmd.Value, event.OriginationNumber)
	case command.KindStoreSelection:
		h.metrics.CommandsStoreSelect.Add(1)
		h.logger.Info("store id detected", slog.String("store_id", cmd.Value))
		h.subscriptions.HandleStoreSelection(c.Request.Context(), cmd.Value, event.OriginationNumber)
	default:
		h.metrics.CommandsUnrecognized.Add(1)
		h.logger.Info("unknown message received", slog.String("body", cmd.RawText))
	}

	respondSuccess(c, http.StatusOK, "message processed", gin.H{
		"origination_number": event.OriginationNumber,
	})
}
