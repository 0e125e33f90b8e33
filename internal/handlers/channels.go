package handlers

import (
	"net/http"

	"github.com/aaronbrighton/chatime-ordering-helper/internal/repository"
	"github.com/gin-gonic/gin"
)

// ChannelsHandler exposes a read-only operator view of the topic registry.
type ChannelsHandler struct {
	registry repository.TopicRegistry
}

// NewChannelsHandler creates a new ChannelsHandler.
func NewChannelsHandler(registry repository.TopicRegistry) *ChannelsHandler {
	return &ChannelsHandler{registry: registry}
}

type channelView struct {
	TopicID     string `json:"topic_id"`
	StoreID     string `json:"store_id"`
	OrderingURL string `json:"ordering_url"`
	Subscribers int    `json:"subscribers"`
}

// ListChannels returns all notifier topics with their subscriber counts.
func (h *ChannelsHandler) ListChannels(c *gin.Context) {
	topics, err := h.registry.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list channels", err)
		return
	}

	views := make([]channelView, 0, len(topics))
	for _, topic := range topics {
		subscribers, err := h.registry.Subscribers(c.Request.Context(), topic.ID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to list subscribers", err)
			return
		}
		views = append(views, channelView{
			TopicID:     topic.ID,
			StoreID:     repository.StoreID(topic.ID),
			OrderingURL: topic.OrderingURL,
			Subscribers: len(subscribers),
		})
	}

	respondSuccess(c, http.StatusOK, "channels retrieved", views)
}
