package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/bridge"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/hub"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/provider"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/store"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/webhook"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	store    store.DataStore
	redis    *store.RedisStore
	senders  *provider.Registry
	bridge   *bridge.Router
	ingester *webhook.Ingester
	hub      *hub.Hub
	logger   zerolog.Logger
}

// NewHandler creates a new Handler with the given dependencies.
func NewHandler(s store.DataStore, redis *store.RedisStore, senders *provider.Registry, br *bridge.Router, ing *webhook.Ingester, h *hub.Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		store:    s,
		redis:    redis,
		senders:  senders,
		bridge:   br,
		ingester: ing,
		hub:      h,
		logger:   logger,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
