package handlers

import (
	"net/http"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/models"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/store"
)

// ListMessages returns up to 200 most recent messages, newest first.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.store.RecentMessages(r.Context(), store.DefaultRecentLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list messages")
		h.Error(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	if messages == nil {
		messages = []models.Message{}
	}
	h.JSON(w, http.StatusOK, messages)
}
