package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/models"
)

// SendRequest represents the outbound send request body.
type SendRequest struct {
	AccountID int64  `json:"account_id"`
	To        string `json:"to"`
	Text      string `json:"text"`
}

// SendResponse represents the outbound send response.
type SendResponse struct {
	OK bool `json:"ok"`
}

// Send delivers a message through the account's provider, records the
// outbound row, and broadcasts an event to realtime subscribers.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	account, err := h.store.GetAccountByID(r.Context(), req.AccountID)
	if err != nil {
		h.logger.Error().Err(err).Msg("account lookup failed")
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if account == nil {
		h.Error(w, http.StatusNotFound, "account not found")
		return
	}

	if err := h.senders.Send(r.Context(), account, req.To, req.Text); err != nil {
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	msg := &models.Message{
		AccountID:  &account.ID,
		FromNumber: account.PhoneNumberID,
		ToNumber:   req.To,
		Text:       req.Text,
		Direction:  models.DirectionOut,
		Timestamp:  time.Now().UnixMilli(),
	}
	if _, err := h.store.AppendMessage(r.Context(), msg); err != nil {
		h.logger.Error().Err(err).Msg("failed to persist outbound message")
		h.Error(w, http.StatusInternalServerError, "failed to store message")
		return
	}

	h.hub.Broadcast(models.EventTypeOut, models.OutEvent{
		Type:      models.EventTypeOut,
		AccountID: account.ID,
		To:        req.To,
		Text:      req.Text,
	})

	h.JSON(w, http.StatusOK, SendResponse{OK: true})
}
