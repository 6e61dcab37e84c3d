package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/bridge"
)

// BridgeRequest represents the bridge forward request body.
type BridgeRequest struct {
	FromAccountID int64  `json:"fromAccountId"`
	ToAccountID   int64  `json:"toAccountId"`
	Message       string `json:"message"`
}

// BridgeResponse represents the bridge forward response.
type BridgeResponse struct {
	OK bool `json:"ok"`
}

// Bridge forwards content between two locally registered accounts.
func (h *Handler) Bridge(w http.ResponseWriter, r *http.Request) {
	var req BridgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.bridge.Forward(r.Context(), req.FromAccountID, req.ToAccountID, req.Message)
	if err != nil {
		if errors.Is(err, bridge.ErrAccountNotFound) {
			h.Error(w, http.StatusNotFound, "account not found")
			return
		}
		// Send failures mirror the direct-send policy.
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.JSON(w, http.StatusOK, BridgeResponse{OK: true})
}
