package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/webhook"
)

// VerifyWebhook handles the provider verification handshake: echoes the
// challenge for a subscribe request with the right token, 403 otherwise.
func (h *Handler) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	challenge, ok := h.ingester.Verify(
		q.Get("hub.mode"),
		q.Get("hub.verify_token"),
		q.Get("hub.challenge"),
	)
	if !ok {
		h.Error(w, http.StatusForbidden, "forbidden")
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

// ReceiveWebhook handles delivery callbacks. It always acknowledges 200:
// the provider retries indefinitely on non-success responses, so parse
// and persistence failures stay internal.
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhook.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn().Err(err).Msg("undecodable webhook body")
		h.JSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	h.ingester.Ingest(r.Context(), &payload)
	h.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
