package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/models"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/provider"
)

// CreateAccountRequest represents the account creation request body.
// phone_number_id and endpointId are the same field; both spellings are
// accepted for compatibility with older admin clients.
type CreateAccountRequest struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	Token         string `json:"token"`
	PhoneNumberID string `json:"phone_number_id"`
	EndpointID    string `json:"endpointId"`
}

// CreateAccountResponse represents the account creation response.
type CreateAccountResponse struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}

// CreateAccount handles account registration.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	phoneNumberID := req.PhoneNumberID
	if phoneNumberID == "" {
		phoneNumberID = req.EndpointID
	}

	if req.Name == "" {
		h.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Token == "" {
		h.Error(w, http.StatusBadRequest, "token is required")
		return
	}
	if phoneNumberID == "" {
		h.Error(w, http.StatusBadRequest, "phone_number_id is required")
		return
	}

	providerTag := req.Provider
	if providerTag == "" {
		providerTag = provider.ProviderMeta
	}

	account, err := h.store.CreateAccount(r.Context(), req.Name, providerTag, req.Token, phoneNumberID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create account")
		h.Error(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	h.JSON(w, http.StatusOK, CreateAccountResponse{OK: true, ID: account.ID})
}

// ListAccounts returns all accounts in insertion order. Tokens are
// included verbatim; a known contract gap carried from the original
// system, left until a secret store lands.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list accounts")
		h.Error(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	if accounts == nil {
		accounts = []models.Account{}
	}
	h.JSON(w, http.StatusOK, accounts)
}
