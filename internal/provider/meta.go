package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/metrics"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/models"
)

// ProviderMeta is the tag the Meta variant registers under.
const ProviderMeta = "meta"

// MetaSender sends messages through the Meta Graph API using the
// account's token and phone number id.
type MetaSender struct {
	logger     zerolog.Logger
	httpClient *http.Client
	baseURL    string
}

// NewMetaSender creates a Meta Graph API sender. If httpClient is nil the
// default client is used. No timeout is configured on the default client;
// outbound calls block the issuing request until the provider responds.
func NewMetaSender(logger zerolog.Logger, baseURL string, httpClient *http.Client) *MetaSender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MetaSender{
		logger:     logger.With().Str("provider", ProviderMeta).Logger(),
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Name returns the provider tag.
func (m *MetaSender) Name() string {
	return ProviderMeta
}

type metaSendRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Text             metaTextBody `json:"text"`
}

type metaTextBody struct {
	Body string `json:"body"`
}

type metaErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Send posts a text message to {base}/{phone_number_id}/messages with the
// account token as bearer auth. Non-2xx responses and transport failures
// return a *SendError; there is no retry.
func (m *MetaSender) Send(ctx context.Context, account *models.Account, to, text string) error {
	body, err := json.Marshal(metaSendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Text:             metaTextBody{Body: text},
	})
	if err != nil {
		return &SendError{Provider: ProviderMeta, Message: err.Error()}
	}

	url := fmt.Sprintf("%s/%s/messages", m.baseURL, account.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &SendError{Provider: ProviderMeta, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+account.Token)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		metrics.ProviderSends.WithLabelValues(ProviderMeta, "error").Inc()
		m.logger.Warn().Err(err).Int64("account_id", account.ID).Msg("graph api request failed")
		return &SendError{Provider: ProviderMeta, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		metrics.ProviderSends.WithLabelValues(ProviderMeta, "ok").Inc()
		m.logger.Info().
			Int64("account_id", account.ID).
			Str("to", to).
			Int("status", resp.StatusCode).
			Msg("message sent via graph api")
		return nil
	}

	// Pull the provider's error message when the body parses; fall back
	// to a raw excerpt.
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := excerpt(respBody)
	var metaErr metaErrorResponse
	if err := json.Unmarshal(respBody, &metaErr); err == nil && metaErr.Error.Message != "" {
		message = metaErr.Error.Message
	}

	metrics.ProviderSends.WithLabelValues(ProviderMeta, "error").Inc()
	m.logger.Warn().
		Int64("account_id", account.ID).
		Int("status", resp.StatusCode).
		Str("error", message).
		Msg("graph api send rejected")

	return &SendError{Provider: ProviderMeta, StatusCode: resp.StatusCode, Message: message}
}

// excerpt trims a response body for error reporting.
func excerpt(b []byte) string {
	const max = 200
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}
