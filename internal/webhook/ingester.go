package webhook

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/metrics"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/models"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/store"
)

// Notifier pushes events to connected realtime subscribers.
type Notifier interface {
	Broadcast(eventType string, event interface{})
}

// Ingester handles the provider verification handshake and turns
// delivery payloads into persisted inbound messages.
type Ingester struct {
	store       store.DataStore
	notifier    Notifier
	verifyToken string
	logger      zerolog.Logger
}

// NewIngester creates a webhook ingester.
func NewIngester(s store.DataStore, n Notifier, verifyToken string, logger zerolog.Logger) *Ingester {
	return &Ingester{
		store:       s,
		notifier:    n,
		verifyToken: verifyToken,
		logger:      logger.With().Str("component", "webhook").Logger(),
	}
}

// Verify runs the subscription handshake. It returns the challenge to
// echo and whether the request is accepted.
func (i *Ingester) Verify(mode, token, challenge string) (string, bool) {
	if mode == "subscribe" && token == i.verifyToken {
		return challenge, true
	}
	return "", false
}

// Ingest persists every well-formed message in the payload, in payload
// order, and broadcasts one event per persisted row. Malformed leaves
// and storage failures are logged and skipped; Ingest never fails the
// delivery request — providers retry indefinitely on non-success, so
// errors must not propagate outward.
func (i *Ingester) Ingest(ctx context.Context, payload *Payload) {
	parsed, failures := parseMessages(payload)

	for _, f := range failures {
		metrics.WebhookParseFailures.Inc()
		i.logger.Warn().Str("reason", f.Reason).
			Int("entry", f.EntryIndex).
			Int("change", f.ChangeIndex).
			Int("message", f.MessageIndex).
			Msg("skipping malformed webhook message")
	}

	for _, pm := range parsed {
		var accountID *int64
		toNumber := ""
		resolution := "unmatched"

		account, err := i.store.GetAccountByPhoneNumberID(ctx, pm.PhoneNumberID)
		if err != nil {
			i.logger.Error().Err(err).Str("phone_number_id", pm.PhoneNumberID).Msg("account lookup failed")
		} else if account != nil {
			accountID = &account.ID
			toNumber = account.PhoneNumberID
			resolution = "matched"
		}

		msg := &models.Message{
			AccountID:  accountID,
			FromNumber: pm.From,
			ToNumber:   toNumber,
			Text:       pm.Text,
			Direction:  models.DirectionIn,
			Timestamp:  time.Now().UnixMilli(),
		}

		stored, err := i.store.AppendMessage(ctx, msg)
		if err != nil {
			i.logger.Error().Err(err).Str("from", pm.From).Msg("failed to persist inbound message")
			continue
		}

		metrics.MessagesIngested.WithLabelValues(resolution).Inc()
		i.logger.Info().
			Int64("message_id", stored.ID).
			Str("from", pm.From).
			Str("resolution", resolution).
			Msg("inbound message ingested")

		i.notifier.Broadcast(models.EventTypeMessage, models.MessageEvent{
			Type:      models.EventTypeMessage,
			AccountID: accountID,
			From:      pm.From,
			Text:      pm.Text,
		})
	}
}
