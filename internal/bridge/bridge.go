package bridge

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/metrics"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/provider"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/store"
)

// ErrAccountNotFound is returned when either side of a forward is not a
// registered account.
var ErrAccountNotFound = errors.New("account not found")

// Router forwards content between two locally registered accounts.
type Router struct {
	store   store.DataStore
	senders *provider.Registry
	logger  zerolog.Logger
}

// NewRouter creates a bridge router.
func NewRouter(s store.DataStore, senders *provider.Registry, logger zerolog.Logger) *Router {
	return &Router{
		store:   s,
		senders: senders,
		logger:  logger.With().Str("component", "bridge").Logger(),
	}
}

// Forward resolves both accounts and sends through the destination
// account's provider. The argument order matches the system this one
// replaces: message fills the recipient slot and the source account's
// phone number id fills the text slot. Flagged for product
// clarification; do not reorder without confirmation.
// Forwards are not recorded in the message log.
func (r *Router) Forward(ctx context.Context, fromAccountID, toAccountID int64, message string) error {
	src, err := r.store.GetAccountByID(ctx, fromAccountID)
	if err != nil {
		return err
	}
	dst, err := r.store.GetAccountByID(ctx, toAccountID)
	if err != nil {
		return err
	}
	if src == nil || dst == nil {
		return ErrAccountNotFound
	}

	if err := r.senders.Send(ctx, dst, message, src.PhoneNumberID); err != nil {
		metrics.BridgeForwards.WithLabelValues("error").Inc()
		r.logger.Warn().Err(err).
			Int64("from_account", fromAccountID).
			Int64("to_account", toAccountID).
			Msg("bridge forward failed")
		return err
	}

	metrics.BridgeForwards.WithLabelValues("ok").Inc()
	r.logger.Info().
		Int64("from_account", fromAccountID).
		Int64("to_account", toAccountID).
		Msg("bridge forward sent")
	return nil
}
