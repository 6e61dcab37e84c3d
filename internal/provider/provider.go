package provider

import (
	"context"
	"fmt"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/models"
)

// Sender is the send capability for one provider variant. Implementations
// do not retry; the caller decides policy on failure.
type Sender interface {
	// Send delivers text to the recipient using the account's credentials.
	Send(ctx context.Context, account *models.Account, to, text string) error

	// Name returns the provider tag the variant registers under.
	Name() string
}

// SendError reports a failed provider call.
type SendError struct {
	Provider   string
	StatusCode int // 0 for transport failures
	Message    string
}

func (e *SendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s send failed: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s send failed: %s", e.Provider, e.Message)
}

// ErrUnknownProvider is returned when no variant is registered for an
// account's provider tag.
type ErrUnknownProvider struct {
	Provider string
}

func (e *ErrUnknownProvider) Error() string {
	return fmt.Sprintf("no sender registered for provider %q", e.Provider)
}

// Registry dispatches sends by provider tag. Adding a provider means
// registering another variant, not branching at call sites.
type Registry struct {
	senders map[string]Sender
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{senders: make(map[string]Sender)}
}

// Register adds a variant under its own tag, replacing any previous one.
func (r *Registry) Register(s Sender) {
	r.senders[s.Name()] = s
}

// Lookup returns the variant for a provider tag.
func (r *Registry) Lookup(tag string) (Sender, error) {
	s, ok := r.senders[tag]
	if !ok {
		return nil, &ErrUnknownProvider{Provider: tag}
	}
	return s, nil
}

// Send dispatches to the variant registered for the account's provider.
func (r *Registry) Send(ctx context.Context, account *models.Account, to, text string) error {
	s, err := r.Lookup(account.Provider)
	if err != nil {
		return err
	}
	return s.Send(ctx, account, to, text)
}
