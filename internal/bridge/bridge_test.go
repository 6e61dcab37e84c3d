package bridge

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/models"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/provider"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/store"
)

type sendCall struct {
	account *models.Account
	to      string
	text    string
}

type fakeSender struct {
	calls []sendCall
	err   error
}

func (f *fakeSender) Send(ctx context.Context, account *models.Account, to, text string) error {
	f.calls = append(f.calls, sendCall{account, to, text})
	return f.err
}

func (f *fakeSender) Name() string { return provider.ProviderMeta }

func newTestRouter(t *testing.T, sender *fakeSender) (*Router, store.DataStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)

	reg := provider.NewRegistry()
	reg.Register(sender)
	return NewRouter(s, reg, zerolog.Nop()), s
}

func TestForward(t *testing.T) {
	sender := &fakeSender{}
	router, s := newTestRouter(t, sender)
	ctx := context.Background()

	src, err := s.CreateAccount(ctx, "src", "meta", "t1", "1000")
	if err != nil {
		t.Fatal(err)
	}
	dst, err := s.CreateAccount(ctx, "dst", "meta", "t2", "2000")
	if err != nil {
		t.Fatal(err)
	}

	if err := router.Forward(ctx, src.ID, dst.ID, "ping"); err != nil {
		t.Fatal(err)
	}

	if len(sender.calls) != 1 {
		t.Fatalf("expected 1 send, got %d", len(sender.calls))
	}
	call := sender.calls[0]
	if call.account.ID != dst.ID {
		t.Fatalf("expected send via destination account, got %d", call.account.ID)
	}
	// The inherited argument order: message in the recipient slot, the
	// source's phone number id in the text slot.
	if call.to != "ping" {
		t.Fatalf("expected to=%q, got %q", "ping", call.to)
	}
	if call.text != "1000" {
		t.Fatalf("expected text=%q, got %q", "1000", call.text)
	}

	// Forwards do not touch the message log
	count, err := s.CountMessages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected no persisted rows, got %d", count)
	}
}

func TestForwardUnknownAccounts(t *testing.T) {
	sender := &fakeSender{}
	router, s := newTestRouter(t, sender)
	ctx := context.Background()

	known, err := s.CreateAccount(ctx, "known", "meta", "t", "1000")
	if err != nil {
		t.Fatal(err)
	}

	if err := router.Forward(ctx, 99, known.ID, "m"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound for source, got %v", err)
	}
	if err := router.Forward(ctx, known.ID, 99, "m"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound for destination, got %v", err)
	}
	if len(sender.calls) != 0 {
		t.Fatalf("expected no sends, got %d", len(sender.calls))
	}
}

func TestForwardSendFailure(t *testing.T) {
	sendErr := &provider.SendError{Provider: "meta", StatusCode: 500, Message: "boom"}
	sender := &fakeSender{err: sendErr}
	router, s := newTestRouter(t, sender)
	ctx := context.Background()

	src, _ := s.CreateAccount(ctx, "src", "meta", "t1", "1000")
	dst, _ := s.CreateAccount(ctx, "dst", "meta", "t2", "2000")

	err := router.Forward(ctx, src.ID, dst.ID, "m")
	var got *provider.SendError
	if !errors.As(err, &got) {
		t.Fatalf("expected *SendError, got %T", err)
	}
}
