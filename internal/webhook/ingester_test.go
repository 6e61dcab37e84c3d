package webhook

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/models"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/store"
)

type recordedEvent struct {
	eventType string
	event     interface{}
}

// recordingNotifier captures broadcasts for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Broadcast(eventType string, event interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{eventType, event})
}

func (n *recordingNotifier) all() []recordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedEvent(nil), n.events...)
}

func newTestIngester(t *testing.T) (*Ingester, store.DataStore, *recordingNotifier) {
	t.Helper()
	s, err := store.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	notifier := &recordingNotifier{}
	return NewIngester(s, notifier, "secret", zerolog.Nop()), s, notifier
}

func TestVerify(t *testing.T) {
	ing, _, _ := newTestIngester(t)

	tests := []struct {
		name      string
		mode      string
		token     string
		challenge string
		ok        bool
	}{
		{"valid", "subscribe", "secret", "12345", true},
		{"wrong token", "subscribe", "nope", "12345", false},
		{"wrong mode", "unsubscribe", "secret", "12345", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			challenge, ok := ing.Verify(tt.mode, tt.token, tt.challenge)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && challenge != tt.challenge {
				t.Fatalf("expected challenge %q, got %q", tt.challenge, challenge)
			}
		})
	}
}

func TestIngestPersistsInPayloadOrder(t *testing.T) {
	ing, s, notifier := newTestIngester(t)
	ctx := context.Background()

	account, err := s.CreateAccount(ctx, "Acme", "meta", "t1", "1000")
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now().UnixMilli()
	payload := &Payload{Entry: []Entry{{Changes: []Change{{Value: Value{
		Metadata: &Metadata{PhoneNumberID: "1000"},
		Messages: []InboundMessage{
			{From: "111", Text: &TextBody{Body: "first"}},
			{From: "222", Text: &TextBody{Body: "second"}},
			{From: "333", Text: &TextBody{Body: "third"}},
		},
	}}}}}}

	ing.Ingest(ctx, payload)

	messages, err := s.RecentMessages(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(messages))
	}
	// RecentMessages is newest-first; payload order means ascending ids
	for i := 1; i < len(messages); i++ {
		if messages[i].ID >= messages[i-1].ID {
			t.Fatalf("ids not descending in recent query")
		}
	}
	oldest := messages[len(messages)-1]
	if oldest.Text != "first" || oldest.FromNumber != "111" {
		t.Fatalf("payload order not preserved: %+v", oldest)
	}
	for _, m := range messages {
		if m.Direction != models.DirectionIn {
			t.Fatalf("expected direction=in, got %q", m.Direction)
		}
		if m.AccountID == nil || *m.AccountID != account.ID {
			t.Fatalf("expected account_id=%d, got %+v", account.ID, m.AccountID)
		}
		if m.ToNumber != "1000" {
			t.Fatalf("expected to_number=1000, got %q", m.ToNumber)
		}
		if m.Timestamp < start {
			t.Fatalf("timestamp %d before ingestion start %d", m.Timestamp, start)
		}
	}

	events := notifier.all()
	if len(events) != 3 {
		t.Fatalf("expected 3 broadcasts, got %d", len(events))
	}
	first, ok := events[0].event.(models.MessageEvent)
	if !ok {
		t.Fatalf("unexpected event type %T", events[0].event)
	}
	if first.Type != models.EventTypeMessage || first.From != "111" || first.Text != "first" {
		t.Fatalf("unexpected event: %+v", first)
	}
}

func TestIngestUnknownPhoneNumberID(t *testing.T) {
	ing, s, notifier := newTestIngester(t)
	ctx := context.Background()

	payload := &Payload{Entry: []Entry{{Changes: []Change{{Value: Value{
		Metadata: &Metadata{PhoneNumberID: "no-such"},
		Messages: []InboundMessage{{From: "5511999", Text: &TextBody{Body: "hi"}}},
	}}}}}}

	ing.Ingest(ctx, payload)

	messages, err := s.RecentMessages(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 row, got %d", len(messages))
	}
	if messages[0].AccountID != nil {
		t.Fatalf("expected null account_id, got %v", *messages[0].AccountID)
	}
	if messages[0].ToNumber != "" {
		t.Fatalf("expected empty to_number, got %q", messages[0].ToNumber)
	}

	events := notifier.all()
	if len(events) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(events))
	}
	ev := events[0].event.(models.MessageEvent)
	if ev.AccountID != nil {
		t.Fatalf("expected nil account_id in event, got %v", *ev.AccountID)
	}
}

func TestIngestSkipsMalformedLeaves(t *testing.T) {
	ing, s, _ := newTestIngester(t)
	ctx := context.Background()

	payload := &Payload{Entry: []Entry{{Changes: []Change{{Value: Value{
		Metadata: &Metadata{PhoneNumberID: "1000"},
		Messages: []InboundMessage{
			{Text: &TextBody{Body: "no sender"}},
			{From: "5511999", Text: &TextBody{Body: "ok"}},
		},
	}}}}}}

	ing.Ingest(ctx, payload)

	messages, err := s.RecentMessages(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 1 || messages[0].Text != "ok" {
		t.Fatalf("expected only the well-formed message, got %+v", messages)
	}
}
