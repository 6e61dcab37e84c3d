package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/models"
)

func testAccount() *models.Account {
	return &models.Account{
		ID:            1,
		Name:          "Acme",
		Provider:      ProviderMeta,
		Token:         "t1",
		PhoneNumberID: "1000",
	}
}

func TestMetaSendRequestShape(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody metaSendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"messages":[{"id":"wamid.X"}]}`))
	}))
	defer srv.Close()

	sender := NewMetaSender(zerolog.Nop(), srv.URL, srv.Client())
	if err := sender.Send(context.Background(), testAccount(), "5511999", "hi"); err != nil {
		t.Fatal(err)
	}

	if gotPath != "/1000/messages" {
		t.Fatalf("expected path /1000/messages, got %s", gotPath)
	}
	if gotAuth != "Bearer t1" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if gotBody.MessagingProduct != "whatsapp" || gotBody.To != "5511999" || gotBody.Text.Body != "hi" {
		t.Fatalf("unexpected payload: %+v", gotBody)
	}
}

func TestMetaSendProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`))
	}))
	defer srv.Close()

	sender := NewMetaSender(zerolog.Nop(), srv.URL, srv.Client())
	err := sender.Send(context.Background(), testAccount(), "5511999", "hi")
	if err == nil {
		t.Fatal("expected error")
	}

	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("expected *SendError, got %T", err)
	}
	if sendErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", sendErr.StatusCode)
	}
	if sendErr.Message != "Invalid OAuth access token" {
		t.Fatalf("expected provider message, got %q", sendErr.Message)
	}
}

func TestMetaSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection refused

	sender := NewMetaSender(zerolog.Nop(), srv.URL, nil)
	err := sender.Send(context.Background(), testAccount(), "5511999", "hi")

	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("expected *SendError, got %T (%v)", err, err)
	}
	if sendErr.StatusCode != 0 {
		t.Fatalf("expected status 0 for transport failure, got %d", sendErr.StatusCode)
	}
}

func TestRegistryDispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	reg := NewRegistry()
	reg.Register(NewMetaSender(zerolog.Nop(), srv.URL, srv.Client()))

	if err := reg.Send(context.Background(), testAccount(), "5511999", "hi"); err != nil {
		t.Fatal(err)
	}
}

func TestRegistryUnknownProvider(t *testing.T) {
	reg := NewRegistry()

	account := testAccount()
	account.Provider = "telegram"
	err := reg.Send(context.Background(), account, "5511999", "hi")

	var unknown *ErrUnknownProvider
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *ErrUnknownProvider, got %T", err)
	}
	if unknown.Provider != "telegram" {
		t.Fatalf("expected telegram tag, got %q", unknown.Provider)
	}
}
