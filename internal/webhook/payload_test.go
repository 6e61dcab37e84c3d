package webhook

import (
	"encoding/json"
	"testing"
)

func TestParseMessagesWellFormed(t *testing.T) {
	raw := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "e1",
			"changes": [{
				"field": "messages",
				"value": {
					"metadata": {"phone_number_id": "1000"},
					"messages": [
						{"from": "5511999", "text": {"body": "hi"}},
						{"from": "5511888", "text": {"body": "hello"}}
					]
				}
			}]
		}]
	}`

	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatal(err)
	}

	parsed, failures := parseMessages(&p)
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(parsed))
	}
	if parsed[0].From != "5511999" || parsed[0].Text != "hi" || parsed[0].PhoneNumberID != "1000" {
		t.Fatalf("unexpected first message: %+v", parsed[0])
	}
	if parsed[1].From != "5511888" {
		t.Fatalf("payload order not preserved: %+v", parsed[1])
	}
}

func TestParseMessagesMissingText(t *testing.T) {
	p := &Payload{Entry: []Entry{{Changes: []Change{{Value: Value{
		Metadata: &Metadata{PhoneNumberID: "1000"},
		Messages: []InboundMessage{{From: "5511999"}},
	}}}}}}

	parsed, failures := parseMessages(p)
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}
	if len(parsed) != 1 || parsed[0].Text != "" {
		t.Fatalf("expected empty text, got %+v", parsed)
	}
}

func TestParseMessagesMissingSender(t *testing.T) {
	p := &Payload{Entry: []Entry{{Changes: []Change{{Value: Value{
		Metadata: &Metadata{PhoneNumberID: "1000"},
		Messages: []InboundMessage{
			{Text: &TextBody{Body: "no sender"}},
			{From: "5511999", Text: &TextBody{Body: "ok"}},
		},
	}}}}}}

	parsed, failures := parseMessages(p)
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].MessageIndex != 0 {
		t.Fatalf("expected failure at message 0, got %+v", failures[0])
	}
	// The malformed leaf never aborts the rest
	if len(parsed) != 1 || parsed[0].From != "5511999" {
		t.Fatalf("expected remaining message parsed, got %+v", parsed)
	}
}

func TestParseMessagesPhoneNumberIDFallback(t *testing.T) {
	p := &Payload{Entry: []Entry{{Changes: []Change{{Value: Value{
		PhoneNumberID: "2000",
		Messages:      []InboundMessage{{From: "5511999"}},
	}}}}}}

	parsed, _ := parseMessages(p)
	if len(parsed) != 1 || parsed[0].PhoneNumberID != "2000" {
		t.Fatalf("expected fallback phone number id, got %+v", parsed)
	}
}

func TestParseMessagesEmptyPayload(t *testing.T) {
	parsed, failures := parseMessages(&Payload{})
	if len(parsed) != 0 || len(failures) != 0 {
		t.Fatalf("expected nothing, got %v / %v", parsed, failures)
	}
}
