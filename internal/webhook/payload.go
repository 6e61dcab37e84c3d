package webhook

import "fmt"

// Payload is the provider callback body: entries, each carrying changes,
// each wrapping a value with message leaves. Fields are decoded through
// this explicit schema; there is no untyped deep-path access.
type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one webhook entry.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change is one change inside an entry.
type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

// Value holds the change's metadata and message leaves. Some provider
// payloads carry the phone number id directly on the value instead of
// under metadata; both spellings are read.
type Value struct {
	Metadata      *Metadata        `json:"metadata"`
	PhoneNumberID string           `json:"phone_number_id"`
	Messages      []InboundMessage `json:"messages"`
}

// Metadata identifies the receiving account's routing key.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// InboundMessage is one message leaf.
type InboundMessage struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	Timestamp string    `json:"timestamp"`
	Type      string    `json:"type"`
	Text      *TextBody `json:"text"`
}

// TextBody carries the message text.
type TextBody struct {
	Body string `json:"body"`
}

// phoneNumberID resolves the owning routing key for a change value.
func (v *Value) phoneNumberID() string {
	if v.Metadata != nil && v.Metadata.PhoneNumberID != "" {
		return v.Metadata.PhoneNumberID
	}
	return v.PhoneNumberID
}

// ParsedMessage is one validated message ready for ingestion.
type ParsedMessage struct {
	From          string
	Text          string // empty when the leaf has no text body
	PhoneNumberID string
}

// ParseError describes one malformed message leaf. Parse failures are
// logged and skipped; they never abort the remaining entries.
type ParseError struct {
	EntryIndex   int
	ChangeIndex  int
	MessageIndex int
	Reason       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("webhook entry %d change %d message %d: %s",
		e.EntryIndex, e.ChangeIndex, e.MessageIndex, e.Reason)
}

// parseMessages flattens a payload into validated messages, in payload
// order, collecting a ParseError per malformed leaf.
func parseMessages(p *Payload) ([]ParsedMessage, []*ParseError) {
	var parsed []ParsedMessage
	var failures []*ParseError

	for ei, entry := range p.Entry {
		for ci, change := range entry.Changes {
			pnid := change.Value.phoneNumberID()
			for mi, msg := range change.Value.Messages {
				if msg.From == "" {
					failures = append(failures, &ParseError{
						EntryIndex: ei, ChangeIndex: ci, MessageIndex: mi,
						Reason: "missing sender",
					})
					continue
				}

				text := ""
				if msg.Text != nil {
					text = msg.Text.Body
				}

				parsed = append(parsed, ParsedMessage{
					From:          msg.From,
					Text:          text,
					PhoneNumberID: pnid,
				})
			}
		}
	}

	return parsed, failures
}
