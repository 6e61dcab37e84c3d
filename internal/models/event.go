package models

// Realtime event types pushed to connected subscribers. Events are a
// nudge-to-refetch signal; clients reload state from the query endpoints.
const (
	EventTypeMessage = "message"
	EventTypeOut     = "out"
)

// MessageEvent announces an ingested inbound message.
type MessageEvent struct {
	Type      string `json:"type"` // EventTypeMessage
	AccountID *int64 `json:"account_id"`
	From      string `json:"from"`
	Text      string `json:"text"`
}

// OutEvent announces a completed outbound send.
type OutEvent struct {
	Type      string `json:"type"` // EventTypeOut
	AccountID int64  `json:"account_id"`
	To        string `json:"to"`
	Text      string `json:"text"`
}
