package models

// Message directions, relative to this system.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Message is one row of the append-only message log. Rows are never
// mutated or deleted; IDs are store-assigned and strictly increasing
// with insertion order.
type Message struct {
	ID         int64  `json:"id"`
	AccountID  *int64 `json:"account_id"` // nil when no registered account matched the inbound sender
	FromNumber string `json:"from_number"`
	ToNumber   string `json:"to_number"`
	Text       string `json:"text"`
	Direction  string `json:"direction"` // "in" or "out"
	Timestamp  int64  `json:"ts"`        // Unix ms
}
