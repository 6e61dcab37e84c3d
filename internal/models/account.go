package models

// Account is a registered messaging identity: provider credentials plus
// the provider-assigned routing key (for Meta, the phone number id).
// Accounts are immutable after creation.
type Account struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	Token         string `json:"token"` // returned verbatim by the list API; known gap, kept as-is
	PhoneNumberID string `json:"phone_number_id"`
	CreatedAt     int64  `json:"created_at"` // Unix ms
}
