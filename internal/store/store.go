package store

import (
	"context"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/models"
)

// DefaultRecentLimit caps RecentMessages queries.
const DefaultRecentLimit = 200

// DataStore defines the interface for persistent storage of accounts and
// the append-only message log. Both PostgresStore and SQLiteStore
// implement this interface.
type DataStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Account operations. Accounts are immutable after creation; lookups
	// return (nil, nil) when no row matches.
	CreateAccount(ctx context.Context, name, provider, token, phoneNumberID string) (*models.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	GetAccountByPhoneNumberID(ctx context.Context, phoneNumberID string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	CountAccounts(ctx context.Context) (int64, error)

	// Message operations. AppendMessage assigns the id; ids strictly
	// increase with insertion order.
	AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	RecentMessages(ctx context.Context, limit int) ([]models.Message, error)
	CountMessages(ctx context.Context) (int64, error)
}
