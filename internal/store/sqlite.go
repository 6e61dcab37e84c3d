package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/models"
)

// SQLiteStore handles SQLite database operations. It is the default
// backend, mirroring the embedded database the system originally ran on.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/inbox.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/inbox.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; one connection serializes appends
	// without lock contention errors.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	// Initialize schema
	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		provider TEXT NOT NULL,
		token TEXT NOT NULL,
		phone_number_id TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id INTEGER,
		from_number TEXT NOT NULL DEFAULT '',
		to_number TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		direction TEXT NOT NULL,
		ts INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_phone_number_id ON accounts(phone_number_id);
	CREATE INDEX IF NOT EXISTS idx_messages_ts ON messages(ts);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateAccount creates a new account record.
func (s *SQLiteStore) CreateAccount(ctx context.Context, name, provider, token, phoneNumberID string) (*models.Account, error) {
	now := time.Now().UnixMilli()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (name, provider, token, phone_number_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, name, provider, token, phoneNumberID, now)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.GetAccountByID(ctx, id)
}

// GetAccountByID retrieves an account by ID.
func (s *SQLiteStore) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx, `
		SELECT id, name, provider, token, phone_number_id, created_at
		FROM accounts WHERE id = ?
	`, id))
}

// GetAccountByPhoneNumberID retrieves the account owning a
// provider-assigned phone number id.
func (s *SQLiteStore) GetAccountByPhoneNumberID(ctx context.Context, phoneNumberID string) (*models.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx, `
		SELECT id, name, provider, token, phone_number_id, created_at
		FROM accounts WHERE phone_number_id = ?
		ORDER BY id LIMIT 1
	`, phoneNumberID))
}

func (s *SQLiteStore) scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Provider,
		&account.Token,
		&account.PhoneNumberID,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves all accounts in insertion order.
func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, provider, token, phone_number_id, created_at
		FROM accounts ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(
			&account.ID,
			&account.Name,
			&account.Provider,
			&account.Token,
			&account.PhoneNumberID,
			&account.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// CountAccounts returns the total number of registered accounts.
func (s *SQLiteStore) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	return count, err
}

// AppendMessage inserts a message row and returns it with the assigned id.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (account_id, from_number, to_number, text, direction, ts)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.AccountID, msg.FromNumber, msg.ToNumber, msg.Text, msg.Direction, msg.Timestamp)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	stored := *msg
	stored.ID = id
	return &stored, nil
}

// RecentMessages retrieves up to limit messages, newest first.
func (s *SQLiteStore) RecentMessages(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > DefaultRecentLimit {
		limit = DefaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, from_number, to_number, text, direction, ts
		FROM messages
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		err := rows.Scan(
			&msg.ID,
			&msg.AccountID,
			&msg.FromNumber,
			&msg.ToNumber,
			&msg.Text,
			&msg.Direction,
			&msg.Timestamp,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// CountMessages returns the total number of stored messages.
func (s *SQLiteStore) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}
