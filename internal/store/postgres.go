package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/models"
)

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	store := &PostgresStore{pool: pool}

	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		provider TEXT NOT NULL,
		token TEXT NOT NULL,
		phone_number_id TEXT NOT NULL,
		created_at BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		account_id BIGINT,
		from_number TEXT NOT NULL DEFAULT '',
		to_number TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		direction TEXT NOT NULL,
		ts BIGINT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_phone_number_id ON accounts(phone_number_id);
	CREATE INDEX IF NOT EXISTS idx_messages_ts ON messages(ts);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateAccount creates a new account record.
func (s *PostgresStore) CreateAccount(ctx context.Context, name, provider, token, phoneNumberID string) (*models.Account, error) {
	account := &models.Account{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO accounts (name, provider, token, phone_number_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, provider, token, phone_number_id, created_at
	`, name, provider, token, phoneNumberID, time.Now().UnixMilli()).Scan(
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
	return account, nil
}

// GetAccountByID retrieves an account by ID.
func (s *PostgresStore) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	return s.scanAccount(s.pool.QueryRow(ctx, `
		SELECT id, name, provider, token, phone_number_id, created_at
		FROM accounts WHERE id = $1
	`, id))
}

// GetAccountByPhoneNumberID retrieves the account owning a
// provider-assigned phone number id.
func (s *PostgresStore) GetAccountByPhoneNumberID(ctx context.Context, phoneNumberID string) (*models.Account, error) {
	return s.scanAccount(s.pool.QueryRow(ctx, `
		SELECT id, name, provider, token, phone_number_id, created_at
		FROM accounts WHERE phone_number_id = $1
		ORDER BY id LIMIT 1
	`, phoneNumberID))
}

func (s *PostgresStore) scanAccount(row pgx.Row) (*models.Account, error) {
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves all accounts in insertion order.
func (s *PostgresStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.pool.Query(ctx, `
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
func (s *PostgresStore) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	return count, err
}

// AppendMessage inserts a message row and returns it with the assigned id.
func (s *PostgresStore) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	stored := *msg
	err := s.pool.QueryRow(ctx, `
		INSERT INTO messages (account_id, from_number, to_number, text, direction, ts)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, msg.AccountID, msg.FromNumber, msg.ToNumber, msg.Text, msg.Direction, msg.Timestamp).Scan(&stored.ID)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// RecentMessages retrieves up to limit messages, newest first.
func (s *PostgresStore) RecentMessages(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > DefaultRecentLimit {
		limit = DefaultRecentLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, account_id, from_number, to_number, text, direction, ts
		FROM messages
		ORDER BY ts DESC, id DESC
		LIMIT $1
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
func (s *PostgresStore) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}
