package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
`

type userRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// SQLStore keeps users in a SQLite database.
type SQLStore struct {
	db   *sqlx.DB
	cost int
}

// OpenSQLStore opens the database at dsn and creates the users table.
func OpenSQLStore(ctx context.Context, dsn string, opts ...Option) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	s := newSettings(opts)
	return &SQLStore{db: db, cost: s.cost}, nil
}

// Register implements Store.
func (s *SQLStore) Register(ctx context.Context, username, password string) (UserID, error) {
	username, err := validate(username, password)
	if err != nil {
		return "", err
	}

	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM users WHERE username = ?", username); err != nil {
		return "", fmt.Errorf("lookup user %s: %w", username, err)
	}
	if n > 0 {
		return "", ErrDuplicateUsername
	}

	hash, err := hashPassword(password, s.cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)",
		id, username, hash, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrDuplicateUsername
		}
		return "", fmt.Errorf("insert user %s: %w", username, err)
	}
	return UserID(id), nil
}

// Verify implements Store.
func (s *SQLStore) Verify(ctx context.Context, username, password string) (UserID, error) {
	username, err := validate(username, password)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	var row userRow
	err = s.db.GetContext(ctx, &row, "SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("get user %s: %w", username, err)
	}
	if err := checkPassword(row.PasswordHash, password); err != nil {
		return "", err
	}
	return UserID(row.ID), nil
}

// Count implements Store.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Close implements Store.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
