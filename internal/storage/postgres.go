// internal/storage/postgres.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/AUDL2018/tiny-message-api/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type Storage struct {
	DB *sql.DB
}

func NewStorage(dsn string) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return &Storage{DB: db}, nil
}

// ResetSchema drops both tables and recreates them empty. Every boot with
// database.reset_schema enabled starts from a blank store.
func (s *Storage) ResetSchema(ctx context.Context) error {
	statements := []string{
		`DROP TABLE IF EXISTS messages`,
		`DROP TABLE IF EXISTS users`,
		`CREATE TABLE users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL CHECK (username <> ''),
			password TEXT NOT NULL CHECK (password <> ''),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE messages (
			id SERIAL PRIMARY KEY,
			text TEXT NOT NULL CHECK (text <> ''),
			user_id INTEGER REFERENCES users (id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to reset schema: %w", err)
		}
	}
	return nil
}

func (s *Storage) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	user := &model.User{Username: username, Password: password}
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, username, password).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// FindUserByCredentials matches username and password by direct equality.
// Usernames are not unique; the lowest id wins.
func (s *Storage) FindUserByCredentials(ctx context.Context, username, password string) (*model.User, error) {
	user := &model.User{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, username, password, created_at
		FROM users
		WHERE username = $1 AND password = $2
		ORDER BY id
		LIMIT 1
	`, username, password).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *Storage) CreateMessage(ctx context.Context, text string, userID int64) (*model.Message, error) {
	msg := &model.Message{Text: text, UserID: userID}
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO messages (text, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, text, userID).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}

func (s *Storage) ListMessages(ctx context.Context) ([]model.Message, error) {
	return s.queryMessages(ctx, `
		SELECT id, text, user_id, created_at
		FROM messages
		ORDER BY id
	`)
}

func (s *Storage) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	msg := &model.Message{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, text, user_id, created_at
		FROM messages
		WHERE id = $1
	`, id).Scan(&msg.ID, &msg.Text, &msg.UserID, &msg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

func (s *Storage) ListMessagesByUser(ctx context.Context, userID int64) ([]model.Message, error) {
	return s.queryMessages(ctx, `
		SELECT id, text, user_id, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY id
	`, userID)
}

func (s *Storage) queryMessages(ctx context.Context, query string, args ...interface{}) ([]model.Message, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Text, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows failed: %w", err)
	}
	return messages, nil
}

// IsConstraintViolation reports whether err is a postgres integrity
// violation (missing required field, broken foreign key).
func IsConstraintViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Class() == "23"
}
