// Package store persists quote requests extracted from chat so members
// can revisit and convert them into orders.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"capforge/internal/quote"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a quote request does not exist.
var ErrNotFound = errors.New("quote request not found")

// Open opens the SQLite database, sets the pragmas the store relies on,
// and validates connectivity.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return db, nil
}

// Migrate runs all pending embedded migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}
	return nil
}

// QuoteRequest is one saved quote extraction.
type QuoteRequest struct {
	ID        uuid.UUID          `json:"id"`
	Message   string             `json:"message"`
	Quote     *quote.ParsedQuote `json:"quote"`
	CreatedAt time.Time          `json:"createdAt"`
}

// Quotes stores parsed quotes as JSON snapshots.
type Quotes struct {
	db *sql.DB
}

func NewQuotes(db *sql.DB) *Quotes {
	return &Quotes{db: db}
}

// Save persists a parsed quote together with its originating message.
func (s *Quotes) Save(ctx context.Context, message string, q *quote.ParsedQuote) (uuid.UUID, error) {
	payload, err := json.Marshal(q)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal parsed quote: %w", err)
	}

	id := uuid.New()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quote_requests (id, message, quote_json, created_at) VALUES (?, ?, ?, ?)`,
		id.String(), message, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert quote request: %w", err)
	}
	return id, nil
}

// Get loads one quote request by id.
func (s *Quotes) Get(ctx context.Context, id uuid.UUID) (*QuoteRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, message, quote_json, created_at FROM quote_requests WHERE id = ?`, id.String())

	var (
		rawID, message, payload, createdAt string
	)
	if err := row.Scan(&rawID, &message, &payload, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan quote request: %w", err)
	}
	return buildQuoteRequest(rawID, message, payload, createdAt)
}

// List returns the most recent quote requests, newest first.
func (s *Quotes) List(ctx context.Context, limit int) ([]*QuoteRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, message, quote_json, created_at FROM quote_requests ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query quote requests: %w", err)
	}
	defer rows.Close()

	var requests []*QuoteRequest
	for rows.Next() {
		var rawID, message, payload, createdAt string
		if err := rows.Scan(&rawID, &message, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan quote request: %w", err)
		}
		qr, err := buildQuoteRequest(rawID, message, payload, createdAt)
		if err != nil {
			return nil, err
		}
		requests = append(requests, qr)
	}
	return requests, rows.Err()
}

func buildQuoteRequest(rawID, message, payload, createdAt string) (*QuoteRequest, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse quote request id %q: %w", rawID, err)
	}
	var q quote.ParsedQuote
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		return nil, fmt.Errorf("unmarshal stored quote %s: %w", rawID, err)
	}
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse stored timestamp %q: %w", createdAt, err)
	}
	return &QuoteRequest{ID: id, Message: message, Quote: &q, CreatedAt: ts}, nil
}
