// Package store keeps a contact list in PostgreSQL so phone books can be
// regenerated without the original CSV.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/phonebook/internal/config"
	"github.com/JonMunkholm/phonebook/internal/contact"
	"github.com/JonMunkholm/phonebook/internal/logging"
)

// ErrNoDatabase is returned when no database URL is configured.
var ErrNoDatabase = errors.New("no database configured")

const tableName = "contacts"

// copyColumns is the column order used by CopyFrom.
var copyColumns = []string{"id", "position", "name", "phone", "cellular", "sort_key", "frontpage", "imported_at"}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS contacts (
	id          uuid PRIMARY KEY,
	position    integer NOT NULL,
	name        text NOT NULL DEFAULT '',
	phone       text NOT NULL DEFAULT '',
	cellular    text NOT NULL DEFAULT '',
	sort_key    text NOT NULL DEFAULT '',
	frontpage   text NOT NULL DEFAULT '',
	imported_at timestamptz NOT NULL DEFAULT now()
)`

const listSQL = `
SELECT name, phone, cellular, sort_key, frontpage
FROM contacts
ORDER BY position`

// Store reads and replaces the stored contact list.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to the database described by cfg and verifies the
// connection. It returns ErrNoDatabase when cfg has no URL.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	if !cfg.HasDatabase() {
		return nil, ErrNoDatabase
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logging.FromContext(ctx).Info("connected to database",
		"database", poolConfig.ConnConfig.Database,
	)
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the contacts table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Replace swaps the stored contact list for contacts in one transaction.
// It returns the number of rows written.
func (s *Store) Replace(ctx context.Context, contacts []contact.Contact) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	if _, err := tx.Exec(ctx, "TRUNCATE "+tableName); err != nil {
		return 0, fmt.Errorf("truncate contacts: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{tableName}, copyColumns,
		pgx.CopyFromRows(copyRows(contacts, time.Now())))
	if err != nil {
		return 0, fmt.Errorf("copy contacts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.FromContext(ctx).Info("contacts stored", "rows", n)
	return n, nil
}

// List returns the stored contacts in their original order.
func (s *Store) List(ctx context.Context) ([]contact.Contact, error) {
	rows, err := s.pool.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}

	contacts, err := pgx.CollectRows(rows, pgx.RowToStructByPos[contact.Contact])
	if err != nil {
		return nil, fmt.Errorf("scan contacts: %w", err)
	}
	return contacts, nil
}

// copyRows converts contacts into CopyFrom rows in copyColumns order.
// Each row gets a fresh ID; position keeps the input order.
func copyRows(contacts []contact.Contact, importedAt time.Time) [][]any {
	rows := make([][]any, len(contacts))
	for i, c := range contacts {
		rows[i] = []any{
			pgtype.UUID{Bytes: uuid.New(), Valid: true},
			int32(i),
			c.Name,
			c.Phone,
			c.Cellular,
			c.Sort,
			c.FrontPage,
			pgtype.Timestamptz{Time: importedAt, Valid: true},
		}
	}
	return rows
}
