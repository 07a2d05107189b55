// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"plan-access-bot/internal/common/metrics"

	"github.com/lib/pq"
)

// PostgresBackend stores one row per record in a shared table keyed by (collection, user_key).
type PostgresBackend struct {
	db    *sql.DB
	table string
}

func NewPostgresBackend(db *sql.DB, table string) *PostgresBackend {
	return &PostgresBackend{db: db, table: pq.QuoteIdentifier(table)}
}

func (b *PostgresBackend) Name() string { return "postgres" }

// EnsureSchema creates the records table if it does not exist.
func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	collection TEXT NOT NULL,
	user_key   TEXT NOT NULL,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, user_key)
)`, b.table)

	if _, err := b.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", b.table, err)
	}
	return nil
}

func (b *PostgresBackend) Read(ctx context.Context, collection Collection) (Records, error) {
	query := fmt.Sprintf(`SELECT user_key, payload FROM %s WHERE collection = $1`, b.table)

	rows, err := b.db.QueryContext(ctx, query, string(collection))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	records := make(Records)
	for rows.Next() {
		var key string
		var payload []byte
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		if !json.Valid(payload) {
			metrics.StoreCorruptions.WithLabelValues(string(collection)).Inc()
			continue
		}
		records[key] = json.RawMessage(payload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return records, nil
}

// Write replaces every row of the collection inside one transaction.
func (b *PostgresBackend) Write(ctx context.Context, collection Collection, records Records) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE collection = $1`, b.table)
	if _, err := tx.ExecContext(ctx, deleteQuery, string(collection)); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	insertQuery := fmt.Sprintf(`INSERT INTO %s (collection, user_key, payload) VALUES ($1, $2, $3)`, b.table)
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, insertQuery, string(collection), k, string(records[k])); err != nil {
			return fmt.Errorf("insert %s/%s: %w", collection, k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
