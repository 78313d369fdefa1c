package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bnema/homewatch-cli/internal/domain"
	"github.com/bnema/homewatch-cli/internal/ports"
)

// Store persists observations in a SQLite database. Each item keeps a
// bounded history: Append prunes the oldest rows past the caller's keep
// count inside the same transaction, so the table never grows unbounded.
type Store struct {
	db *sql.DB
}

var _ ports.ObservationLog = (*Store)(nil)

func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history schema: %w", err)
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS observations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	item_id     TEXT NOT NULL,
	observed_at TEXT NOT NULL,
	source      TEXT NOT NULL,
	state       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_observations_item_observed ON observations (item_id, observed_at DESC);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) Append(ctx context.Context, obs domain.Observation, keep int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO observations (item_id, observed_at, source, state)
		VALUES (?, ?, ?, ?)
	`, string(obs.ItemID), obs.ObservedAt.UTC().Format(time.RFC3339Nano), string(obs.Source), obs.State)
	if err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}

	if keep > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM observations
			WHERE item_id = ?
			  AND id NOT IN (
				SELECT id FROM observations
				WHERE item_id = ?
				ORDER BY observed_at DESC, id DESC
				LIMIT ?
			  )
		`, string(obs.ItemID), string(obs.ItemID), keep)
		if err != nil {
			return fmt.Errorf("prune observations: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append transaction: %w", err)
	}

	return nil
}

func (s *Store) RecentByItem(ctx context.Context, id domain.ItemID, limit int) ([]domain.Observation, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded.
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, observed_at, source, state
		FROM observations
		WHERE item_id = ?
		ORDER BY observed_at DESC, id DESC
		LIMIT ?
	`, string(id), limit)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var observations []domain.Observation
	for rows.Next() {
		var (
			itemID     string
			observedAt string
			source     string
			state      string
		)
		if err := rows.Scan(&itemID, &observedAt, &source, &state); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}

		at, err := time.Parse(time.RFC3339Nano, observedAt)
		if err != nil {
			return nil, fmt.Errorf("parse observation timestamp %q: %w", observedAt, err)
		}

		observations = append(observations, domain.Observation{
			ItemID:     domain.ItemID(itemID),
			ObservedAt: at,
			Source:     domain.ObservationSource(source),
			State:      state,
		})
	}

	return observations, rows.Err()
}
