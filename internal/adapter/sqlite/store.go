package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		spot TEXT NOT NULL,
		observed_at INTEGER NOT NULL,
		quality TEXT NOT NULL,
		score REAL NOT NULL,
		signal TEXT NOT NULL,
		payload TEXT NOT NULL,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_assessments_spot_observed ON assessments(spot, observed_at DESC);
`

// Store persists assessments in SQLite so the API can serve the last known
// conditions for a spot when the upstreams are down. It also implements
// pipeline.BatchLoader.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating assessments table: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Save upserts an assessment by ID.
func (s *Store) Save(ctx context.Context, a domain.Assessment) error {
	return s.saveAll(ctx, []domain.Assessment{a})
}

// Latest returns the most recently observed assessment for a spot.
func (s *Store) Latest(ctx context.Context, slug string) (domain.Assessment, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM assessments WHERE spot = ? ORDER BY observed_at DESC LIMIT 1`, slug,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assessment{}, false, nil
	}
	if err != nil {
		return domain.Assessment{}, false, fmt.Errorf("query latest assessment: %w", err)
	}

	var a domain.Assessment
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return domain.Assessment{}, false, fmt.Errorf("decode stored assessment: %w", err)
	}
	return a, true, nil
}

// LoadBatch decodes serialized assessments and saves them in one transaction.
// Events that do not decode are skipped.
func (s *Store) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	batch := make([]domain.Assessment, 0, len(events))
	for _, e := range events {
		var a domain.Assessment
		if err := json.Unmarshal(e.Value, &a); err != nil {
			s.logger.Warn("skipping undecodable assessment", "key", string(e.Key), "error", err)
			continue
		}
		batch = append(batch, a)
	}
	if len(batch) == 0 {
		return nil
	}
	return s.saveAll(ctx, batch)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) saveAll(ctx context.Context, batch []domain.Assessment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO assessments (id, spot, observed_at, quality, score, signal, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			quality = excluded.quality,
			score = excluded.score,
			signal = excluded.signal,
			payload = excluded.payload,
			saved_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range batch {
		// Stale is a response-time flag, never persisted.
		a.Stale = false
		payload, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encode assessment %s: %w", a.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			a.ID, a.Spot, a.ObservedAt.UnixMilli(),
			string(a.Result.Quality), a.Result.Score, string(a.Signal.Kind), string(payload),
		); err != nil {
			return fmt.Errorf("save assessment %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}
