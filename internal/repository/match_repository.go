package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrMatchNotFound is returned when no snapshot exists for a match.
var ErrMatchNotFound = errors.New("match not found")

// MatchRecord is one persisted match snapshot.
type MatchRecord struct {
	MatchID   string
	Turn      int
	State     []byte
	Checksum  string
	Winner    string
	UpdatedAt time.Time
}

// MatchRepository persists match snapshots as JSONB. Expected schema:
//
//	CREATE TABLE match_snapshots (
//	    match_id   TEXT PRIMARY KEY,
//	    turn       INTEGER NOT NULL,
//	    state      JSONB NOT NULL,
//	    checksum   TEXT NOT NULL,
//	    winner     TEXT NOT NULL DEFAULT '',
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a match repository backed by db.
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// SaveSnapshot upserts the latest snapshot of a match.
func (r *MatchRepository) SaveSnapshot(ctx context.Context, rec MatchRecord) error {
	_, err := r.db.Pool().Exec(ctx, `
		INSERT INTO match_snapshots (match_id, turn, state, checksum, winner, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (match_id) DO UPDATE SET
			turn = EXCLUDED.turn,
			state = EXCLUDED.state,
			checksum = EXCLUDED.checksum,
			winner = EXCLUDED.winner,
			updated_at = now()`,
		rec.MatchID, rec.Turn, rec.State, rec.Checksum, rec.Winner,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot for match %s: %w", rec.MatchID, err)
	}
	return nil
}

// LoadSnapshot fetches the latest snapshot of a match.
func (r *MatchRepository) LoadSnapshot(ctx context.Context, matchID string) (*MatchRecord, error) {
	var rec MatchRecord
	err := r.db.Pool().QueryRow(ctx, `
		SELECT match_id, turn, state, checksum, winner, updated_at
		FROM match_snapshots
		WHERE match_id = $1`,
		matchID,
	).Scan(&rec.MatchID, &rec.Turn, &rec.State, &rec.Checksum, &rec.Winner, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for match %s: %w", matchID, err)
	}
	return &rec, nil
}

// ListUnfinished returns the IDs of matches without a recorded winner,
// for resumption after a restart.
func (r *MatchRepository) ListUnfinished(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool().Query(ctx, `
		SELECT match_id FROM match_snapshots WHERE winner = '' ORDER BY updated_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unfinished matches: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan match id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes a match snapshot.
func (r *MatchRepository) Delete(ctx context.Context, matchID string) error {
	_, err := r.db.Pool().Exec(ctx,
		`DELETE FROM match_snapshots WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete match %s: %w", matchID, err)
	}
	return nil
}
