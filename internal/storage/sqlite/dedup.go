package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DedupRepo is the durable variant of the duplicate-event guard: identifiers
// survive restarts and expire after the platform's redelivery window.
type DedupRepo struct {
	db  *sql.DB
	ttl time.Duration
}

func NewDedupRepo(db *sql.DB, ttl time.Duration) *DedupRepo {
	return &DedupRepo{db: db, ttl: ttl}
}

func (r *DedupRepo) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	// Expired rows must not shadow a re-used identifier.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM processed_events WHERE expires_at <= ?`, time.Now().UTC()); err != nil {
		return false, fmt.Errorf("failed to sweep expired events: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_events (event_id, expires_at) VALUES (?, ?)`,
		eventID, time.Now().UTC().Add(r.ttl),
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark event: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
