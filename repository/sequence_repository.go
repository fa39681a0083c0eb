package repository

import (
	"database/sql"
	"fmt"
)

// SequenceRepository owns the per-year tracking counter. The service runs as
// multiple stateless instances, so the increment must happen inside MySQL,
// never as an in-process read-then-write.
type SequenceRepository struct {
	db *sql.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *sql.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// NextSequence atomically increments and returns the counter for the given
// year. The LAST_INSERT_ID(seq + 1) upsert is a single statement, so two
// concurrent calls can never observe the same value.
func (r *SequenceRepository) NextSequence(year int) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO tracking_sequences (year, seq) VALUES (?, LAST_INSERT_ID(1))
		ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)
	`, year)
	if err != nil {
		return 0, fmt.Errorf("failed to increment tracking sequence: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read tracking sequence: %w", err)
	}
	return seq, nil
}
