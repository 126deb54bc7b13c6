package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const caseCounterID = "case_counter"

// CounterRepository allocates year-scoped sequential case numbers. The
// increment happens in a single statement so two concurrent creations can
// never observe the same value.
type CounterRepository struct {
	DB *sql.DB
}

// NextCaseNumber atomically increments the counter and formats the result as
// AH-<year>-<seq, 4 digits>. When the stored year differs from now's year the
// counter resets to 1 before being read.
func (r *CounterRepository) NextCaseNumber(ctx context.Context, now time.Time) (string, error) {
	year := now.Year()

	// LAST_INSERT_ID(expr) makes the post-increment value readable from the
	// result without a second round trip. On the fresh-insert path MySQL
	// reports 0, which means the row was just created with counter = 1.
	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO case_counters (id, year, counter)
        VALUES (?, ?, 1)
        ON DUPLICATE KEY UPDATE
            counter = LAST_INSERT_ID(IF(year = VALUES(year), counter + 1, 1)),
            year = VALUES(year)
    `, caseCounterID, year)
	if err != nil {
		return "", fmt.Errorf("allocate case number: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("read allocated case number: %w", err)
	}
	if seq == 0 {
		seq = 1
	}

	return fmt.Sprintf("AH-%d-%04d", year, seq), nil
}
