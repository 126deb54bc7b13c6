package repositories

import (
	"context"
	"database/sql"
	"time"

	"accounthilfe/internal/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

// HasNotification reports whether a notification of the given type was
// already recorded for the case.
func (r *NotificationRepository) HasNotification(ctx context.Context, caseID, typ string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, `
        SELECT 1 FROM notifications WHERE case_id = ? AND type = ?
    `, caseID, typ).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RecordNotification writes the at-most-once marker. The unique key on
// (case_id, type) turns a raced second insert into ErrDuplicateNotification.
func (r *NotificationRepository) RecordNotification(ctx context.Context, caseID, typ string) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO notifications (case_id, type, created_at) VALUES (?, ?, ?)
    `, caseID, typ, time.Now())
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.ErrDuplicateNotification
		}
		return err
	}
	return nil
}
