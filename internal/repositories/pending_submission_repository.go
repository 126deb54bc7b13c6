package repositories

import (
	"context"
	"database/sql"
	"time"

	"accounthilfe/internal/models"
)

type PendingSubmissionRepository struct {
	DB *sql.DB
}

func (r *PendingSubmissionRepository) Create(ctx context.Context, ps models.PendingSubmission) error {
	ps.CreatedAt = time.Now()
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO pending_submissions (id, stripe_session_id, paypal_order_id, form_data, expires_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, ps.ID, nullIfEmpty(ps.StripeSessionID), nullIfEmpty(ps.PayPalOrderID),
		ps.FormData, ps.ExpiresAt, ps.CreatedAt)
	return err
}

// FindBySessionKey looks the submission up by either provider key. A row past
// its expiry is deleted on read and reported as expired.
func (r *PendingSubmissionRepository) FindBySessionKey(ctx context.Context, stripeSessionID, paypalOrderID string) (models.PendingSubmission, error) {
	var (
		row *sql.Row
	)
	switch {
	case stripeSessionID != "":
		row = r.DB.QueryRowContext(ctx, `
            SELECT id, COALESCE(stripe_session_id, ''), COALESCE(paypal_order_id, ''), form_data, expires_at, created_at
            FROM pending_submissions WHERE stripe_session_id = ?
        `, stripeSessionID)
	case paypalOrderID != "":
		row = r.DB.QueryRowContext(ctx, `
            SELECT id, COALESCE(stripe_session_id, ''), COALESCE(paypal_order_id, ''), form_data, expires_at, created_at
            FROM pending_submissions WHERE paypal_order_id = ?
        `, paypalOrderID)
	default:
		return models.PendingSubmission{}, models.ErrSubmissionNotFound
	}

	var ps models.PendingSubmission
	err := row.Scan(&ps.ID, &ps.StripeSessionID, &ps.PayPalOrderID, &ps.FormData, &ps.ExpiresAt, &ps.CreatedAt)
	if err == sql.ErrNoRows {
		return models.PendingSubmission{}, models.ErrSubmissionNotFound
	}
	if err != nil {
		return models.PendingSubmission{}, err
	}

	if time.Now().After(ps.ExpiresAt) {
		_, _ = r.DB.ExecContext(ctx, `DELETE FROM pending_submissions WHERE id = ?`, ps.ID)
		return models.PendingSubmission{}, models.ErrSubmissionExpired
	}
	return ps, nil
}

// DeleteBySessionKey removes the row after successful case creation. Missing
// rows are not an error; cleanup is best-effort.
func (r *PendingSubmissionRepository) DeleteBySessionKey(ctx context.Context, stripeSessionID, paypalOrderID string) error {
	if stripeSessionID != "" {
		if _, err := r.DB.ExecContext(ctx, `DELETE FROM pending_submissions WHERE stripe_session_id = ?`, stripeSessionID); err != nil {
			return err
		}
	}
	if paypalOrderID != "" {
		if _, err := r.DB.ExecContext(ctx, `DELETE FROM pending_submissions WHERE paypal_order_id = ?`, paypalOrderID); err != nil {
			return err
		}
	}
	return nil
}
