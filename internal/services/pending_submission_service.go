package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"accounthilfe/internal/models"
)

type PendingSubmissionStore interface {
	Create(ctx context.Context, ps models.PendingSubmission) error
	FindBySessionKey(ctx context.Context, stripeSessionID, paypalOrderID string) (models.PendingSubmission, error)
	DeleteBySessionKey(ctx context.Context, stripeSessionID, paypalOrderID string) error
}

// PendingSubmissionService keeps the wizard payload recoverable across the
// payment-provider redirect: a redis fast tier in front of the durable MySQL
// row. Reads fall through tiers; a hit in neither is reported so the client
// can restart the wizard.
type PendingSubmissionService struct {
	Store  PendingSubmissionStore
	Redis  *redis.Client
	Logger *slog.Logger
}

func pendingKey(stripeSessionID, paypalOrderID string) string {
	if stripeSessionID != "" {
		return "pending:stripe:" + stripeSessionID
	}
	return "pending:paypal:" + paypalOrderID
}

// Save persists the submission under the provider session key in both tiers.
// The durable row is authoritative; a redis write failure is only logged.
func (s *PendingSubmissionService) Save(ctx context.Context, stripeSessionID, paypalOrderID string, sub models.CaseSubmission) error {
	if stripeSessionID == "" && paypalOrderID == "" {
		return models.ErrSubmissionNotFound
	}
	formData, err := json.Marshal(sub)
	if err != nil {
		return err
	}

	ps := models.PendingSubmission{
		ID:              uuid.NewString(),
		StripeSessionID: stripeSessionID,
		PayPalOrderID:   paypalOrderID,
		FormData:        string(formData),
		ExpiresAt:       time.Now().Add(models.PendingSubmissionTTL),
	}
	if err := s.Store.Create(ctx, ps); err != nil {
		return err
	}

	if err := s.Redis.Set(ctx, pendingKey(stripeSessionID, paypalOrderID), formData, models.PendingSubmissionTTL).Err(); err != nil {
		s.Logger.Warn("pending submission redis write failed", "err", err)
	}
	return nil
}

// Load recovers the submission for a provider session key: redis first, then
// the durable row. Not-found and expired remain distinguishable.
func (s *PendingSubmissionService) Load(ctx context.Context, stripeSessionID, paypalOrderID string) (models.CaseSubmission, error) {
	if stripeSessionID == "" && paypalOrderID == "" {
		return models.CaseSubmission{}, models.ErrSubmissionNotFound
	}

	raw, err := s.Redis.Get(ctx, pendingKey(stripeSessionID, paypalOrderID)).Result()
	if err == nil {
		var sub models.CaseSubmission
		if err := json.Unmarshal([]byte(raw), &sub); err == nil {
			return sub, nil
		}
		s.Logger.Warn("pending submission redis payload corrupt, falling back", "err", err)
	} else if !errors.Is(err, redis.Nil) {
		s.Logger.Warn("pending submission redis read failed, falling back", "err", err)
	}

	ps, err := s.Store.FindBySessionKey(ctx, stripeSessionID, paypalOrderID)
	if err != nil {
		return models.CaseSubmission{}, err
	}
	var sub models.CaseSubmission
	if err := json.Unmarshal([]byte(ps.FormData), &sub); err != nil {
		return models.CaseSubmission{}, err
	}
	return sub, nil
}

// Delete removes the submission from both tiers once the case is committed.
func (s *PendingSubmissionService) Delete(ctx context.Context, stripeSessionID, paypalOrderID string) error {
	if stripeSessionID == "" && paypalOrderID == "" {
		return nil
	}
	if err := s.Redis.Del(ctx, pendingKey(stripeSessionID, paypalOrderID)).Err(); err != nil {
		s.Logger.Warn("pending submission redis delete failed", "err", err)
	}
	return s.Store.DeleteBySessionKey(ctx, stripeSessionID, paypalOrderID)
}
