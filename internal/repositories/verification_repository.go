package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"accounthilfe/internal/models"
)

// VerificationRepository stores email verification codes as expiring redis
// keys, so codes survive process restarts and work across instances. TTL
// replaces manual cleanup.
type VerificationRepository struct {
	Redis *redis.Client
}

func verificationKey(email string) string {
	return "verify:" + strings.ToLower(strings.TrimSpace(email))
}

func (r *VerificationRepository) SetCode(ctx context.Context, email, code string, ttl time.Duration) error {
	return r.Redis.Set(ctx, verificationKey(email), code, ttl).Err()
}

func (r *VerificationRepository) GetCode(ctx context.Context, email string) (string, error) {
	code, err := r.Redis.Get(ctx, verificationKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", models.ErrVerificationCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (r *VerificationRepository) DeleteCode(ctx context.Context, email string) error {
	return r.Redis.Del(ctx, verificationKey(email)).Err()
}
