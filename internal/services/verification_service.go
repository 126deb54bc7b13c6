package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"accounthilfe/internal/models"
)

type VerificationStore interface {
	SetCode(ctx context.Context, email, code string, ttl time.Duration) error
	GetCode(ctx context.Context, email string) (string, error)
	DeleteCode(ctx context.Context, email string) error
}

// codeTTL is how long a verification code stays valid.
const codeTTL = 10 * time.Minute

// VerificationService sends and checks the 6-digit email ownership codes used
// before the wizard accepts a submission.
type VerificationService struct {
	Store VerificationStore
	Mail  MailSender
}

// SendCode generates a fresh code for the email and mails it. A new request
// overwrites any previous code.
func (s *VerificationService) SendCode(ctx context.Context, email string) error {
	if !models.ValidEmail(email) {
		return fmt.Errorf("invalid email address")
	}
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}
	if err := s.Store.SetCode(ctx, email, code, codeTTL); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	subject, html := VerificationCodeEmail(code)
	if err := s.Mail.Send(email, subject, html); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

// generateCode draws a 6-digit code from the system CSPRNG. The codes gate
// email ownership, so they must not be predictable across restarts.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// CheckCode verifies the submitted code and consumes it on success.
func (s *VerificationService) CheckCode(ctx context.Context, email, code string) error {
	stored, err := s.Store.GetCode(ctx, email)
	if err != nil {
		return err
	}
	if stored != code {
		return models.ErrVerificationCodeMismatch
	}
	return s.Store.DeleteCode(ctx, email)
}
