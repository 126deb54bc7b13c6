package models

import "errors"

var (
	ErrValidation               = errors.New("models: invalid submission")
	ErrCaseNotFound             = errors.New("models: case not found")
	ErrUserNotFound             = errors.New("models: user not found")
	ErrInvoiceNotFound          = errors.New("models: invoice not found")
	ErrDuplicatePayment         = errors.New("models: case for this payment already exists")
	ErrDuplicateNotification    = errors.New("models: notification already recorded")
	ErrSubmissionNotFound       = errors.New("models: no pending submission found")
	ErrSubmissionExpired        = errors.New("models: pending submission expired")
	ErrPaymentNotCompleted      = errors.New("models: payment not completed")
	ErrPaymentAlreadyConfirmed  = errors.New("models: payment already confirmed")
	ErrInvalidStatus            = errors.New("models: invalid case status")
	ErrIllegalStatusTransition  = errors.New("models: status transition not allowed")
	ErrVerificationCodeNotFound = errors.New("models: no verification code for this email")
	ErrVerificationCodeExpired  = errors.New("models: verification code expired")
	ErrVerificationCodeMismatch = errors.New("models: verification code mismatch")
	ErrInvalidCredentials       = errors.New("models: invalid credentials")
)
