package models

import "time"

// PendingSubmission keeps the wizard payload server-side while the user is at
// the payment provider, so the form survives the redirect even when the
// browser drops its own storage. Rows expire 24 hours after creation.
type PendingSubmission struct {
	ID              string    `json:"id"`
	StripeSessionID string    `json:"stripe_session_id,omitempty"`
	PayPalOrderID   string    `json:"paypal_order_id,omitempty"`
	FormData        string    `json:"form_data"`
	ExpiresAt       time.Time `json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// PendingSubmissionTTL is how long a pending submission stays recoverable.
const PendingSubmissionTTL = 24 * time.Hour
