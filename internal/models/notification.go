package models

import "time"

// Notification types sent by the deadline sweep. At most one row per
// (case, type) pair exists; that uniqueness is what prevents duplicate
// reminder emails across runs.
const (
	NotificationReminder3D = "DEADLINE_REMINDER_3D"
	NotificationReminder1D = "DEADLINE_REMINDER_1D"
	NotificationExpired    = "DEADLINE_EXPIRED"
)

// Notification is the audit / idempotency record for a sent reminder.
type Notification struct {
	ID        int       `json:"id"`
	CaseID    string    `json:"case_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
