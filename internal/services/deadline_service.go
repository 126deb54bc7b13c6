package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"accounthilfe/internal/fristlogik"
	"accounthilfe/internal/models"
)

type OpenCaseLister interface {
	ListOpenCases(ctx context.Context) ([]models.Case, error)
}

type NotificationStore interface {
	HasNotification(ctx context.Context, caseID, typ string) (bool, error)
	RecordNotification(ctx context.Context, caseID, typ string) error
}

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id, status string, entsperrtAm *time.Time) error
}

// DeadlineService runs the periodic sweep over open cases: reminder mails 3
// and 1 days before the warning-letter deadline, and the expiry transition to
// FRIST_VERSTRICHEN once it has passed.
type DeadlineService struct {
	Cases         OpenCaseLister
	Notifications NotificationStore
	Statuses      StatusUpdater
	Mail          MailSender
	Logger        *slog.Logger
}

// SweepResult summarizes one sweep run. Checked counts cases examined, not
// cases successfully notified.
type SweepResult struct {
	Checked   int `json:"checked"`
	Reminders int `json:"reminders"`
	Expired   int `json:"expired"`
}

// Sweep inspects every open case once. Each case is processed independently;
// a failure on one is logged and does not stop the run. Re-running with the
// same now sends nothing twice: every notification is gated by its own
// at-most-once record.
func (s *DeadlineService) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	cases, err := s.Cases.ListOpenCases(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list open cases: %w", err)
	}

	var res SweepResult
	for _, c := range cases {
		res.Checked++
		sent, expired, err := s.sweepCase(ctx, c, now)
		if err != nil {
			s.Logger.Error("deadline sweep failed for case", "case", c.CaseNumber, "err", err)
			continue
		}
		res.Reminders += sent
		if expired {
			res.Expired++
		}
	}
	return res, nil
}

func (s *DeadlineService) sweepCase(ctx context.Context, c models.Case, now time.Time) (reminders int, expired bool, err error) {
	daysLeft := fristlogik.TageZwischen(now, c.AbmahnfristDatum)

	// The three stages are gated individually so that irregular sweep
	// cadence never produces a duplicate send.
	if daysLeft == 3 {
		done, err := s.remindClient(ctx, c, models.NotificationReminder3D, daysLeft)
		if err != nil {
			return 0, false, err
		}
		if done {
			reminders++
			// The warning letter goes out around now; the 3-day stage
			// is the one place that advances this automatically.
			if c.Status == models.StatusMandatErteilt {
				if err := s.Statuses.UpdateStatus(ctx, c.ID, models.StatusAbmahnungVersandt, nil); err != nil {
					return reminders, false, fmt.Errorf("advance to abmahnung_versandt: %w", err)
				}
			}
		}
	}

	if daysLeft == 1 {
		done, err := s.remindClient(ctx, c, models.NotificationReminder1D, daysLeft)
		if err != nil {
			return reminders, false, err
		}
		if done {
			reminders++
		}
	}

	if daysLeft <= 0 {
		if c.User == nil {
			return reminders, false, fmt.Errorf("case %s has no user attached", c.CaseNumber)
		}
		done, err := s.notifyOnce(ctx, c, models.NotificationExpired, func() (string, string) {
			return DeadlineExpiredEmail(c.CaseNumber, c.Track, "de")
		}, c.User.Email)
		if err != nil {
			return reminders, false, err
		}
		if done {
			if err := s.Statuses.UpdateStatus(ctx, c.ID, models.StatusFristVerstrichen, nil); err != nil {
				return reminders, false, fmt.Errorf("advance to frist_verstrichen: %w", err)
			}
			expired = true
		}
	}

	return reminders, expired, nil
}

func (s *DeadlineService) remindClient(ctx context.Context, c models.Case, typ string, daysLeft int) (bool, error) {
	if c.User == nil {
		return false, fmt.Errorf("case %s has no user attached", c.CaseNumber)
	}
	return s.notifyOnce(ctx, c, typ, func() (string, string) {
		return DeadlineReminderEmail(c.CaseNumber, daysLeft, FormatGermanDate(c.AbmahnfristDatum), "de")
	}, c.User.Email)
}

// notifyOnce sends the mail and then records the marker. A mail that lands
// twice because the recording failed is acceptable, a silently dropped one is
// not.
func (s *DeadlineService) notifyOnce(ctx context.Context, c models.Case, typ string, build func() (string, string), to string) (bool, error) {
	already, err := s.Notifications.HasNotification(ctx, c.ID, typ)
	if err != nil {
		return false, fmt.Errorf("notification lookup: %w", err)
	}
	if already {
		return false, nil
	}

	subject, html := build()
	if err := s.Mail.Send(to, subject, html); err != nil {
		return false, fmt.Errorf("send %s: %w", typ, err)
	}
	if err := s.Notifications.RecordNotification(ctx, c.ID, typ); err != nil {
		if errors.Is(err, models.ErrDuplicateNotification) {
			return true, nil
		}
		return false, fmt.Errorf("record %s: %w", typ, err)
	}
	return true, nil
}
