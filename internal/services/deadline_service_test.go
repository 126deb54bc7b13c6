package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"accounthilfe/internal/models"
)

type stubOpenCases struct {
	cases []models.Case
}

func (s *stubOpenCases) ListOpenCases(ctx context.Context) ([]models.Case, error) {
	return s.cases, nil
}

type stubNotifications struct {
	recorded map[string]bool // caseID|type
	failOn   string
}

func (s *stubNotifications) key(caseID, typ string) string { return caseID + "|" + typ }

func (s *stubNotifications) HasNotification(ctx context.Context, caseID, typ string) (bool, error) {
	return s.recorded[s.key(caseID, typ)], nil
}

func (s *stubNotifications) RecordNotification(ctx context.Context, caseID, typ string) error {
	if s.failOn == caseID {
		return errors.New("db down")
	}
	if s.recorded == nil {
		s.recorded = map[string]bool{}
	}
	s.recorded[s.key(caseID, typ)] = true
	return nil
}

type stubStatuses struct {
	updates map[string]string
}

func (s *stubStatuses) UpdateStatus(ctx context.Context, id, status string, entsperrtAm *time.Time) error {
	if s.updates == nil {
		s.updates = map[string]string{}
	}
	s.updates[id] = status
	return nil
}

func openCase(id string, status string, frist time.Time) models.Case {
	return models.Case{
		ID:               id,
		CaseNumber:       "AH-2025-" + id,
		Status:           status,
		Track:            models.TrackAInjunction,
		AbmahnfristDatum: frist,
		User:             &models.User{ID: 1, Email: "client@example.com", Vorname: "Max", Nachname: "Mustermann"},
	}
}

func newSweeper(cases *stubOpenCases, notes *stubNotifications, statuses *stubStatuses, mail *stubMailer) *DeadlineService {
	return &DeadlineService{
		Cases:         cases,
		Notifications: notes,
		Statuses:      statuses,
		Mail:          mail,
		Logger:        testLogger(),
	}
}

func TestSweepThreeDayReminder(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cases := &stubOpenCases{cases: []models.Case{
		openCase("a", models.StatusMandatErteilt, now.AddDate(0, 0, 3)),
	}}
	notes := &stubNotifications{}
	statuses := &stubStatuses{}
	mail := &stubMailer{}
	svc := newSweeper(cases, notes, statuses, mail)

	res, err := svc.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Checked != 1 || res.Reminders != 1 || res.Expired != 0 {
		t.Fatalf("result = %+v", res)
	}
	if len(mail.sent) != 1 || mail.sent[0] != "client@example.com" {
		t.Fatalf("mails = %v", mail.sent)
	}
	if statuses.updates["a"] != models.StatusAbmahnungVersandt {
		t.Fatalf("status update = %q, want ABMAHNUNG_VERSANDT", statuses.updates["a"])
	}
	if !notes.recorded["a|"+models.NotificationReminder3D] {
		t.Fatal("3-day notification not recorded")
	}
}

func TestSweepExpiry(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cases := &stubOpenCases{cases: []models.Case{
		openCase("b", models.StatusAbmahnungVersandt, now.AddDate(0, 0, -1)),
	}}
	notes := &stubNotifications{}
	statuses := &stubStatuses{}
	mail := &stubMailer{}
	svc := newSweeper(cases, notes, statuses, mail)

	res, err := svc.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Expired != 1 {
		t.Fatalf("expired = %d, want 1", res.Expired)
	}
	if statuses.updates["b"] != models.StatusFristVerstrichen {
		t.Fatalf("status update = %q, want FRIST_VERSTRICHEN", statuses.updates["b"])
	}
	if len(mail.sent) != 1 || mail.sent[0] != "client@example.com" {
		t.Fatalf("expiry mail recipients = %v, want [client@example.com]", mail.sent)
	}
	if !notes.recorded["b|"+models.NotificationExpired] {
		t.Fatal("expiry notification not recorded")
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cases := &stubOpenCases{cases: []models.Case{
		openCase("a", models.StatusMandatErteilt, now.AddDate(0, 0, 3)),
		openCase("b", models.StatusAbmahnungVersandt, now.AddDate(0, 0, 1)),
		openCase("c", models.StatusAbmahnungVersandt, now.AddDate(0, 0, -2)),
	}}
	notes := &stubNotifications{}
	statuses := &stubStatuses{}
	mail := &stubMailer{}
	svc := newSweeper(cases, notes, statuses, mail)

	if _, err := svc.Sweep(context.Background(), now); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	sentAfterFirst := len(mail.sent)

	res, err := svc.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if len(mail.sent) != sentAfterFirst {
		t.Fatalf("second sweep sent %d extra mails", len(mail.sent)-sentAfterFirst)
	}
	if res.Reminders != 0 || res.Expired != 0 {
		t.Fatalf("second sweep result = %+v, want no actions", res)
	}
}

func TestSweepIsolatesPerCaseFailures(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cases := &stubOpenCases{cases: []models.Case{
		openCase("bad", models.StatusMandatErteilt, now.AddDate(0, 0, 3)),
		openCase("good", models.StatusMandatErteilt, now.AddDate(0, 0, 3)),
	}}
	notes := &stubNotifications{failOn: "bad"}
	mail := &stubMailer{}
	svc := newSweeper(cases, notes, &stubStatuses{}, mail)

	res, err := svc.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Checked != 2 {
		t.Fatalf("checked = %d, want 2", res.Checked)
	}
	if !notes.recorded["good|"+models.NotificationReminder3D] {
		t.Fatal("healthy case was not processed")
	}
}

func TestSweepOneDayReminder(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cases := &stubOpenCases{cases: []models.Case{
		openCase("d", models.StatusAbmahnungVersandt, now.AddDate(0, 0, 1)),
	}}
	notes := &stubNotifications{}
	statuses := &stubStatuses{}
	svc := newSweeper(cases, notes, statuses, &stubMailer{})

	if _, err := svc.Sweep(context.Background(), now); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !notes.recorded["d|"+models.NotificationReminder1D] {
		t.Fatal("1-day notification not recorded")
	}
	if len(statuses.updates) != 0 {
		t.Fatalf("1-day reminder must not change status, got %v", statuses.updates)
	}
}
