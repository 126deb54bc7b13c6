package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"accounthilfe/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubCaseStore struct {
	cases     map[string]models.Case // by payment id
	created   []models.Case
	createErr error
}

func (s *stubCaseStore) CreateCase(ctx context.Context, c models.Case) (models.Case, error) {
	if s.createErr != nil {
		return models.Case{}, s.createErr
	}
	s.created = append(s.created, c)
	if s.cases == nil {
		s.cases = map[string]models.Case{}
	}
	if c.PaymentID != "" {
		s.cases[c.PaymentID] = c
	}
	return c, nil
}

func (s *stubCaseStore) FindByPaymentID(ctx context.Context, paymentID string) (models.Case, error) {
	if c, ok := s.cases[paymentID]; ok {
		return c, nil
	}
	return models.Case{}, models.ErrCaseNotFound
}

func (s *stubCaseStore) GetByID(ctx context.Context, id string) (models.Case, error) {
	for _, c := range s.created {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Case{}, models.ErrCaseNotFound
}

func (s *stubCaseStore) FindByNumberAndEmail(ctx context.Context, caseNumber, email string) (models.Case, error) {
	return models.Case{}, models.ErrCaseNotFound
}

func (s *stubCaseStore) UpdateStatus(ctx context.Context, id, status string, entsperrtAm *time.Time) error {
	return nil
}

func (s *stubCaseStore) UpdateInterneNotizen(ctx context.Context, id, notizen string) error {
	return nil
}

func (s *stubCaseStore) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error {
	return nil
}

type stubUserStore struct {
	upserts int
}

func (s *stubUserStore) UpsertByEmail(ctx context.Context, user models.User) (models.User, error) {
	s.upserts++
	user.ID = 7
	return user, nil
}

func (s *stubUserStore) GetByID(ctx context.Context, id int) (models.User, error) {
	return models.User{ID: id, Email: "max@example.com", Vorname: "Max", Nachname: "Mustermann"}, nil
}

type stubInvoiceStore struct {
	invoices []models.Invoice
}

func (s *stubInvoiceStore) CreateInvoice(ctx context.Context, inv models.Invoice) (models.Invoice, error) {
	s.invoices = append(s.invoices, inv)
	return inv, nil
}

func (s *stubInvoiceStore) MarkPaid(ctx context.Context, caseID string, paidAt time.Time) error {
	return nil
}

type stubNumbers struct {
	next int
}

func (s *stubNumbers) NextCaseNumber(ctx context.Context, now time.Time) (string, error) {
	s.next++
	return fmt.Sprintf("AH-%d-%04d", now.Year(), s.next), nil
}

type stubCardVerifier struct {
	conf PaymentConfirmation
	err  error
}

func (s *stubCardVerifier) VerifyCardPayment(ctx context.Context, sessionID string) (PaymentConfirmation, error) {
	return s.conf, s.err
}

type stubMailer struct {
	sent []string
	err  error
}

func (s *stubMailer) Send(to, subject, html string) error {
	s.sent = append(s.sent, to)
	return s.err
}

func validSubmission() models.CaseSubmission {
	return models.CaseSubmission{
		Vorname: "Max", Nachname: "Mustermann", Email: "max@example.com",
		Strasse: "Musterweg 1", PLZ: "60311", Stadt: "Frankfurt",
		Platform: "INSTAGRAM", Nutzername: "max.m", RegistrierteEmail: "max@example.com",
		SperrDatum: "2025-03-01", SperrGrund: "SPAM", Kontotyp: "PRIVAT",
		Vollmacht: true, Verguetung: true, Datenschutz: true,
	}
}

func newTestService(cases *stubCaseStore, users *stubUserStore, invoices *stubInvoiceStore, card *stubCardVerifier, mail *stubMailer) *CaseService {
	return &CaseService{
		Cases:      cases,
		Users:      users,
		Invoices:   invoices,
		Numbers:    &stubNumbers{},
		Card:       card,
		Mail:       mail,
		AdminEmail: "kanzlei@example.com",
		Logger:     testLogger(),
	}
}

func TestCreateBankTransferCase(t *testing.T) {
	cases := &stubCaseStore{}
	users := &stubUserStore{}
	invoices := &stubInvoiceStore{}
	mail := &stubMailer{}
	svc := newTestService(cases, users, invoices, nil, mail)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	res, err := svc.Create(context.Background(), CreateParams{
		Mode:       PaymentModeBankTransfer,
		Submission: validSubmission(),
		Now:        now,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.AlreadyExists {
		t.Fatal("fresh case reported as existing")
	}

	c := res.Case
	if c.Status != models.StatusMandatErteilt {
		t.Fatalf("status = %s, want MANDAT_ERTEILT", c.Status)
	}
	if c.Track != models.TrackAInjunction {
		t.Fatalf("track = %s, want A_INJUNCTION (blocked 9 days ago)", c.Track)
	}
	if c.PaymentStatus != models.PaymentAusstehend {
		t.Fatalf("payment status = %s, want AUSSTEHEND", c.PaymentStatus)
	}
	if c.PaymentMethod != models.PaymentMethodUeberweisung {
		t.Fatalf("payment method = %s", c.PaymentMethod)
	}

	if len(invoices.invoices) != 1 {
		t.Fatalf("invoices = %d, want 1", len(invoices.invoices))
	}
	inv := invoices.invoices[0]
	if inv.Status != models.InvoiceOffen {
		t.Fatalf("invoice status = %s, want OFFEN", inv.Status)
	}
	if inv.Amount != 57221 {
		t.Fatalf("invoice amount = %d, want 57221", inv.Amount)
	}
	if inv.PaidAt != nil {
		t.Fatal("unpaid invoice has PaidAt set")
	}

	// bank details to client + intake alert to the firm
	if len(mail.sent) != 2 {
		t.Fatalf("mails sent = %d, want 2", len(mail.sent))
	}
	if users.upserts != 1 {
		t.Fatalf("user upserts = %d, want 1", users.upserts)
	}
}

func TestCreateCardCaseIdempotent(t *testing.T) {
	cases := &stubCaseStore{}
	mail := &stubMailer{}
	card := &stubCardVerifier{conf: PaymentConfirmation{Paid: true, Reference: "pi_123", Method: models.PaymentMethodStripe}}
	svc := newTestService(cases, &stubUserStore{}, &stubInvoiceStore{}, card, mail)

	params := CreateParams{
		Mode:            PaymentModeCard,
		StripeSessionID: "cs_test_1",
		Submission:      validSubmission(),
		Now:             time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	first, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if !second.AlreadyExists {
		t.Fatal("retried confirmation did not report existing case")
	}
	if second.Case.CaseNumber != first.Case.CaseNumber {
		t.Fatalf("retry returned different case: %s vs %s", second.Case.CaseNumber, first.Case.CaseNumber)
	}
	if len(cases.created) != 1 {
		t.Fatalf("cases created = %d, want 1", len(cases.created))
	}
}

func TestCreateRejectsInvalidSubmission(t *testing.T) {
	cases := &stubCaseStore{}
	svc := newTestService(cases, &stubUserStore{}, &stubInvoiceStore{}, nil, &stubMailer{})

	missing := validSubmission()
	missing.Email = ""
	badDate := validSubmission()
	badDate.SperrDatum = "01.03.2025"

	for name, sub := range map[string]models.CaseSubmission{"missing email": missing, "bad sperrDatum": badDate} {
		_, err := svc.Create(context.Background(), CreateParams{
			Mode:       PaymentModeBankTransfer,
			Submission: sub,
			Now:        time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		})
		if !errors.Is(err, models.ErrValidation) {
			t.Fatalf("%s: err = %v, want ErrValidation", name, err)
		}
	}
	if len(cases.created) != 0 {
		t.Fatal("invalid submission persisted a case")
	}
}

func TestCreateRejectsUnpaidCard(t *testing.T) {
	cases := &stubCaseStore{}
	card := &stubCardVerifier{err: models.ErrPaymentNotCompleted}
	svc := newTestService(cases, &stubUserStore{}, &stubInvoiceStore{}, card, &stubMailer{})

	_, err := svc.Create(context.Background(), CreateParams{
		Mode:            PaymentModeCard,
		StripeSessionID: "cs_test_unpaid",
		Submission:      validSubmission(),
	})
	if !errors.Is(err, models.ErrPaymentNotCompleted) {
		t.Fatalf("err = %v, want ErrPaymentNotCompleted", err)
	}
	if len(cases.created) != 0 {
		t.Fatal("case persisted despite failed payment")
	}
}

func TestCreateSurvivesMailFailure(t *testing.T) {
	mail := &stubMailer{err: errors.New("smtp down")}
	svc := newTestService(&stubCaseStore{}, &stubUserStore{}, &stubInvoiceStore{}, nil, mail)

	_, err := svc.Create(context.Background(), CreateParams{
		Mode:       PaymentModeBankTransfer,
		Submission: validSubmission(),
		Now:        time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create failed on mail error: %v", err)
	}
}

func TestCreateGewerblichFees(t *testing.T) {
	invoices := &stubInvoiceStore{}
	svc := newTestService(&stubCaseStore{}, &stubUserStore{}, invoices, nil, &stubMailer{})

	sub := validSubmission()
	sub.Kontotyp = "GEWERBLICH"
	sub.GewerbBeschreibung = "Online-Shop"

	_, err := svc.Create(context.Background(), CreateParams{
		Mode:       PaymentModeBankTransfer,
		Submission: sub,
		Now:        time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if invoices.invoices[0].Amount != 103244 {
		t.Fatalf("invoice amount = %d, want 103244", invoices.invoices[0].Amount)
	}
}

func TestSetStatusTransitionCheck(t *testing.T) {
	cases := &stubCaseStore{}
	svc := newTestService(cases, &stubUserStore{}, &stubInvoiceStore{}, nil, &stubMailer{})

	res, err := svc.Create(context.Background(), CreateParams{
		Mode:       PaymentModeBankTransfer,
		Submission: validSubmission(),
		Now:        time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetStatus(context.Background(), res.Case.ID, models.StatusGerichtlichEntsperrt, time.Now()); !errors.Is(err, models.ErrIllegalStatusTransition) {
		t.Fatalf("err = %v, want ErrIllegalStatusTransition", err)
	}
	if _, err := svc.SetStatus(context.Background(), res.Case.ID, "NICHT_EXISTENT", time.Now()); !errors.Is(err, models.ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}

	now := time.Now()
	c, err := svc.SetStatus(context.Background(), res.Case.ID, models.StatusAbmahnungVersandt, now)
	if err != nil {
		t.Fatalf("legal transition rejected: %v", err)
	}
	if c.Status != models.StatusAbmahnungVersandt {
		t.Fatalf("status = %s", c.Status)
	}
	if c.EntsperrtAm != nil {
		t.Fatal("non-entsperrt status stamped EntsperrtAm")
	}
}
