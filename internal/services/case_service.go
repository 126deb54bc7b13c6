package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"accounthilfe/internal/fristlogik"
	"accounthilfe/internal/gebuehren"
	"accounthilfe/internal/models"
)

// PaymentMode selects how a case creation is paid. One orchestrator handles
// all modes instead of parallel per-provider code paths.
type PaymentMode string

const (
	PaymentModeCard         PaymentMode = "CARD"
	PaymentModeWallet       PaymentMode = "WALLET"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
)

type CaseStore interface {
	CreateCase(ctx context.Context, c models.Case) (models.Case, error)
	FindByPaymentID(ctx context.Context, paymentID string) (models.Case, error)
	GetByID(ctx context.Context, id string) (models.Case, error)
	FindByNumberAndEmail(ctx context.Context, caseNumber, email string) (models.Case, error)
	UpdateStatus(ctx context.Context, id, status string, entsperrtAm *time.Time) error
	UpdateInterneNotizen(ctx context.Context, id, notizen string) error
	UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error
}

type UserStore interface {
	UpsertByEmail(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
}

type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv models.Invoice) (models.Invoice, error)
	MarkPaid(ctx context.Context, caseID string, paidAt time.Time) error
}

type NumberAllocator interface {
	NextCaseNumber(ctx context.Context, now time.Time) (string, error)
}

type CardVerifier interface {
	VerifyCardPayment(ctx context.Context, sessionID string) (PaymentConfirmation, error)
}

type WalletVerifier interface {
	VerifyWalletPayment(ctx context.Context, orderID string) (PaymentConfirmation, error)
}

type MailSender interface {
	Send(to, subject, html string) error
}

type SubmissionCleaner interface {
	Delete(ctx context.Context, stripeSessionID, paypalOrderID string) error
}

// CaseService is the single entry point that instantiates cases. It verifies
// payment, applies the deadline rules, allocates the sequential number and
// persists the Case/Invoice/User aggregate.
type CaseService struct {
	Cases    CaseStore
	Users    UserStore
	Invoices InvoiceStore
	Numbers  NumberAllocator
	Card     CardVerifier
	Wallet   WalletVerifier
	Mail     MailSender
	Pending  SubmissionCleaner

	AdminEmail string
	Logger     *slog.Logger
}

// CreateParams bundles the verified payment context with the wizard payload.
type CreateParams struct {
	Mode            PaymentMode
	StripeSessionID string
	PayPalOrderID   string
	Submission      models.CaseSubmission
	Now             time.Time
}

// CreateResult reports the created (or already existing) case.
type CreateResult struct {
	Case          models.Case
	AlreadyExists bool
}

// Create runs the creation protocol. Payment verification failures and
// persistence failures abort the whole operation; a case that already exists
// for the payment reference is returned unchanged; notification failures are
// logged and swallowed.
func (s *CaseService) Create(ctx context.Context, p CreateParams) (CreateResult, error) {
	if err := p.Submission.Validate(); err != nil {
		return CreateResult{}, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	sperrDatum, err := time.Parse("2006-01-02", p.Submission.SperrDatum)
	if err != nil {
		return CreateResult{}, fmt.Errorf("%w: invalid sperrDatum %q", models.ErrValidation, p.Submission.SperrDatum)
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Payment verification. Bank transfer skips it: the case is created
	// synchronously with payment outstanding.
	var paymentID, paymentMethod, paymentStatus string
	switch p.Mode {
	case PaymentModeCard:
		if p.StripeSessionID == "" {
			return CreateResult{}, fmt.Errorf("missing stripe session id: %w", models.ErrPaymentNotCompleted)
		}
		conf, err := s.Card.VerifyCardPayment(ctx, p.StripeSessionID)
		if err != nil {
			return CreateResult{}, fmt.Errorf("verify card payment: %w", err)
		}
		paymentID, paymentMethod, paymentStatus = conf.Reference, models.PaymentMethodStripe, models.PaymentBezahlt
	case PaymentModeWallet:
		if p.PayPalOrderID == "" {
			return CreateResult{}, fmt.Errorf("missing paypal order id: %w", models.ErrPaymentNotCompleted)
		}
		conf, err := s.Wallet.VerifyWalletPayment(ctx, p.PayPalOrderID)
		if err != nil {
			return CreateResult{}, fmt.Errorf("verify wallet payment: %w", err)
		}
		paymentID, paymentMethod, paymentStatus = conf.Reference, models.PaymentMethodPaypal, models.PaymentBezahlt
	case PaymentModeBankTransfer:
		paymentMethod, paymentStatus = models.PaymentMethodUeberweisung, models.PaymentAusstehend
	default:
		return CreateResult{}, fmt.Errorf("invalid payment mode %q", p.Mode)
	}

	// Idempotency: a retried confirmation for the same payment returns the
	// existing case instead of creating a duplicate.
	if paymentID != "" {
		existing, err := s.Cases.FindByPaymentID(ctx, paymentID)
		if err == nil {
			return CreateResult{Case: existing, AlreadyExists: true}, nil
		}
		if !errors.Is(err, models.ErrCaseNotFound) {
			return CreateResult{}, fmt.Errorf("idempotency lookup: %w", err)
		}
	}

	frist := fristlogik.BerechneFrist(sperrDatum, now)

	caseNumber, err := s.Numbers.NextCaseNumber(ctx, now)
	if err != nil {
		return CreateResult{}, fmt.Errorf("allocate case number: %w", err)
	}

	user, err := s.Users.UpsertByEmail(ctx, models.User{
		Email:    p.Submission.Email,
		Vorname:  p.Submission.Vorname,
		Nachname: p.Submission.Nachname,
		Telefon:  p.Submission.Telefon,
		Strasse:  p.Submission.Strasse,
		PLZ:      p.Submission.PLZ,
		Stadt:    p.Submission.Stadt,
	})
	if err != nil {
		return CreateResult{}, fmt.Errorf("upsert user: %w", err)
	}

	newCase := models.Case{
		ID:                    uuid.NewString(),
		CaseNumber:            caseNumber,
		UserID:                user.ID,
		Status:                models.StatusMandatErteilt,
		Track:                 frist.Track.Track,
		Platform:              p.Submission.Platform,
		Nutzername:            p.Submission.Nutzername,
		RegistrierteEmail:     p.Submission.RegistrierteEmail,
		SperrDatum:            sperrDatum,
		SperrGrund:            p.Submission.SperrGrund,
		SperrGrundFreitext:    p.Submission.SperrGrundFreitext,
		SperrDetails:          p.Submission.SperrDetails,
		Kontotyp:              p.Submission.Kontotyp,
		GewerbBeschreibung:    p.Submission.GewerbBeschreibung,
		FollowerCount:         p.Submission.FollowerCount,
		MonatlicheEinnahmen:   p.Submission.MonatlicheEinnahmen,
		VertraegeBetroffen:    p.Submission.VertraegeBetroffen,
		MonatsfristEnde:       frist.MonatsfristEnde,
		AbmahnfristDatum:      frist.FristDatum,
		AbmahnfristTage:       frist.FristTage,
		VollmachtErteilt:      p.Submission.Vollmacht,
		VerguetungAkzeptiert:  p.Submission.Verguetung,
		DatenschutzAkzeptiert: p.Submission.Datenschutz,
		PaymentStatus:         paymentStatus,
		PaymentMethod:         paymentMethod,
		PaymentID:             paymentID,
	}

	created, err := s.Cases.CreateCase(ctx, newCase)
	if errors.Is(err, models.ErrDuplicatePayment) {
		// Lost the race against a concurrent confirmation for the same
		// payment; the unique key guarantees exactly one case exists.
		existing, lookupErr := s.Cases.FindByPaymentID(ctx, paymentID)
		if lookupErr != nil {
			return CreateResult{}, fmt.Errorf("raced duplicate lookup: %w", lookupErr)
		}
		return CreateResult{Case: existing, AlreadyExists: true}, nil
	}
	if err != nil {
		return CreateResult{}, fmt.Errorf("create case: %w", err)
	}
	created.User = &user

	if err := s.createInvoice(ctx, created, now); err != nil {
		return CreateResult{}, err
	}

	s.sendCreationEmails(created, p.Submission)
	s.cleanupPending(ctx, p.StripeSessionID, p.PayPalOrderID)

	return CreateResult{Case: created}, nil
}

func (s *CaseService) createInvoice(ctx context.Context, c models.Case, now time.Time) error {
	satz, err := gebuehren.Satz(c.Kontotyp)
	if err != nil {
		return fmt.Errorf("fee schedule: %w", err)
	}
	items, err := gebuehren.LineItems(c.Kontotyp)
	if err != nil {
		return fmt.Errorf("fee schedule: %w", err)
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode invoice items: %w", err)
	}

	inv := models.Invoice{
		InvoiceNumber: c.CaseNumber,
		CaseID:        c.ID,
		Amount:        satz.Gesamt,
		NetAmount:     satz.Geschaeftsgebuehr + satz.Auslagen,
		VatAmount:     satz.Ust,
		VatRate:       19,
		Items:         itemsJSON,
		PaymentMethod: c.PaymentMethod,
		Status:        models.InvoiceBezahlt,
	}
	if c.PaymentMethod == models.PaymentMethodUeberweisung {
		inv.Status = models.InvoiceOffen
	} else {
		paidAt := now
		inv.PaidAt = &paidAt
	}

	if _, err := s.Invoices.CreateInvoice(ctx, inv); err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	return nil
}

// sendCreationEmails fires the client confirmation (or bank details) and the
// firm intake alert. Both are independent and best-effort.
func (s *CaseService) sendCreationEmails(c models.Case, sub models.CaseSubmission) {
	platformName := models.PlatformName(c.Platform)

	if c.PaymentMethod == models.PaymentMethodUeberweisung {
		satz, err := gebuehren.Satz(c.Kontotyp)
		if err == nil {
			subject, html := BankTransferEmail(c.CaseNumber, sub.Vorname, sub.Nachname, satz.Gesamt, FirmBankDetails, sub.Sprache)
			if err := s.Mail.Send(sub.Email, subject, html); err != nil {
				s.Logger.Error("mandant email failed", "case", c.CaseNumber, "err", err)
			}
		}
	} else {
		subject, html := MandantConfirmationEmail(c.CaseNumber, sub.Vorname, sub.Nachname, platformName, c.Nutzername, sub.Sprache)
		if err := s.Mail.Send(sub.Email, subject, html); err != nil {
			s.Logger.Error("mandant email failed", "case", c.CaseNumber, "err", err)
		}
	}

	paymentMethod := c.PaymentMethod
	if c.PaymentStatus == models.PaymentAusstehend {
		paymentMethod += " (ausstehend)"
	}
	subject, html := AdminNewCaseEmail(AdminEmailData{
		CaseNumber:        c.CaseNumber,
		Vorname:           sub.Vorname,
		Nachname:          sub.Nachname,
		Email:             sub.Email,
		Telefon:           sub.Telefon,
		Strasse:           sub.Strasse,
		PLZ:               sub.PLZ,
		Stadt:             sub.Stadt,
		Platform:          platformName,
		Nutzername:        c.Nutzername,
		RegistrierteEmail: c.RegistrierteEmail,
		SperrDatum:        FormatGermanDate(c.SperrDatum),
		SperrGrund:        models.SperrGrundLabel(c.SperrGrund),
		Kontotyp:          c.Kontotyp,
		Track:             c.Track,
		PaymentMethod:     paymentMethod,
	})
	if err := s.Mail.Send(s.AdminEmail, subject, html); err != nil {
		s.Logger.Error("admin email failed", "case", c.CaseNumber, "err", err)
	}
}

// cleanupPending deletes the server-side pending submission once the case is
// committed, regardless of which recovery tier actually supplied the data.
func (s *CaseService) cleanupPending(ctx context.Context, stripeSessionID, paypalOrderID string) {
	if s.Pending == nil || (stripeSessionID == "" && paypalOrderID == "") {
		return
	}
	if err := s.Pending.Delete(ctx, stripeSessionID, paypalOrderID); err != nil {
		s.Logger.Warn("pending submission cleanup failed", "err", err)
	}
}

// SetStatus applies an admin status change after checking the transition
// table. Entsperrt statuses stamp the unblock timestamp.
func (s *CaseService) SetStatus(ctx context.Context, id, status string, now time.Time) (models.Case, error) {
	if !models.ValidStatus(status) {
		return models.Case{}, models.ErrInvalidStatus
	}
	c, err := s.Cases.GetByID(ctx, id)
	if err != nil {
		return models.Case{}, err
	}
	if c.Status != status && !models.CanTransition(c.Status, status) {
		return models.Case{}, fmt.Errorf("%w: %s -> %s", models.ErrIllegalStatusTransition, c.Status, status)
	}

	var entsperrtAm *time.Time
	if models.IsEntsperrt(status) {
		entsperrtAm = &now
	}
	if err := s.Cases.UpdateStatus(ctx, id, status, entsperrtAm); err != nil {
		return models.Case{}, err
	}
	c.Status = status
	if entsperrtAm != nil {
		c.EntsperrtAm = entsperrtAm
	}
	return c, nil
}

// SetInterneNotizen replaces the internal notes.
func (s *CaseService) SetInterneNotizen(ctx context.Context, id, notizen string) error {
	return s.Cases.UpdateInterneNotizen(ctx, id, notizen)
}

// ConfirmPayment marks a bank-transfer case as paid after the admin verified
// the incoming transfer. Rejects cases that are already paid.
func (s *CaseService) ConfirmPayment(ctx context.Context, id string, now time.Time) (models.Case, error) {
	c, err := s.Cases.GetByID(ctx, id)
	if err != nil {
		return models.Case{}, err
	}
	if c.PaymentStatus == models.PaymentBezahlt {
		return models.Case{}, models.ErrPaymentAlreadyConfirmed
	}

	if err := s.Cases.UpdatePaymentStatus(ctx, id, models.PaymentBezahlt); err != nil {
		return models.Case{}, err
	}
	if err := s.Invoices.MarkPaid(ctx, id, now); err != nil && !errors.Is(err, models.ErrInvoiceNotFound) {
		return models.Case{}, err
	}
	c.PaymentStatus = models.PaymentBezahlt

	user, err := s.Users.GetByID(ctx, c.UserID)
	if err == nil {
		subject, html := PaymentReceivedEmail(c.CaseNumber, user.Vorname, user.Nachname, "de")
		if err := s.Mail.Send(user.Email, subject, html); err != nil {
			s.Logger.Error("payment confirmation email failed", "case", c.CaseNumber, "err", err)
		}
	} else {
		s.Logger.Error("load user for payment confirmation failed", "case", c.CaseNumber, "err", err)
	}
	return c, nil
}

// LookupResult is the public view returned by the status lookup.
type LookupResult struct {
	CaseNumber       string     `json:"case_number"`
	Status           string     `json:"status"`
	StatusLabel      string     `json:"status_label"`
	Platform         string     `json:"platform"`
	Track            string     `json:"track"`
	AbmahnfristDatum time.Time  `json:"abmahnfrist_datum"`
	MonatsfristEnde  time.Time  `json:"monatsfrist_ende"`
	EntsperrtAm      *time.Time `json:"entsperrt_am,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Lookup resolves a case by number and owner email for the public status
// page.
func (s *CaseService) Lookup(ctx context.Context, email, caseNumber string) (LookupResult, error) {
	c, err := s.Cases.FindByNumberAndEmail(ctx, caseNumber, email)
	if err != nil {
		return LookupResult{}, err
	}
	return LookupResult{
		CaseNumber:       c.CaseNumber,
		Status:           c.Status,
		StatusLabel:      StatusLabel(c.Status),
		Platform:         models.PlatformName(c.Platform),
		Track:            c.Track,
		AbmahnfristDatum: c.AbmahnfristDatum,
		MonatsfristEnde:  c.MonatsfristEnde,
		EntsperrtAm:      c.EntsperrtAm,
		CreatedAt:        c.CreatedAt,
	}, nil
}
