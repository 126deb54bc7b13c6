package services

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"accounthilfe/internal/gebuehren"
	"accounthilfe/internal/models"
)

// BankDetails for Überweisung cases, shown in the bank-transfer email.
type BankDetails struct {
	Empfaenger string `json:"empfaenger"`
	Bank       string `json:"bank"`
	IBAN       string `json:"iban"`
	BIC        string `json:"bic"`
	UstID      string `json:"ust_id"`
}

var FirmBankDetails = BankDetails{
	Empfaenger: "DR. SARAFI Rechtsanwaltsgesellschaft mbH",
	Bank:       "Frankfurter Sparkasse",
	IBAN:       "DE90 5005 0201 0200 7049 07",
	BIC:        "HELADEF1822",
	UstID:      "DE326113355",
}

type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	ReplyTo  string
	Logger   *slog.Logger
}

// Mailer delivers transactional mail over SMTP with implicit TLS. Callers in
// the creation and sweep flows treat failures as best-effort: logged, never
// propagated into the primary operation.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	replyTo  string
	logger   *slog.Logger
}

func NewMailer(cfg MailerConfig) (*Mailer, error) {
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("mailer: host, username and password are required")
	}
	port := cfg.Port
	if port == 0 {
		port = 465
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Mailer{
		host:     cfg.Host,
		port:     port,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
		replyTo:  cfg.ReplyTo,
		logger:   logger,
	}, nil
}

// Send delivers one HTML mail.
func (m *Mailer) Send(to, subject, html string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return fmt.Errorf("mailer dial: %w", err)
	}
	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mailer handshake: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("mailer auth: %w", err)
	}
	if err := client.Mail(m.username); err != nil {
		return fmt.Errorf("mailer from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("mailer rcpt: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("mailer data: %w", err)
	}

	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	if m.replyTo != "" {
		msg.WriteString("Reply-To: " + m.replyTo + "\r\n")
	}
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)

	if _, err := w.Write([]byte(msg.String())); err != nil {
		return fmt.Errorf("mailer write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mailer close: %w", err)
	}
	if err := client.Quit(); err != nil {
		m.logger.Warn("mailer quit failed", "err", err)
	}
	m.logger.Info("email sent", "to", to, "subject", subject)
	return nil
}

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// FormatGermanDate renders a date as "2. Januar 2006".
func FormatGermanDate(t time.Time) string {
	return fmt.Sprintf("%d. %s %d", t.Day(), germanMonths[t.Month()-1], t.Year())
}

func emailFooter() string {
	return `<hr /><p style="font-size:13px;color:#9A9A9A;">AccountHilfe.de – DR. SARAFI Rechtsanwaltsgesellschaft mbH<br />Tel: +49 69 348 755 200 · E-Mail: info@sarafi.de</p>`
}

// MandantConfirmationEmail is the client confirmation sent after a paid case
// was created. lang selects the fixed de/en variant.
func MandantConfirmationEmail(caseNumber, vorname, nachname, platformName, nutzername, lang string) (subject, html string) {
	if lang == "en" {
		subject = fmt.Sprintf("Your case %s – mandate received", caseNumber)
		html = fmt.Sprintf(
			`<p>Dear %s %s,</p><p>thank you for your mandate. Your case regarding the blocked %s account <strong>%s</strong> has been registered under case number <strong>%s</strong>.</p><p>We will send the formal demand letter to the platform shortly and keep you informed.</p>%s`,
			vorname, nachname, platformName, nutzername, caseNumber, emailFooter())
		return subject, html
	}
	subject = fmt.Sprintf("Ihr Fall %s – Mandat erhalten", caseNumber)
	html = fmt.Sprintf(
		`<p>Guten Tag %s %s,</p><p>vielen Dank für Ihr Mandat. Ihr Fall zum gesperrten %s-Konto <strong>%s</strong> wurde unter der Nummer <strong>%s</strong> erfasst.</p><p>Wir versenden zeitnah das anwaltliche Schreiben an die Plattform und halten Sie auf dem Laufenden.</p>%s`,
		vorname, nachname, platformName, nutzername, caseNumber, emailFooter())
	return subject, html
}

// BankTransferEmail carries the invoice amount and bank details for
// Überweisung cases.
func BankTransferEmail(caseNumber, vorname, nachname string, amountCents int64, bank BankDetails, lang string) (subject, html string) {
	amount := gebuehren.FormatCents(amountCents)
	if lang == "en" {
		subject = fmt.Sprintf("Your case %s – payment information", caseNumber)
		html = fmt.Sprintf(
			`<p>Dear %s %s,</p><p>your case has been registered under number <strong>%s</strong>. Please transfer the invoice amount of <strong>%s</strong>:</p><table><tr><td>Recipient:</td><td>%s</td></tr><tr><td>Bank:</td><td>%s</td></tr><tr><td>IBAN:</td><td>%s</td></tr><tr><td>BIC:</td><td>%s</td></tr><tr><td>Reference:</td><td><strong>%s</strong></td></tr></table><p>Please state the case number as payment reference. We start processing as soon as the payment arrives.</p>%s`,
			vorname, nachname, caseNumber, amount, bank.Empfaenger, bank.Bank, bank.IBAN, bank.BIC, caseNumber, emailFooter())
		return subject, html
	}
	subject = fmt.Sprintf("Ihr Fall %s – Zahlungsinformationen", caseNumber)
	html = fmt.Sprintf(
		`<p>Guten Tag %s %s,</p><p>vielen Dank für Ihren Auftrag. Ihr Fall wurde unter der Nummer <strong>%s</strong> erfasst. Bitte überweisen Sie den Rechnungsbetrag von <strong>%s</strong>:</p><table><tr><td>Empfänger:</td><td>%s</td></tr><tr><td>Bank:</td><td>%s</td></tr><tr><td>IBAN:</td><td>%s</td></tr><tr><td>BIC:</td><td>%s</td></tr><tr><td>Verwendungszweck:</td><td><strong>%s</strong></td></tr></table><p><strong>Wichtig:</strong> Bitte geben Sie unbedingt die Fallnummer als Verwendungszweck an. Nach Zahlungseingang beginnen wir umgehend mit der Bearbeitung.</p>%s`,
		vorname, nachname, caseNumber, amount, bank.Empfaenger, bank.Bank, bank.IBAN, bank.BIC, caseNumber, emailFooter())
	return subject, html
}

// AdminEmailData carries the case summary sent to the firm's intake address.
type AdminEmailData struct {
	CaseNumber        string
	Vorname           string
	Nachname          string
	Email             string
	Telefon           string
	Strasse           string
	PLZ               string
	Stadt             string
	Platform          string
	Nutzername        string
	RegistrierteEmail string
	SperrDatum        string
	SperrGrund        string
	Kontotyp          string
	Track             string
	PaymentMethod     string
}

// AdminNewCaseEmail is the intake alert for the firm.
func AdminNewCaseEmail(d AdminEmailData) (subject, html string) {
	subject = fmt.Sprintf("Neuer Fall %s – %s %s (%s)", d.CaseNumber, d.Vorname, d.Nachname, d.Platform)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h1>Neuer Fall %s</h1><table>", d.CaseNumber))
	rows := [][2]string{
		{"Mandant", d.Vorname + " " + d.Nachname},
		{"E-Mail", d.Email},
		{"Telefon", d.Telefon},
		{"Anschrift", d.Strasse + ", " + d.PLZ + " " + d.Stadt},
		{"Plattform", d.Platform},
		{"Nutzername", d.Nutzername},
		{"Registrierte E-Mail", d.RegistrierteEmail},
		{"Sperrdatum", d.SperrDatum},
		{"Sperrgrund", d.SperrGrund},
		{"Kontotyp", d.Kontotyp},
		{"Track", d.Track},
		{"Zahlung", d.PaymentMethod},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("<tr><td>%s:</td><td>%s</td></tr>", row[0], row[1]))
	}
	b.WriteString("</table>")
	return subject, b.String()
}

// DeadlineReminderEmail is the 3-day / 1-day reminder.
func DeadlineReminderEmail(caseNumber string, daysLeft int, fristFormatiert, lang string) (subject, html string) {
	if lang == "en" {
		subject = fmt.Sprintf("Case %s: deadline expires in %d day(s)", caseNumber, daysLeft)
		html = fmt.Sprintf(
			`<p>The response deadline for case <strong>%s</strong> expires on <strong>%s</strong> (%d day(s) left). If the platform does not react in time we proceed with the next legal step.</p>%s`,
			caseNumber, fristFormatiert, daysLeft, emailFooter())
		return subject, html
	}
	subject = fmt.Sprintf("Fall %s: Frist läuft in %d Tag(en) ab", caseNumber, daysLeft)
	html = fmt.Sprintf(
		`<p>Die Antwortfrist für Ihren Fall <strong>%s</strong> läuft am <strong>%s</strong> ab (noch %d Tag(e)). Reagiert die Plattform nicht rechtzeitig, leiten wir den nächsten rechtlichen Schritt ein.</p>%s`,
		caseNumber, fristFormatiert, daysLeft, emailFooter())
	return subject, html
}

// DeadlineExpiredEmail announces the expired deadline; the next-step wording
// depends on the litigation track.
func DeadlineExpiredEmail(caseNumber, track, lang string) (subject, html string) {
	nextStep := "Wir bereiten die Klageschrift vor."
	if track == "A_INJUNCTION" {
		nextStep = "Wir bereiten den Antrag auf einstweilige Verfügung vor."
	}
	if lang == "en" {
		nextStep = "We are preparing the statement of claim."
		if track == "A_INJUNCTION" {
			nextStep = "We are preparing the application for a preliminary injunction."
		}
		subject = fmt.Sprintf("Case %s: deadline expired", caseNumber)
		html = fmt.Sprintf(
			`<p>The response deadline for case <strong>%s</strong> has expired without a reaction from the platform.</p><p><strong>%s</strong></p>%s`,
			caseNumber, nextStep, emailFooter())
		return subject, html
	}
	subject = fmt.Sprintf("Fall %s: Frist abgelaufen", caseNumber)
	html = fmt.Sprintf(
		`<p>Die Antwortfrist für Ihren Fall <strong>%s</strong> ist ohne Reaktion der Plattform abgelaufen.</p><p><strong>%s</strong></p>%s`,
		caseNumber, nextStep, emailFooter())
	return subject, html
}

// PaymentReceivedEmail confirms an admin-verified bank transfer.
func PaymentReceivedEmail(caseNumber, vorname, nachname, lang string) (subject, html string) {
	if lang == "en" {
		subject = fmt.Sprintf("Payment received – case %s", caseNumber)
		html = fmt.Sprintf(
			`<p>Dear %s %s,</p><p>thank you, the payment for your case <strong>%s</strong> has been received. We now start processing and will send the formal demand letter to the platform shortly.</p>%s`,
			vorname, nachname, caseNumber, emailFooter())
		return subject, html
	}
	subject = fmt.Sprintf("Zahlungseingang bestätigt – Fall %s", caseNumber)
	html = fmt.Sprintf(
		`<p>Guten Tag %s %s,</p><p>vielen Dank für Ihre Zahlung. Der Zahlungseingang für Ihren Fall <strong>%s</strong> wurde verbucht. Wir beginnen nun umgehend mit der Bearbeitung.</p>%s`,
		vorname, nachname, caseNumber, emailFooter())
	return subject, html
}

// VerificationCodeEmail carries the wizard email verification code.
func VerificationCodeEmail(code string) (subject, html string) {
	subject = fmt.Sprintf("Ihr Bestätigungscode: %s", code)
	html = fmt.Sprintf(
		`<p>Guten Tag,</p><p>Ihr Bestätigungscode lautet:</p><p style="font-size:32px;font-weight:bold;letter-spacing:8px;">%s</p><p>Der Code ist 10 Minuten gültig.</p>%s`,
		code, emailFooter())
	return subject, html
}

// statusLabels maps internal statuses to the public display wording used by
// the case lookup.
var statusLabels = map[string]string{
	models.StatusMandatErteilt:              "In Bearbeitung",
	models.StatusAbmahnungVersandt:          "Abmahnung versandt",
	models.StatusAussergerichtlichEntsperrt: "Erfolgreich entsperrt",
	models.StatusFristVerstrichen:           "Frist verstrichen – nächste Schritte",
	models.StatusGerichtsprozessEingeleitet: "Gerichtliches Verfahren",
	models.StatusTerminAngesetzt:            "Gerichtliches Verfahren",
	models.StatusGerichtlichEntsperrt:       "Erfolgreich entsperrt",
	models.StatusAbgeschlossen:              "Abgeschlossen",
}

// StatusLabel returns the public label for a case status.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}
