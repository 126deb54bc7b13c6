package repositories

import (
	"context"
	"database/sql"
	"time"

	"accounthilfe/internal/models"
)

type CaseRepository struct {
	DB *sql.DB
}

const caseColumns = `
    c.id, c.case_number, c.user_id, c.status, c.track,
    c.platform, c.nutzername, c.registrierte_email,
    c.sperr_datum, c.sperr_grund, c.sperr_grund_freitext, c.sperr_details,
    c.kontotyp, c.gewerb_beschreibung, c.follower_count, c.monatliche_einnahmen, c.vertraege_betroffen,
    c.monatsfrist_ende, c.abmahnfrist_datum, c.abmahnfrist_tage,
    c.vollmacht_erteilt, c.verguetung_akzeptiert, c.datenschutz_akzeptiert,
    c.payment_status, c.payment_method, c.payment_id,
    c.entsperrt_am, c.interne_notizen, c.created_at, c.updated_at`

func scanCase(scanner interface{ Scan(dest ...any) error }) (models.Case, error) {
	var c models.Case
	var freitext, details, gewerb, follower, einnahmen, paymentID, notizen sql.NullString
	var entsperrtAm sql.NullTime
	err := scanner.Scan(
		&c.ID, &c.CaseNumber, &c.UserID, &c.Status, &c.Track,
		&c.Platform, &c.Nutzername, &c.RegistrierteEmail,
		&c.SperrDatum, &c.SperrGrund, &freitext, &details,
		&c.Kontotyp, &gewerb, &follower, &einnahmen, &c.VertraegeBetroffen,
		&c.MonatsfristEnde, &c.AbmahnfristDatum, &c.AbmahnfristTage,
		&c.VollmachtErteilt, &c.VerguetungAkzeptiert, &c.DatenschutzAkzeptiert,
		&c.PaymentStatus, &c.PaymentMethod, &paymentID,
		&entsperrtAm, &notizen, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return models.Case{}, err
	}
	c.SperrGrundFreitext = freitext.String
	c.SperrDetails = details.String
	c.GewerbBeschreibung = gewerb.String
	c.FollowerCount = follower.String
	c.MonatlicheEinnahmen = einnahmen.String
	c.PaymentID = paymentID.String
	c.InterneNotizen = notizen.String
	if entsperrtAm.Valid {
		t := entsperrtAm.Time
		c.EntsperrtAm = &t
	}
	return c, nil
}

// CreateCase inserts the case. A duplicate payment_id maps to
// models.ErrDuplicatePayment so a raced confirmation can fall back to the
// already-created case.
func (r *CaseRepository) CreateCase(ctx context.Context, c models.Case) (models.Case, error) {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO cases (
            id, case_number, user_id, status, track,
            platform, nutzername, registrierte_email,
            sperr_datum, sperr_grund, sperr_grund_freitext, sperr_details,
            kontotyp, gewerb_beschreibung, follower_count, monatliche_einnahmen, vertraege_betroffen,
            monatsfrist_ende, abmahnfrist_datum, abmahnfrist_tage,
            vollmacht_erteilt, verguetung_akzeptiert, datenschutz_akzeptiert,
            payment_status, payment_method, payment_id,
            interne_notizen, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		c.ID, c.CaseNumber, c.UserID, c.Status, c.Track,
		c.Platform, c.Nutzername, c.RegistrierteEmail,
		c.SperrDatum, c.SperrGrund, nullIfEmpty(c.SperrGrundFreitext), nullIfEmpty(c.SperrDetails),
		c.Kontotyp, nullIfEmpty(c.GewerbBeschreibung), nullIfEmpty(c.FollowerCount), nullIfEmpty(c.MonatlicheEinnahmen), c.VertraegeBetroffen,
		c.MonatsfristEnde, c.AbmahnfristDatum, c.AbmahnfristTage,
		c.VollmachtErteilt, c.VerguetungAkzeptiert, c.DatenschutzAkzeptiert,
		c.PaymentStatus, c.PaymentMethod, nullIfEmpty(c.PaymentID),
		nullIfEmpty(c.InterneNotizen), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.Case{}, models.ErrDuplicatePayment
		}
		return models.Case{}, err
	}
	return c, nil
}

func (r *CaseRepository) GetByID(ctx context.Context, id string) (models.Case, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases c WHERE c.id = ?`, id)
	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return models.Case{}, models.ErrCaseNotFound
	}
	if err != nil {
		return models.Case{}, err
	}
	return c, nil
}

// FindByPaymentID is the idempotency lookup for the creation flow.
func (r *CaseRepository) FindByPaymentID(ctx context.Context, paymentID string) (models.Case, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases c WHERE c.payment_id = ?`, paymentID)
	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return models.Case{}, models.ErrCaseNotFound
	}
	if err != nil {
		return models.Case{}, err
	}
	return c, nil
}

// FindByNumberAndEmail serves the public status lookup.
func (r *CaseRepository) FindByNumberAndEmail(ctx context.Context, caseNumber, email string) (models.Case, error) {
	row := r.DB.QueryRowContext(ctx, `
        SELECT `+caseColumns+`
        FROM cases c
        JOIN users u ON u.id = c.user_id
        WHERE c.case_number = ? AND u.email = ?
    `, caseNumber, email)
	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return models.Case{}, models.ErrCaseNotFound
	}
	if err != nil {
		return models.Case{}, err
	}
	return c, nil
}

// ListOpenCases returns every case still inside the pre-litigation window,
// with the owning user attached for notification delivery.
func (r *CaseRepository) ListOpenCases(ctx context.Context) ([]models.Case, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT `+caseColumns+`,
            u.id, u.email, u.vorname, u.nachname, u.strasse, u.plz, u.stadt
        FROM cases c
        JOIN users u ON u.id = c.user_id
        WHERE c.status IN (?, ?)
        ORDER BY c.created_at
    `, models.StatusMandatErteilt, models.StatusAbmahnungVersandt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []models.Case
	for rows.Next() {
		var c models.Case
		var freitext, details, gewerb, follower, einnahmen, paymentID, notizen sql.NullString
		var entsperrtAm sql.NullTime
		var u models.User
		err := rows.Scan(
			&c.ID, &c.CaseNumber, &c.UserID, &c.Status, &c.Track,
			&c.Platform, &c.Nutzername, &c.RegistrierteEmail,
			&c.SperrDatum, &c.SperrGrund, &freitext, &details,
			&c.Kontotyp, &gewerb, &follower, &einnahmen, &c.VertraegeBetroffen,
			&c.MonatsfristEnde, &c.AbmahnfristDatum, &c.AbmahnfristTage,
			&c.VollmachtErteilt, &c.VerguetungAkzeptiert, &c.DatenschutzAkzeptiert,
			&c.PaymentStatus, &c.PaymentMethod, &paymentID,
			&entsperrtAm, &notizen, &c.CreatedAt, &c.UpdatedAt,
			&u.ID, &u.Email, &u.Vorname, &u.Nachname, &u.Strasse, &u.PLZ, &u.Stadt,
		)
		if err != nil {
			return nil, err
		}
		c.SperrGrundFreitext = freitext.String
		c.SperrDetails = details.String
		c.GewerbBeschreibung = gewerb.String
		c.FollowerCount = follower.String
		c.MonatlicheEinnahmen = einnahmen.String
		c.PaymentID = paymentID.String
		c.InterneNotizen = notizen.String
		if entsperrtAm.Valid {
			t := entsperrtAm.Time
			c.EntsperrtAm = &t
		}
		c.User = &u
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func (r *CaseRepository) ListAll(ctx context.Context) ([]models.Case, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+caseColumns+` FROM cases c ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// UpdateStatus sets the status and, for entsperrt statuses, stamps the
// unblock timestamp. Transition legality is checked by the service layer.
func (r *CaseRepository) UpdateStatus(ctx context.Context, id, status string, entsperrtAm *time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE cases
        SET status = ?, entsperrt_am = COALESCE(?, entsperrt_am), updated_at = ?
        WHERE id = ?
    `, status, entsperrtAm, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepository) UpdateInterneNotizen(ctx context.Context, id, notizen string) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE cases SET interne_notizen = ?, updated_at = ? WHERE id = ?
    `, notizen, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepository) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE cases SET payment_status = ?, updated_at = ? WHERE id = ?
    `, paymentStatus, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrCaseNotFound
	}
	return nil
}
