package models

import "time"

// Case statuses, in lifecycle order.
const (
	StatusMandatErteilt              = "MANDAT_ERTEILT"
	StatusAbmahnungVersandt          = "ABMAHNUNG_VERSANDT"
	StatusAussergerichtlichEntsperrt = "AUSSERGERICHTLICH_ENTSPERRT"
	StatusFristVerstrichen           = "FRIST_VERSTRICHEN"
	StatusGerichtsprozessEingeleitet = "GERICHTSPROZESS_EINGELEITET"
	StatusTerminAngesetzt            = "TERMIN_ANGESETZT"
	StatusGerichtlichEntsperrt       = "GERICHTLICH_ENTSPERRT"
	StatusAbgeschlossen              = "ABGESCHLOSSEN"
)

// Payment status of a case.
const (
	PaymentBezahlt    = "BEZAHLT"
	PaymentAusstehend = "AUSSTEHEND"
)

// Payment methods.
const (
	PaymentMethodStripe       = "STRIPE"
	PaymentMethodPaypal       = "PAYPAL"
	PaymentMethodUeberweisung = "UEBERWEISUNG"
)

// Procedural tracks.
const (
	TrackAInjunction = "A_INJUNCTION"
	TrackBLawsuit    = "B_LAWSUIT"
)

// transitions is the allowed status graph. ABGESCHLOSSEN is terminal.
var transitions = map[string][]string{
	StatusMandatErteilt:              {StatusAbmahnungVersandt},
	StatusAbmahnungVersandt:          {StatusAussergerichtlichEntsperrt, StatusFristVerstrichen},
	StatusAussergerichtlichEntsperrt: {StatusAbgeschlossen},
	StatusFristVerstrichen:           {StatusGerichtsprozessEingeleitet},
	StatusGerichtsprozessEingeleitet: {StatusTerminAngesetzt},
	StatusTerminAngesetzt:            {StatusGerichtlichEntsperrt},
	StatusGerichtlichEntsperrt:       {StatusAbgeschlossen},
	StatusAbgeschlossen:              {},
}

// CanTransition reports whether the status graph allows from -> to.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known case status.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// IsEntsperrt reports whether s is one of the unblocked statuses that stamp
// the unblock timestamp.
func IsEntsperrt(s string) bool {
	return s == StatusAussergerichtlichEntsperrt || s == StatusGerichtlichEntsperrt
}

// Case is the central mandate record. Deadlines are computed once at creation
// and never recomputed.
type Case struct {
	ID         string `json:"id"`
	CaseNumber string `json:"case_number"`
	UserID     int    `json:"user_id"`
	Status     string `json:"status"`
	Track      string `json:"track"`

	Platform          string `json:"platform"`
	Nutzername        string `json:"nutzername"`
	RegistrierteEmail string `json:"registrierte_email"`

	SperrDatum         time.Time `json:"sperr_datum"`
	SperrGrund         string    `json:"sperr_grund"`
	SperrGrundFreitext string    `json:"sperr_grund_freitext,omitempty"`
	SperrDetails       string    `json:"sperr_details,omitempty"`

	Kontotyp            string `json:"kontotyp"`
	GewerbBeschreibung  string `json:"gewerb_beschreibung,omitempty"`
	FollowerCount       string `json:"follower_count,omitempty"`
	MonatlicheEinnahmen string `json:"monatliche_einnahmen,omitempty"`
	VertraegeBetroffen  bool   `json:"vertraege_betroffen"`

	MonatsfristEnde  time.Time `json:"monatsfrist_ende"`
	AbmahnfristDatum time.Time `json:"abmahnfrist_datum"`
	AbmahnfristTage  int       `json:"abmahnfrist_tage"`

	VollmachtErteilt      bool `json:"vollmacht_erteilt"`
	VerguetungAkzeptiert  bool `json:"verguetung_akzeptiert"`
	DatenschutzAkzeptiert bool `json:"datenschutz_akzeptiert"`

	PaymentStatus string `json:"payment_status"`
	PaymentMethod string `json:"payment_method"`
	PaymentID     string `json:"payment_id,omitempty"`

	EntsperrtAm    *time.Time `json:"entsperrt_am,omitempty"`
	InterneNotizen string     `json:"interne_notizen,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	User *User `json:"user,omitempty"`
}
