package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Block reason enum values with their German display labels.
var SperrGruende = map[string]string{
	"COMMUNITY_STANDARDS": "Verstoß gegen Gemeinschaftsstandards",
	"IMPERSONATION":       "Impersonation / Nachahmung",
	"SPAM":                "Spam / Verdächtiges Verhalten",
	"COPYRIGHT":           "Urheberrechtsverstoß",
	"HATE_SPEECH":         "Hassrede / Diskriminierung",
	"UNKNOWN":             "Kein Grund angegeben",
	"OTHER":               "Sonstiger Grund",
}

// Supported platforms with display names.
var Platforms = map[string]string{
	"INSTAGRAM": "Instagram",
	"FACEBOOK":  "Facebook",
	"TIKTOK":    "TikTok",
	"YOUTUBE":   "YouTube",
	"X":         "X (Twitter)",
	"LINKEDIN":  "LinkedIn",
}

// SperrGrundLabel returns the display label for a block reason value, falling
// back to the raw value.
func SperrGrundLabel(value string) string {
	if label, ok := SperrGruende[value]; ok {
		return label
	}
	return value
}

// PlatformName returns the display name for a platform key, falling back to
// the raw key.
func PlatformName(key string) string {
	if name, ok := Platforms[key]; ok {
		return name
	}
	return key
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// CaseSubmission is the full wizard form payload.
type CaseSubmission struct {
	Vorname  string `json:"vorname"`
	Nachname string `json:"nachname"`
	Email    string `json:"email"`
	Telefon  string `json:"telefon"`
	Strasse  string `json:"strasse"`
	PLZ      string `json:"plz"`
	Stadt    string `json:"stadt"`

	Platform          string `json:"platform"`
	Nutzername        string `json:"nutzername"`
	RegistrierteEmail string `json:"registrierteEmail"`

	SperrDatum         string `json:"sperrDatum"` // YYYY-MM-DD
	SperrGrund         string `json:"sperrGrund"`
	SperrGrundFreitext string `json:"sperrGrundFreitext"`
	SperrDetails       string `json:"sperrDetails"`

	Kontotyp            string `json:"kontotyp"`
	GewerbBeschreibung  string `json:"gewerbBeschreibung"`
	FollowerCount       string `json:"followerCount"`
	MonatlicheEinnahmen string `json:"monatlicheEinnahmen"`
	VertraegeBetroffen  bool   `json:"vertraegeBetroffen"`

	Vollmacht   bool   `json:"vollmacht"`
	Verguetung  bool   `json:"verguetung"`
	Datenschutz bool   `json:"datenschutz"`
	Sprache     string `json:"sprache"` // "de" (default) or "en"
}

// Validate checks required fields and enum membership. It reports the first
// problem found; callers must reject before any side effect.
func (s CaseSubmission) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"vorname", s.Vorname},
		{"nachname", s.Nachname},
		{"email", s.Email},
		{"strasse", s.Strasse},
		{"plz", s.PLZ},
		{"stadt", s.Stadt},
		{"platform", s.Platform},
		{"nutzername", s.Nutzername},
		{"registrierteEmail", s.RegistrierteEmail},
		{"sperrDatum", s.SperrDatum},
		{"sperrGrund", s.SperrGrund},
		{"kontotyp", s.Kontotyp},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("missing required field %s", f.name)
		}
	}
	if !ValidEmail(s.Email) {
		return fmt.Errorf("invalid email address")
	}
	if s.Kontotyp != "PRIVAT" && s.Kontotyp != "GEWERBLICH" {
		return fmt.Errorf("invalid kontotyp %q", s.Kontotyp)
	}
	if _, ok := SperrGruende[s.SperrGrund]; !ok {
		return fmt.Errorf("invalid sperrGrund %q", s.SperrGrund)
	}
	if !s.Vollmacht || !s.Verguetung || !s.Datenschutz {
		return fmt.Errorf("vollmacht, verguetung and datenschutz must be accepted")
	}
	return nil
}
