package models

import "time"

// User is the client / mandate holder. Email is the natural key; repeat
// clients are resolved by it.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Vorname   string    `json:"vorname"`
	Nachname  string    `json:"nachname"`
	Telefon   string    `json:"telefon,omitempty"`
	Strasse   string    `json:"strasse"`
	PLZ       string    `json:"plz"`
	Stadt     string    `json:"stadt"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
