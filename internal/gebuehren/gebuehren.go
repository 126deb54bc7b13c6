package gebuehren

import (
	"fmt"
	"strings"
)

// Account categories used by the fee schedule.
const (
	KontotypPrivat     = "PRIVAT"
	KontotypGewerblich = "GEWERBLICH"
)

// Gebuehrensatz is one row of the RVG fee schedule. All monetary amounts are
// in euro cents; Streitwert is in whole euros.
type Gebuehrensatz struct {
	Streitwert        int64
	Geschaeftsgebuehr int64
	Auslagen          int64
	Ust               int64
	Gesamt            int64
}

// Gebühren nach RVG 2025 (KostBRÄG, ab 1.6.2025).
var saetze = map[string]Gebuehrensatz{
	KontotypPrivat: {
		Streitwert:        5000,
		Geschaeftsgebuehr: 46085, // 1,3 Geschäftsgebühr Nr. 2300, 1008 VV RVG
		Auslagen:          2000,  // Nr. 7001, 7002 VV RVG
		Ust:               9136,  // 19% USt. Nr. 7008 VV RVG
		Gesamt:            57221,
	},
	KontotypGewerblich: {
		Streitwert:        10000,
		Geschaeftsgebuehr: 84760,
		Auslagen:          2000,
		Ust:               16484,
		Gesamt:            103244,
	},
}

// Satz returns the fee schedule row for the given account category.
func Satz(kontotyp string) (Gebuehrensatz, error) {
	s, ok := saetze[kontotyp]
	if !ok {
		return Gebuehrensatz{}, fmt.Errorf("gebuehren: unknown kontotyp %q", kontotyp)
	}
	return s, nil
}

// LineItem is one invoice position, amount in cents.
type LineItem struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// LineItems builds the invoice positions for the given account category.
func LineItems(kontotyp string) ([]LineItem, error) {
	s, err := Satz(kontotyp)
	if err != nil {
		return nil, err
	}
	return []LineItem{
		{
			Description: fmt.Sprintf("Geschäftsgebühr gem. Nr. 2300, 1008 VV RVG (Streitwert: %s)", FormatCents(s.Streitwert*100)),
			Amount:      s.Geschaeftsgebuehr,
		},
		{
			Description: "Auslagenpauschale gem. Nr. 7001, 7002 VV RVG",
			Amount:      s.Auslagen,
		},
		{
			Description: "19% USt. gem. Nr. 7008 VV RVG",
			Amount:      s.Ust,
		},
	}, nil
}

// FormatCents renders a cent amount in German notation, e.g. 103244 -> "1.032,44 €".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	euros := cents / 100
	rest := cents % 100

	digits := fmt.Sprintf("%d", euros)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s%s,%02d €", sign, b.String(), rest)
}
