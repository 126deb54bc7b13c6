package fristlogik

import "time"

// Track values for the litigation strategy.
const (
	TrackAInjunction = "A_INJUNCTION"
	TrackBLawsuit    = "B_LAWSUIT"
)

// FristTyp values describing which deadline window applies.
const (
	FristTypStandard         = "standard"
	FristTypFrankfurtHamburg = "frankfurt_hamburg"
	FristTypKlage            = "klage"
)

const (
	monatsfristTage         = 30
	monatsfristTageExtended = 35
)

// TrackResult is the outcome of the track classification.
type TrackResult struct {
	Track    string
	TageHer  int
	FristTyp string
	Warnung  string
}

// FristResult bundles the computed warning-letter deadline with the outer
// statutory window.
type FristResult struct {
	FristTage        int
	FristDatum       time.Time
	MonatsfristEnde  time.Time
	VerbleibendeZeit int
	Track            TrackResult
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TageZwischen returns the number of full calendar days from `from` to `to`.
// Negative when `to` lies before `from`.
func TageZwischen(from, to time.Time) int {
	return int(startOfDay(to).Sub(startOfDay(from)).Hours() / 24)
}

// BerechneTrack decides between an expedited injunction (Track A) and an
// ordinary lawsuit (Track B) based on how long ago the account was blocked.
//
// Einstweilige Verfügung ist nur innerhalb von 30 Tagen möglich (standard)
// bzw. 35 Tagen bei LG Frankfurt / LG Hamburg.
func BerechneTrack(sperrDatum, heute time.Time) TrackResult {
	tageHer := TageZwischen(sperrDatum, heute)

	if tageHer <= monatsfristTage {
		return TrackResult{Track: TrackAInjunction, TageHer: tageHer, FristTyp: FristTypStandard}
	}
	if tageHer <= monatsfristTageExtended {
		return TrackResult{
			Track:    TrackAInjunction,
			TageHer:  tageHer,
			FristTyp: FristTypFrankfurtHamburg,
			Warnung:  "Einstweilige Verfügung nur bei LG Frankfurt/Hamburg noch möglich (5-Wochen-Frist). Zeit ist sehr knapp.",
		}
	}
	return TrackResult{Track: TrackBLawsuit, TageHer: tageHer, FristTyp: FristTypKlage}
}

// BerechneFrist computes the warning-letter response deadline.
//
// Track A: the deadline shrinks as the statutory window closes so that enough
// residual time remains to still file for injunctive relief after it expires.
// Track B: flat 14 days, no urgency.
func BerechneFrist(sperrDatum, heute time.Time) FristResult {
	track := BerechneTrack(sperrDatum, heute)

	if track.Track == TrackBLawsuit {
		const fristTage = 14
		return FristResult{
			FristTage:       fristTage,
			FristDatum:      heute.AddDate(0, 0, fristTage),
			MonatsfristEnde: sperrDatum.AddDate(0, 0, monatsfristTage),
			Track:           track,
		}
	}

	monatsfristEnde := sperrDatum.AddDate(0, 0, monatsfristTage)
	if track.FristTyp == FristTypFrankfurtHamburg {
		monatsfristEnde = sperrDatum.AddDate(0, 0, monatsfristTageExtended)
	}
	verbleibendeZeit := TageZwischen(heute, monatsfristEnde)

	var fristTage int
	switch {
	case verbleibendeZeit > 21:
		fristTage = 14
	case verbleibendeZeit > 14:
		fristTage = 7
	case verbleibendeZeit > 7:
		fristTage = 5
	default:
		fristTage = 3
	}

	// Fristende darf nicht zu nah am Monatsfristende liegen.
	fristDatum := heute.AddDate(0, 0, fristTage)
	if TageZwischen(fristDatum, monatsfristEnde) < 5 {
		track.Warnung += " Die eV-Frist ist sehr knapp. Ggf. direkter eV-Antrag ohne Abmahnung nötig."
	}

	return FristResult{
		FristTage:        fristTage,
		FristDatum:       fristDatum,
		MonatsfristEnde:  monatsfristEnde,
		VerbleibendeZeit: verbleibendeZeit,
		Track:            track,
	}
}
