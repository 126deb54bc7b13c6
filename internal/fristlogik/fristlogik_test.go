package fristlogik

import (
	"testing"
	"time"
)

func day(offset int) time.Time {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestBerechneTrackBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		tageHer  int
		track    string
		fristTyp string
	}{
		{"same day", 0, TrackAInjunction, FristTypStandard},
		{"day 30 still standard", 30, TrackAInjunction, FristTypStandard},
		{"day 31 extended venue", 31, TrackAInjunction, FristTypFrankfurtHamburg},
		{"day 35 extended venue", 35, TrackAInjunction, FristTypFrankfurtHamburg},
		{"day 36 lawsuit", 36, TrackBLawsuit, FristTypKlage},
		{"far past", 120, TrackBLawsuit, FristTypKlage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BerechneTrack(day(0), day(tc.tageHer))
			if got.Track != tc.track {
				t.Fatalf("expected track %s got %s", tc.track, got.Track)
			}
			if got.FristTyp != tc.fristTyp {
				t.Fatalf("expected fristTyp %s got %s", tc.fristTyp, got.FristTyp)
			}
			if got.TageHer != tc.tageHer {
				t.Fatalf("expected tageHer %d got %d", tc.tageHer, got.TageHer)
			}
		})
	}

	if BerechneTrack(day(0), day(31)).Warnung == "" {
		t.Fatal("expected venue warning on extended window")
	}
}

func TestBerechneTrackMonotonic(t *testing.T) {
	// Increasing elapsed days must never move the track from B back to A.
	seenB := false
	for elapsed := 0; elapsed <= 60; elapsed++ {
		got := BerechneTrack(day(0), day(elapsed))
		if got.Track == TrackBLawsuit {
			seenB = true
		}
		if seenB && got.Track != TrackBLawsuit {
			t.Fatalf("track reverted to A at %d elapsed days", elapsed)
		}
	}
}

func TestBerechneFristStepFunction(t *testing.T) {
	cases := []struct {
		verbleibend int
		fristTage   int
	}{
		{22, 14},
		{21, 7},
		{15, 7},
		{14, 5},
		{8, 5},
		{7, 3},
		{0, 3},
	}

	for _, tc := range cases {
		// Choose sperrDatum so that monatsfristEnde - heute == tc.verbleibend
		// while staying inside the standard 30-day window.
		heute := day(30 - tc.verbleibend)
		got := BerechneFrist(day(0), heute)
		if got.VerbleibendeZeit != tc.verbleibend {
			t.Fatalf("slack %d: computed %d remaining days", tc.verbleibend, got.VerbleibendeZeit)
		}
		if got.FristTage != tc.fristTage {
			t.Fatalf("slack %d: expected %d-day letter deadline, got %d", tc.verbleibend, tc.fristTage, got.FristTage)
		}
		if !got.FristDatum.Equal(heute.AddDate(0, 0, tc.fristTage)) {
			t.Fatalf("slack %d: fristDatum mismatch", tc.verbleibend)
		}
		if !got.MonatsfristEnde.Equal(day(30)) {
			t.Fatalf("slack %d: monatsfristEnde mismatch", tc.verbleibend)
		}
	}
}

func TestBerechneFristLawsuitTrack(t *testing.T) {
	got := BerechneFrist(day(0), day(50))
	if got.Track.Track != TrackBLawsuit {
		t.Fatalf("expected lawsuit track, got %s", got.Track.Track)
	}
	if got.FristTage != 14 {
		t.Fatalf("expected fixed 14-day deadline, got %d", got.FristTage)
	}
	if !got.FristDatum.Equal(day(64)) {
		t.Fatal("fristDatum should be now + 14 days")
	}
	if !got.MonatsfristEnde.Equal(day(30)) {
		t.Fatal("monatsfristEnde retained for display should be sperrDatum + 30 days")
	}
	if got.VerbleibendeZeit != 0 {
		t.Fatalf("lawsuit track carries no slack, got %d", got.VerbleibendeZeit)
	}
}

func TestBerechneFristTightTimelineWarning(t *testing.T) {
	// 7 days of slack yields a 3-day letter deadline, leaving only 4 days of
	// residual time before the hard boundary.
	got := BerechneFrist(day(0), day(23))
	if got.Track.Warnung == "" {
		t.Fatal("expected tight-timeline warning")
	}

	// Plenty of slack: no warning, numbers unchanged.
	relaxed := BerechneFrist(day(0), day(2))
	if relaxed.Track.Warnung != "" {
		t.Fatalf("unexpected warning: %q", relaxed.Track.Warnung)
	}
	if relaxed.FristTage != 14 {
		t.Fatalf("expected 14-day deadline, got %d", relaxed.FristTage)
	}
}

func TestTageZwischen(t *testing.T) {
	if got := TageZwischen(day(3), day(10)); got != 7 {
		t.Fatalf("expected 7 got %d", got)
	}
	if got := TageZwischen(day(10), day(3)); got != -7 {
		t.Fatalf("expected -7 got %d", got)
	}
	// Partial days truncate to full calendar days.
	late := day(5).Add(23 * time.Hour)
	if got := TageZwischen(day(0), late); got != 5 {
		t.Fatalf("expected 5 got %d", got)
	}
}
