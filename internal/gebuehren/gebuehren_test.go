package gebuehren

import "testing"

func TestSatzExactToTheCent(t *testing.T) {
	cases := []struct {
		kontotyp string
		gebuehr  int64
		auslagen int64
		ust      int64
		gesamt   int64
	}{
		{KontotypPrivat, 46085, 2000, 9136, 57221},
		{KontotypGewerblich, 84760, 2000, 16484, 103244},
	}

	for _, tc := range cases {
		t.Run(tc.kontotyp, func(t *testing.T) {
			s, err := Satz(tc.kontotyp)
			if err != nil {
				t.Fatalf("Satz: %v", err)
			}
			if s.Geschaeftsgebuehr != tc.gebuehr || s.Auslagen != tc.auslagen || s.Ust != tc.ust {
				t.Fatalf("unexpected schedule row: %+v", s)
			}
			if s.Gesamt != tc.gesamt {
				t.Fatalf("expected total %d got %d", tc.gesamt, s.Gesamt)
			}
			if s.Geschaeftsgebuehr+s.Auslagen+s.Ust != s.Gesamt {
				t.Fatal("total does not equal sum of positions")
			}
		})
	}
}

func TestSatzUnknownKontotyp(t *testing.T) {
	if _, err := Satz("VEREIN"); err == nil {
		t.Fatal("expected error for unknown kontotyp")
	}
}

func TestLineItemsSumToTotal(t *testing.T) {
	for _, kontotyp := range []string{KontotypPrivat, KontotypGewerblich} {
		items, err := LineItems(kontotyp)
		if err != nil {
			t.Fatalf("LineItems: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("expected 3 positions, got %d", len(items))
		}
		var sum int64
		for _, it := range items {
			sum += it.Amount
		}
		s, _ := Satz(kontotyp)
		if sum != s.Gesamt {
			t.Fatalf("%s: positions sum to %d, total is %d", kontotyp, sum, s.Gesamt)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{57221, "572,21 €"},
		{103244, "1.032,44 €"},
		{500000, "5.000,00 €"},
		{5, "0,05 €"},
		{-2000, "-20,00 €"},
	}
	for _, tc := range cases {
		if got := FormatCents(tc.cents); got != tc.want {
			t.Fatalf("FormatCents(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
