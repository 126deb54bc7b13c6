package services

import (
	"strings"
	"testing"
	"time"

	"accounthilfe/internal/models"
)

func TestFormatGermanDate(t *testing.T) {
	got := FormatGermanDate(time.Date(2025, 3, 9, 15, 30, 0, 0, time.UTC))
	if got != "9. März 2025" {
		t.Fatalf("FormatGermanDate = %q", got)
	}
}

func TestDeadlineExpiredEmailTrackWording(t *testing.T) {
	_, htmlA := DeadlineExpiredEmail("AH-2025-0001", models.TrackAInjunction, "de")
	if !strings.Contains(htmlA, "einstweilige Verfügung") {
		t.Fatalf("injunction track missing eV wording: %s", htmlA)
	}

	_, htmlB := DeadlineExpiredEmail("AH-2025-0002", models.TrackBLawsuit, "de")
	if !strings.Contains(htmlB, "Klageschrift") {
		t.Fatalf("lawsuit track missing Klageschrift wording: %s", htmlB)
	}

	_, htmlEN := DeadlineExpiredEmail("AH-2025-0003", models.TrackAInjunction, "en")
	if !strings.Contains(htmlEN, "preliminary injunction") {
		t.Fatalf("english injunction wording missing: %s", htmlEN)
	}
}

func TestBankTransferEmailContainsAmountAndIBAN(t *testing.T) {
	_, html := BankTransferEmail("AH-2025-0007", "Max", "Mustermann", 57221, FirmBankDetails, "de")
	if !strings.Contains(html, "572,21 €") {
		t.Fatalf("amount missing or wrongly formatted: %s", html)
	}
	if !strings.Contains(html, FirmBankDetails.IBAN) {
		t.Fatal("IBAN missing from bank transfer email")
	}
	if !strings.Contains(html, "AH-2025-0007") {
		t.Fatal("case number missing as payment reference")
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusLabel(models.StatusGerichtlichEntsperrt); got != "Erfolgreich entsperrt" {
		t.Fatalf("StatusLabel = %q", got)
	}
	if got := StatusLabel("WEISS_NICHT"); got != "WEISS_NICHT" {
		t.Fatalf("unknown status not passed through: %q", got)
	}
}
