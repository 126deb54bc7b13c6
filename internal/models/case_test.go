package models

import "testing"

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusMandatErteilt, StatusAbmahnungVersandt) {
		t.Fatal("expected mandat_erteilt -> abmahnung_versandt to be allowed")
	}
	if !CanTransition(StatusAbmahnungVersandt, StatusAussergerichtlichEntsperrt) {
		t.Fatal("expected abmahnung_versandt -> aussergerichtlich_entsperrt to be allowed")
	}
	if !CanTransition(StatusAbmahnungVersandt, StatusFristVerstrichen) {
		t.Fatal("expected abmahnung_versandt -> frist_verstrichen to be allowed")
	}
	if !CanTransition(StatusFristVerstrichen, StatusGerichtsprozessEingeleitet) {
		t.Fatal("expected frist_verstrichen -> gerichtsprozess_eingeleitet to be allowed")
	}
	if !CanTransition(StatusGerichtsprozessEingeleitet, StatusTerminAngesetzt) {
		t.Fatal("expected gerichtsprozess_eingeleitet -> termin_angesetzt to be allowed")
	}
	if !CanTransition(StatusTerminAngesetzt, StatusGerichtlichEntsperrt) {
		t.Fatal("expected termin_angesetzt -> gerichtlich_entsperrt to be allowed")
	}
	if !CanTransition(StatusGerichtlichEntsperrt, StatusAbgeschlossen) {
		t.Fatal("expected gerichtlich_entsperrt -> abgeschlossen to be allowed")
	}
	if CanTransition(StatusMandatErteilt, StatusGerichtlichEntsperrt) {
		t.Fatal("unexpected transition allowed")
	}
	if CanTransition(StatusAbgeschlossen, StatusMandatErteilt) {
		t.Fatal("abgeschlossen must be terminal")
	}
}

func TestIsEntsperrt(t *testing.T) {
	if !IsEntsperrt(StatusAussergerichtlichEntsperrt) || !IsEntsperrt(StatusGerichtlichEntsperrt) {
		t.Fatal("entsperrt statuses not recognized")
	}
	if IsEntsperrt(StatusAbgeschlossen) {
		t.Fatal("abgeschlossen is not an entsperrt status")
	}
}

func TestSubmissionValidate(t *testing.T) {
	valid := CaseSubmission{
		Vorname: "Max", Nachname: "Mustermann", Email: "max@example.com",
		Strasse: "Musterweg 1", PLZ: "60311", Stadt: "Frankfurt",
		Platform: "INSTAGRAM", Nutzername: "max.m", RegistrierteEmail: "max@example.com",
		SperrDatum: "2025-03-01", SperrGrund: "SPAM", Kontotyp: "PRIVAT",
		Vollmacht: true, Verguetung: true, Datenschutz: true,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}

	missing := valid
	missing.Nutzername = ""
	if err := missing.Validate(); err == nil {
		t.Fatal("expected error for missing nutzername")
	}

	badKontotyp := valid
	badKontotyp.Kontotyp = "VEREIN"
	if err := badKontotyp.Validate(); err == nil {
		t.Fatal("expected error for invalid kontotyp")
	}

	badEmail := valid
	badEmail.Email = "not-an-email"
	if err := badEmail.Validate(); err == nil {
		t.Fatal("expected error for invalid email")
	}

	noConsent := valid
	noConsent.Vollmacht = false
	if err := noConsent.Validate(); err == nil {
		t.Fatal("expected error for missing consent")
	}
}
