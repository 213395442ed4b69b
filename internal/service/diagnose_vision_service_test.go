package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const diagnosePayload = `{
	"issue_detected": "Leaf Spot Disease",
	"confidence_score": 1.4,
	"severity": "Medium Severity",
	"recommendation": "Remove affected leaves and improve airflow.",
	"recovery_watering": "Water every 5-7 days",
	"recovery_sunlight": "Bright indirect light",
	"recovery_air_circulation": "Good ventilation",
	"recovery_temperature": "18-24°C"
}`

func TestDiagnoseParsesAndClamps(t *testing.T) {
	doer := &fakeVisionDoer{text: diagnosePayload}
	svc := NewDiagnosisVisionService(newTestVisionClient(doer))

	result, err := svc.Diagnose(context.Background(), "ZmFrZQ==", "image/png", "")
	if err != nil {
		t.Fatalf("Diagnose returned error: %v", err)
	}
	if result.IssueDetected != "Leaf Spot Disease" {
		t.Fatalf("unexpected issue: %s", result.IssueDetected)
	}
	// 越界置信度被钳制
	if result.ConfidenceScore != 1.0 {
		t.Fatalf("expected clamped confidence 1.0, got %v", result.ConfidenceScore)
	}
	if result.RecoveryWatering == "" || result.RecoveryTemperature == "" {
		t.Fatal("expected recovery fields to be populated")
	}
}

func TestDiagnoseIncludesLocationHint(t *testing.T) {
	doer := &fakeVisionDoer{text: diagnosePayload}
	svc := NewDiagnosisVisionService(newTestVisionClient(doer))

	if _, err := svc.Diagnose(context.Background(), "ZmFrZQ==", "image/jpeg", "north-facing bathroom"); err != nil {
		t.Fatalf("Diagnose returned error: %v", err)
	}

	body := requestBodyString(t, doer)
	if !strings.Contains(body, "north-facing bathroom") {
		t.Fatal("expected location hint in the prompt")
	}
}

func TestDiagnoseFallsBackOnFailure(t *testing.T) {
	doer := &fakeVisionDoer{err: errors.New("timeout")}
	svc := NewDiagnosisVisionService(newTestVisionClient(doer))

	result, err := svc.Diagnose(context.Background(), "ZmFrZQ==", "image/jpeg", "")
	if err != nil {
		t.Fatalf("expected fallback instead of error, got %v", err)
	}
	if result.IssueDetected != "Unable to Diagnose" {
		t.Fatalf("expected fallback diagnosis, got %s", result.IssueDetected)
	}
	if result.ConfidenceScore != 0.0 {
		t.Fatalf("expected fallback confidence 0.0, got %v", result.ConfidenceScore)
	}
	if result.Severity != "Unknown" {
		t.Fatalf("expected fallback severity Unknown, got %s", result.Severity)
	}
}

func TestDiagnoseFallsBackOnMissingFields(t *testing.T) {
	doer := &fakeVisionDoer{text: `{"issue_detected": "Pests"}`}
	svc := NewDiagnosisVisionService(newTestVisionClient(doer))

	result, err := svc.Diagnose(context.Background(), "ZmFrZQ==", "image/jpeg", "")
	if err != nil {
		t.Fatalf("expected fallback instead of error, got %v", err)
	}
	if result.IssueDetected != "Unable to Diagnose" {
		t.Fatalf("expected fallback diagnosis, got %s", result.IssueDetected)
	}
}

func TestDiagnoseNotConfigured(t *testing.T) {
	svc := NewDiagnosisVisionService(NewVisionClient("", "", ""))

	if _, err := svc.Diagnose(context.Background(), "ZmFrZQ==", "image/jpeg", ""); !errors.Is(err, ErrVisionNotConfigured) {
		t.Fatalf("expected ErrVisionNotConfigured, got %v", err)
	}
}
