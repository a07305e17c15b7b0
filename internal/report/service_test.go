package report

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"telemed-ai/internal/errs"
	"telemed-ai/internal/inference"
)

type fakeCompleter struct {
	reply string
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return f.reply, nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return f.text, f.err
}

func newTestService(reply string, tr Transcriber) *Service {
	gw := inference.NewGateway(&fakeCompleter{reply: reply}, zerolog.Nop())
	return NewService(gw, tr)
}

const validPreDiagnosis = `{
	"symptoms_identified": ["headache", "nausea"],
	"possible_conditions": [{"condition": "migraine", "probability": "High", "description": "recurring headache disorder"}],
	"severity": "Moderate",
	"recommendations": ["rest in a dark room"],
	"when_to_see_doctor": "if symptoms persist beyond 72 hours",
	"disclaimer": ""
}`

func TestAnalyze(t *testing.T) {
	reply := `{
		"report_type": "Blood Test",
		"findings": [{"parameter": "Hemoglobin", "value": "13.5 g/dL", "normal_range": "13-17 g/dL", "status": "Normal"}],
		"summary": "All parameters within range.",
		"recommendations": ["routine checkup in a year"],
		"concerns": [],
		"disclaimer": "custom disclaimer"
	}`
	svc := newTestService(reply, nil)

	analysis, err := svc.Analyze(context.Background(), "Hemoglobin: 13.5 g/dL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.ReportType != "Blood Test" || len(analysis.Findings) != 1 {
		t.Errorf("unexpected analysis: %+v", analysis)
	}
	if analysis.Disclaimer != "custom disclaimer" {
		t.Errorf("provided disclaimer must be kept, got %q", analysis.Disclaimer)
	}
}

func TestAnalyze_FillsDefaultDisclaimer(t *testing.T) {
	reply := `{"report_type": "X-Ray", "findings": [], "summary": "clear", "recommendations": [], "concerns": [], "disclaimer": " "}`
	svc := newTestService(reply, nil)

	analysis, err := svc.Analyze(context.Background(), "chest x-ray impression: clear")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Disclaimer != defaultDisclaimer {
		t.Errorf("expected default disclaimer, got %q", analysis.Disclaimer)
	}
}

func TestAnalyze_EmptyTextRejected(t *testing.T) {
	svc := newTestService("{}", nil)

	_, err := svc.Analyze(context.Background(), "   ")
	if errs.KindOf(err) != errs.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestAnalyze_UnknownFindingStatusRejected(t *testing.T) {
	reply := `{"report_type": "Blood Test", "findings": [{"parameter": "WBC", "value": "11", "normal_range": "4-10", "status": "Elevated"}], "summary": "", "recommendations": [], "concerns": [], "disclaimer": ""}`
	svc := newTestService(reply, nil)

	_, err := svc.Analyze(context.Background(), "WBC: 11")
	if errs.KindOf(err) != errs.KindSchemaViolation {
		t.Errorf("expected schema violation, got %v", err)
	}
}

func TestPreDiagnose(t *testing.T) {
	svc := newTestService(validPreDiagnosis, nil)

	diag, err := svc.PreDiagnose(context.Background(), "bad headache with nausea since yesterday")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diag.Severity != "Moderate" || len(diag.PossibleConditions) != 1 {
		t.Errorf("unexpected diagnosis: %+v", diag)
	}
	if diag.Disclaimer != defaultDisclaimer {
		t.Errorf("expected default disclaimer, got %q", diag.Disclaimer)
	}
}

func TestPreDiagnose_TooShortRejected(t *testing.T) {
	svc := newTestService(validPreDiagnosis, nil)

	_, err := svc.PreDiagnose(context.Background(), "hi  ")
	if errs.KindOf(err) != errs.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestPreDiagnose_UnknownSeverityRejected(t *testing.T) {
	reply := `{"symptoms_identified": ["cough"], "possible_conditions": [{"condition": "cold", "probability": "High", "description": ""}], "severity": "Unbearable", "recommendations": [], "when_to_see_doctor": "", "disclaimer": ""}`
	svc := newTestService(reply, nil)

	_, err := svc.PreDiagnose(context.Background(), "persistent dry cough")
	if errs.KindOf(err) != errs.KindSchemaViolation {
		t.Errorf("expected schema violation, got %v", err)
	}
}

func TestPreDiagnoseAudio(t *testing.T) {
	svc := newTestService(validPreDiagnosis, &fakeTranscriber{text: "bad headache with nausea"})

	transcript, diag, err := svc.PreDiagnoseAudio(context.Background(), []byte("audio"), "symptoms.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transcript != "bad headache with nausea" {
		t.Errorf("unexpected transcript: %q", transcript)
	}
	if diag.Severity != "Moderate" {
		t.Errorf("unexpected diagnosis: %+v", diag)
	}
}

func TestPreDiagnoseAudio_TranscriptionFailure(t *testing.T) {
	svc := newTestService(validPreDiagnosis, &fakeTranscriber{err: errors.New("upstream timeout")})

	_, _, err := svc.PreDiagnoseAudio(context.Background(), []byte("audio"), "symptoms.mp3")
	if errs.KindOf(err) != errs.KindTranscription {
		t.Errorf("expected transcription error, got %v", err)
	}
}
