// Package report covers the single-pass analysis services: structured
// analysis of an uploaded lab report and pre-diagnosis of a symptom
// description (text or audio).
package report

import (
	"context"
	"strings"

	"telemed-ai/internal/errs"
	"telemed-ai/internal/inference"
)

// minSymptomChars matches the upstream threshold below which a symptom
// description is rejected as unusable.
const minSymptomChars = 5

// Transcriber converts symptom audio to text for pre-diagnosis.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

type Service struct {
	gw          *inference.Gateway
	transcriber Transcriber
}

func NewService(gw *inference.Gateway, transcriber Transcriber) *Service {
	return &Service{gw: gw, transcriber: transcriber}
}

// Analyze runs one gateway call over text already extracted from a document.
func (s *Service) Analyze(ctx context.Context, documentText string) (Analysis, error) {
	if strings.TrimSpace(documentText) == "" {
		return Analysis{}, errs.New(errs.KindValidation, "document text is empty")
	}

	analysis, err := inference.Invoke[Analysis](ctx, s.gw, inference.Contract{
		Name:   "report-analysis",
		System: analyzeSystem,
		User:   analyzeUser,
		Vars:   struct{ DocumentText string }{DocumentText: documentText},
	})
	if err != nil {
		return Analysis{}, err
	}
	if strings.TrimSpace(analysis.Disclaimer) == "" {
		analysis.Disclaimer = defaultDisclaimer
	}
	return analysis, nil
}

// PreDiagnose analyzes a free-text symptom description.
func (s *Service) PreDiagnose(ctx context.Context, symptoms string) (PreDiagnosis, error) {
	if len(strings.TrimSpace(symptoms)) < minSymptomChars {
		return PreDiagnosis{}, errs.New(errs.KindValidation, "no symptoms provided or text too short")
	}

	diag, err := inference.Invoke[PreDiagnosis](ctx, s.gw, inference.Contract{
		Name:   "pre-diagnosis",
		System: preDiagnosisSystem,
		User:   preDiagnosisUser,
		Vars:   struct{ Symptoms string }{Symptoms: symptoms},
	})
	if err != nil {
		return PreDiagnosis{}, err
	}
	if strings.TrimSpace(diag.Disclaimer) == "" {
		diag.Disclaimer = defaultDisclaimer
	}
	return diag, nil
}

// PreDiagnoseAudio transcribes a spoken symptom description first, then
// analyzes it like text input.
func (s *Service) PreDiagnoseAudio(ctx context.Context, audio []byte, filename string) (string, PreDiagnosis, error) {
	text, err := s.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return "", PreDiagnosis{}, errs.Wrap(errs.KindTranscription, err, "transcribe symptoms")
	}
	diag, err := s.PreDiagnose(ctx, text)
	return text, diag, err
}
