package entity

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"telemed-ai/internal/errs"
	"telemed-ai/internal/inference"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return f.reply, f.err
}

func newService(reply string) *Service {
	gw := inference.NewGateway(&fakeCompleter{reply: reply}, zerolog.Nop())
	return NewService(gw)
}

func TestExtract_NormalizesCategorySpelling(t *testing.T) {
	svc := newService(`{"entities": [
		{"entity": "left knee", "category": "Body Part", "confidence": 0.9},
		{"entity": "headache", "category": "symptom", "confidence": 0.95}
	]}`)

	entities, err := svc.Extract(context.Background(), "my left knee hurts and I have a headache")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}
	if entities[0].Category != CategoryBodyPart {
		t.Errorf("expected BodyPart, got %q", entities[0].Category)
	}
	if entities[1].Category != CategorySymptom {
		t.Errorf("expected Symptom, got %q", entities[1].Category)
	}
}

func TestExtract_UnknownCategoryRejected(t *testing.T) {
	svc := newService(`{"entities": [{"entity": "x", "category": "Vibe", "confidence": 0.5}]}`)

	_, err := svc.Extract(context.Background(), "some text")
	if errs.KindOf(err) != errs.KindSchemaViolation {
		t.Errorf("expected schema violation, got %v", err)
	}
}

func TestExtract_ConfidenceOutOfRangeRejected(t *testing.T) {
	svc := newService(`{"entities": [{"entity": "fever", "category": "Symptom", "confidence": 1.4}]}`)

	_, err := svc.Extract(context.Background(), "some text")
	if errs.KindOf(err) != errs.KindSchemaViolation {
		t.Errorf("expected schema violation, got %v", err)
	}
}

func TestExtract_EmptyTextRejected(t *testing.T) {
	svc := newService(`{"entities": []}`)

	_, err := svc.Extract(context.Background(), "   ")
	if errs.KindOf(err) != errs.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestExtract_EmptyResultIsFine(t *testing.T) {
	svc := newService(`{"entities": []}`)

	entities, err := svc.Extract(context.Background(), "nothing medical here")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entities) != 0 {
		t.Errorf("expected no entities, got %#v", entities)
	}
}
