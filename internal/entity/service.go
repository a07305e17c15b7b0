// Package entity extracts categorized medical entities from free text. It is
// used standalone by the analysis endpoints and by the interview engine to
// enrich prompts with detected keywords.
package entity

import (
	"context"
	"strings"
	"text/template"

	"telemed-ai/internal/errs"
	"telemed-ai/internal/inference"
)

const extractSystem = `Extract medical entities from the text.
Categorize each into exactly one of: Symptom, Medication, Condition, Allergy, BodyPart, Duration, Severity.
Respond with a single JSON object and nothing else:
{"entities": [{"entity": "<text as found>", "category": "<category>", "confidence": <0..1>}]}`

var extractUser = template.Must(template.New("extract").Parse(`Text:
{{.Text}}`))

type Service struct {
	gw *inference.Gateway
}

func NewService(gw *inference.Gateway) *Service {
	return &Service{gw: gw}
}

// Extract is a pure function of the input text: one gateway call with the
// entity schema.
func (s *Service) Extract(ctx context.Context, text string) ([]MedicalEntity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.New(errs.KindValidation, "text is required")
	}
	out, err := inference.Invoke[extraction](ctx, s.gw, inference.Contract{
		Name:   "extract-entities",
		System: extractSystem,
		User:   extractUser,
		Vars:   struct{ Text string }{Text: text},
	})
	if err != nil {
		return nil, err
	}
	return out.Entities, nil
}
