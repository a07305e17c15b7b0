package entity

import (
	"strings"

	"github.com/pkg/errors"
)

// Category classifies an extracted medical entity.
type Category string

const (
	CategorySymptom    Category = "Symptom"
	CategoryMedication Category = "Medication"
	CategoryCondition  Category = "Condition"
	CategoryAllergy    Category = "Allergy"
	CategoryBodyPart   Category = "BodyPart"
	CategoryDuration   Category = "Duration"
	CategorySeverity   Category = "Severity"
)

// MedicalEntity is one categorized entity found in free text. Produced once,
// never mutated.
type MedicalEntity struct {
	Text       string   `json:"entity"`
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
}

// extraction is the gateway output schema for an extraction call.
type extraction struct {
	Entities []MedicalEntity `json:"entities"`
}

func (e extraction) Validate() error {
	for i := range e.Entities {
		ent := &e.Entities[i]
		if strings.TrimSpace(ent.Text) == "" {
			return errors.Errorf("entity %d: empty text", i)
		}
		cat, ok := normalizeCategory(ent.Category)
		if !ok {
			return errors.Errorf("entity %d: unknown category %q", i, ent.Category)
		}
		ent.Category = cat
		if ent.Confidence < 0 || ent.Confidence > 1 {
			return errors.Errorf("entity %d: confidence %v out of range", i, ent.Confidence)
		}
	}
	return nil
}

// normalizeCategory folds model spelling variants ("body part", "Body Part")
// onto the canonical enum.
func normalizeCategory(c Category) (Category, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(string(c))), " ", "")
	switch key {
	case "symptom":
		return CategorySymptom, true
	case "medication":
		return CategoryMedication, true
	case "condition":
		return CategoryCondition, true
	case "allergy":
		return CategoryAllergy, true
	case "bodypart":
		return CategoryBodyPart, true
	case "duration":
		return CategoryDuration, true
	case "severity":
		return CategorySeverity, true
	}
	return c, false
}
