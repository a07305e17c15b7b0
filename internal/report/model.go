package report

import (
	"strings"

	"github.com/pkg/errors"
)

const defaultDisclaimer = "This is an AI-generated analysis. Please consult with a healthcare professional for medical advice."

// Finding is one test parameter extracted from a report.
type Finding struct {
	Parameter   string `json:"parameter"`
	Value       string `json:"value"`
	NormalRange string `json:"normal_range"`
	Status      string `json:"status"` // "Normal", "High", "Low", "Critical"
}

// Analysis is the structured result of a single-pass report analysis.
type Analysis struct {
	ReportType      string    `json:"report_type"`
	Findings        []Finding `json:"findings"`
	Summary         string    `json:"summary"`
	Recommendations []string  `json:"recommendations"`
	Concerns        []string  `json:"concerns"`
	Disclaimer      string    `json:"disclaimer"`
}

func (a Analysis) Validate() error {
	if strings.TrimSpace(a.ReportType) == "" {
		return errors.New("empty report type")
	}
	for i, f := range a.Findings {
		switch f.Status {
		case "Normal", "High", "Low", "Critical":
		default:
			return errors.Errorf("finding %d (%s): unknown status %q", i, f.Parameter, f.Status)
		}
	}
	return nil
}

// PossibleCondition is one pre-diagnosis differential entry.
type PossibleCondition struct {
	Condition   string `json:"condition"`
	Probability string `json:"probability"` // "High", "Moderate", "Low"
	Description string `json:"description"`
}

// PreDiagnosis is the structured analysis of a symptom description.
type PreDiagnosis struct {
	SymptomsIdentified []string            `json:"symptoms_identified"`
	PossibleConditions []PossibleCondition `json:"possible_conditions"`
	Severity           string              `json:"severity"` // "Mild", "Moderate", "Severe", "Critical"
	Recommendations    []string            `json:"recommendations"`
	WhenToSeeDoctor    string              `json:"when_to_see_doctor"`
	Disclaimer         string              `json:"disclaimer"`
}

func (p PreDiagnosis) Validate() error {
	switch p.Severity {
	case "Mild", "Moderate", "Severe", "Critical":
	default:
		return errors.Errorf("unknown severity %q", p.Severity)
	}
	if len(p.PossibleConditions) == 0 {
		return errors.New("no possible conditions listed")
	}
	return nil
}
