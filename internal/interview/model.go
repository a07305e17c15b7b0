package interview

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Role identifies who authored a turn.
type Role string

const (
	RolePatient Role = "patient"
	RoleSystem  Role = "system"
)

// Turn is one entry of the interview history.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the caller-held state of one diagnostic interview. The engine
// is stateless between calls: the full history is passed in and returned,
// never persisted server-side.
type Session struct {
	SessionID  string `json:"session_id"`
	Turns      []Turn `json:"history"`
	TurnCount  int    `json:"turn_count"`
	Terminated bool   `json:"terminated"`
}

// Severity is the initial triage assessment.
type Severity string

const (
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// InitialAnalysis is the structured result of analyzing the patient's
// opening complaint.
type InitialAnalysis struct {
	Symptoms            []string `json:"symptoms_identified"`
	PotentialConditions []string `json:"potential_conditions"`
	Severity            Severity `json:"severity_assessment"`
	TriageAdvice        string   `json:"triage_advice"`
}

func (a InitialAnalysis) Validate() error {
	switch a.Severity {
	case SeverityMild, SeverityModerate, SeveritySevere:
	default:
		return errors.Errorf("unknown severity %q", a.Severity)
	}
	if len(a.Symptoms) == 0 {
		return errors.New("no symptoms identified")
	}
	return nil
}

// NextQuestion is one interview question with suggested short answers.
type NextQuestion struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Rationale string   `json:"rationale"`
	IsFinal   bool     `json:"is_final"`
}

func (q NextQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("empty question")
	}
	if len(q.Options) != 4 {
		return errors.Errorf("expected 4 answer options, got %d", len(q.Options))
	}
	return nil
}

// ConditionLikelihood is one differential-diagnosis entry.
type ConditionLikelihood struct {
	Condition   string `json:"condition"`
	Probability string `json:"probability"` // "High", "Moderate", "Low"
	Description string `json:"description"`
}

// FinalSummary closes the interview.
type FinalSummary struct {
	PossibleConditions       []ConditionLikelihood `json:"possible_conditions"`
	Recommendations          []string              `json:"recommendations"`
	SummaryText              string                `json:"summary_text"`
	SpecialistRecommendation string                `json:"specialist_recommendation"`
}

func (s FinalSummary) Validate() error {
	if strings.TrimSpace(s.SummaryText) == "" {
		return errors.New("empty summary text")
	}
	if len(s.PossibleConditions) == 0 {
		return errors.New("no possible conditions listed")
	}
	for i, c := range s.PossibleConditions {
		if strings.TrimSpace(c.Condition) == "" {
			return errors.Errorf("possible condition %d: empty name", i)
		}
	}
	return nil
}
