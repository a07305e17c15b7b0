package consultation

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Summary is the structured consultation summary derived from a transcript.
// Immutable once produced.
type Summary struct {
	DoctorSummary        string   `json:"doctor_summary"`
	PatientSummary       string   `json:"patient_summary"`
	KeySymptoms          []string `json:"key_symptoms"`
	DiagnosisDiscussed   string   `json:"diagnosis_discussed"`
	MedicationsMentioned []string `json:"medications_mentioned"`
	FollowUpInstructions []string `json:"follow_up_instructions"`
	ImportantNotes       []string `json:"important_notes"`
}

func (s Summary) Validate() error {
	if strings.TrimSpace(s.DoctorSummary) == "" {
		return errors.New("empty doctor summary")
	}
	if strings.TrimSpace(s.PatientSummary) == "" {
		return errors.New("empty patient summary")
	}
	return nil
}

// Schedule marks the daily dosing slots.
type Schedule struct {
	Morning   bool `json:"morning"`
	Afternoon bool `json:"afternoon"`
	Night     bool `json:"night"`
}

// Item is one prescribed medicine.
type Item struct {
	Name         string   `json:"name"`
	GenericName  string   `json:"generic_name"`
	Dosage       string   `json:"dosage"`
	Schedule     Schedule `json:"schedule"`
	DurationDays int      `json:"duration_days"`
	Instructions string   `json:"instructions"`
	Warnings     string   `json:"warnings"`
}

// Date marshals as a plain YYYY-MM-DD value on the wire.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Prescription is the safety-gated output of the prescribe stage. The
// follow-up date is computed deterministically by the pipeline, never by
// inference.
type Prescription struct {
	Items                  []Item   `json:"medicines"`
	FollowUpDate           *Date    `json:"follow_up_date"`
	AdditionalInstructions []string `json:"additional_instructions"`
	Contraindications      []string `json:"contraindications"`
}

func (p Prescription) Validate() error {
	for i, item := range p.Items {
		if strings.TrimSpace(item.Name) == "" {
			return errors.Errorf("medicine %d: empty name", i)
		}
		if item.DurationDays <= 0 {
			return errors.Errorf("medicine %d (%s): duration_days must be positive", i, item.Name)
		}
	}
	return nil
}

// Result is the full pipeline output.
type Result struct {
	Transcript   string       `json:"transcription"`
	Summary      Summary      `json:"summary"`
	Prescription Prescription `json:"prescription"`
}
