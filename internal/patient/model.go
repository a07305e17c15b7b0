package patient

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Allergy is one known allergen with its reported severity.
type Allergy struct {
	Name     string `json:"name"`
	Severity string `json:"severity"` // "mild", "moderate", "severe"
}

// BasicProfile is the demographics sub-record as stored.
type BasicProfile struct {
	DateOfBirth string  `json:"date_of_birth"` // YYYY-MM-DD
	Gender      string  `json:"gender"`
	BloodGroup  string  `json:"blood_group"`
	HeightCM    float64 `json:"height_cm"`
	WeightKG    float64 `json:"weight_kg"`
}

// MedicalHistory is the historic sub-record as stored.
type MedicalHistory struct {
	ChronicConditions []string `json:"chronic_conditions"`
	PriorSurgeries    []string `json:"prior_surgeries"`
	FamilyHistory     []string `json:"family_history"`
}

// HealthStatus is the current-status sub-record as stored.
type HealthStatus struct {
	CurrentMedications []string  `json:"current_medications"`
	Allergies          []Allergy `json:"allergies"`
	SmokingStatus      string    `json:"smoking_status"`
	AlcoholUse         string    `json:"alcohol_use"`
	ExerciseFrequency  string    `json:"exercise_frequency"`
}

// Record is the raw patient document as held by the store.
type Record struct {
	ID       uuid.UUID
	FullName string
	Profile  BasicProfile
	History  MedicalHistory
	Status   HealthStatus
}

// Lifestyle groups the lifestyle flags carried into prompts.
type Lifestyle struct {
	SmokingStatus     string `json:"smoking_status"`
	AlcoholUse        string `json:"alcohol_use"`
	ExerciseFrequency string `json:"exercise_frequency"`
}

// Context is the immutable, redacted projection of a patient record used by
// prompts. It carries no name and no raw identifiers. Built once per request
// and never mutated afterwards.
type Context struct {
	AgeYears           int       `json:"age_years"`
	Gender             string    `json:"gender"`
	BloodGroup         string    `json:"blood_group"`
	WeightKG           float64   `json:"weight_kg"`
	ChronicConditions  []string  `json:"chronic_conditions"`
	CurrentMedications []string  `json:"current_medications"`
	Allergies          []Allergy `json:"allergies"`
	PriorSurgeries     []string  `json:"prior_surgeries"`
	FamilyHistory      []string  `json:"family_history"`
	Lifestyle          Lifestyle `json:"lifestyle"`
}

// AllergenNames returns the plain allergen names for the safety gate.
func (c Context) AllergenNames() []string {
	names := make([]string, 0, len(c.Allergies))
	for _, a := range c.Allergies {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}

// PromptText renders the context as the textual block injected into prompts.
func (c Context) PromptText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Age: %s\n", orUnknown(intText(c.AgeYears)))
	fmt.Fprintf(&b, "Gender: %s\n", orUnknown(c.Gender))
	fmt.Fprintf(&b, "Blood group: %s\n", orUnknown(c.BloodGroup))
	if c.WeightKG > 0 {
		fmt.Fprintf(&b, "Weight: %.1f kg\n", c.WeightKG)
	}
	fmt.Fprintf(&b, "Chronic conditions: %s\n", listText(c.ChronicConditions))
	fmt.Fprintf(&b, "Current medications: %s\n", listText(c.CurrentMedications))
	fmt.Fprintf(&b, "Allergies: %s\n", allergyText(c.Allergies))
	fmt.Fprintf(&b, "Prior surgeries: %s\n", listText(c.PriorSurgeries))
	fmt.Fprintf(&b, "Family history: %s\n", listText(c.FamilyHistory))
	fmt.Fprintf(&b, "Lifestyle: smoking %s, alcohol %s, exercise %s",
		orUnknown(c.Lifestyle.SmokingStatus),
		orUnknown(c.Lifestyle.AlcoholUse),
		orUnknown(c.Lifestyle.ExerciseFrequency))
	return b.String()
}

func intText(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func listText(items []string) string {
	if len(items) == 0 {
		return "none reported"
	}
	return strings.Join(items, ", ")
}

func allergyText(allergies []Allergy) string {
	if len(allergies) == 0 {
		return "none reported"
	}
	parts := make([]string, 0, len(allergies))
	for _, a := range allergies {
		if a.Severity != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", a.Name, a.Severity))
		} else {
			parts = append(parts, a.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// ageFromDOB computes whole years between dob (YYYY-MM-DD) and now.
// Unparseable or future dates yield 0.
func ageFromDOB(dob string, now time.Time) int {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(dob))
	if err != nil {
		return 0
	}
	years := now.Year() - t.Year()
	anniversary := t.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
