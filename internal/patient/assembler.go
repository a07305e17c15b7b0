// Package patient projects stored patient records into the immutable,
// redacted context that prompts consume. Records are fetched fresh on every
// request; stale medical data is never served from a cache.
package patient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"telemed-ai/internal/errs"
)

type Assembler struct {
	store Store
	now   func() time.Time
}

func NewAssembler(store Store) *Assembler {
	return &Assembler{store: store, now: time.Now}
}

// Assemble resolves patientID and builds the context. A malformed identifier
// short-circuits to not-found without touching the store. Missing sub-records
// default to empty values so prompt text never carries nulls.
func (a *Assembler) Assemble(ctx context.Context, patientID string) (Context, error) {
	id, err := uuid.Parse(patientID)
	if err != nil {
		return Context{}, errs.New(errs.KindNotFound, "patient record not found")
	}

	rec, err := a.store.GetByID(ctx, id)
	if err != nil {
		return Context{}, err
	}

	pc := Context{
		AgeYears:           ageFromDOB(rec.Profile.DateOfBirth, a.now()),
		Gender:             rec.Profile.Gender,
		BloodGroup:         rec.Profile.BloodGroup,
		WeightKG:           rec.Profile.WeightKG,
		ChronicConditions:  emptyIfNil(rec.History.ChronicConditions),
		CurrentMedications: emptyIfNil(rec.Status.CurrentMedications),
		PriorSurgeries:     emptyIfNil(rec.History.PriorSurgeries),
		FamilyHistory:      emptyIfNil(rec.History.FamilyHistory),
		Lifestyle: Lifestyle{
			SmokingStatus:     rec.Status.SmokingStatus,
			AlcoholUse:        rec.Status.AlcoholUse,
			ExerciseFrequency: rec.Status.ExerciseFrequency,
		},
	}
	pc.Allergies = make([]Allergy, len(rec.Status.Allergies))
	copy(pc.Allergies, rec.Status.Allergies)
	return pc, nil
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
