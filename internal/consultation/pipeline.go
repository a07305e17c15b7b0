// Package consultation turns a recorded doctor-patient consultation into a
// safety-checked prescription: transcribe, summarize, prescribe, then a
// deterministic allergy gate. Stages run strictly in order; a failed stage
// short-circuits and reports itself along with whatever earlier stages
// produced.
package consultation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telemed-ai/internal/errs"
	"telemed-ai/internal/inference"
	"telemed-ai/internal/patient"
)

// Stage names one pipeline step.
type Stage string

const (
	StageTranscribe Stage = "transcribe"
	StageSummarize  Stage = "summarize"
	StagePrescribe  Stage = "prescribe"
)

// StageError reports which stage failed and carries the partial results of
// the stages that already succeeded, so the caller can retry just the failed
// stage.
type StageError struct {
	Stage      Stage
	Err        error
	Transcript string
	Summary    *Summary
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Transcriber is the external speech-to-text capability.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Notifier pushes a finished consultation to the doctor. Optional.
type Notifier interface {
	SendPrescriptionReport(ctx context.Context, res *Result) error
}

type Pipeline struct {
	transcriber        Transcriber
	gw                 *inference.Gateway
	notifier           Notifier
	minTranscriptChars int
	now                func() time.Time
	log                zerolog.Logger
}

func NewPipeline(transcriber Transcriber, gw *inference.Gateway, notifier Notifier, minTranscriptChars int, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		transcriber:        transcriber,
		gw:                 gw,
		notifier:           notifier,
		minTranscriptChars: minTranscriptChars,
		now:                time.Now,
		log:                log,
	}
}

// Process runs all stages for one consultation recording. History-aware
// prescription generation is mandatory: the prescribe stage always receives
// the assembled patient context.
func (p *Pipeline) Process(ctx context.Context, audio []byte, filename string, pctx patient.Context) (*Result, error) {
	transcript, err := p.transcribe(ctx, audio, filename)
	if err != nil {
		return nil, &StageError{Stage: StageTranscribe, Err: err}
	}

	summary, err := p.summarize(ctx, transcript)
	if err != nil {
		return nil, &StageError{Stage: StageSummarize, Err: err, Transcript: transcript}
	}

	rx, err := p.prescribe(ctx, summary, pctx)
	if err != nil {
		return nil, &StageError{Stage: StagePrescribe, Err: err, Transcript: transcript, Summary: &summary}
	}

	// Safety gate: deterministic, auditable backstop independent of the
	// inference output.
	rx = applySafetyGate(rx, pctx.AllergenNames())

	// The follow-up date is computed here, never taken from the model. It
	// stays null when the doctor gave explicit follow-up instructions.
	rx.FollowUpDate = nil
	if len(summary.FollowUpInstructions) == 0 {
		rx.FollowUpDate = followUpDate(p.now(), rx.Items)
	}

	res := &Result{Transcript: transcript, Summary: summary, Prescription: rx}

	if p.notifier != nil {
		go p.notifyDoctor(res)
	}

	return res, nil
}

func (p *Pipeline) transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	text, err := p.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return "", errs.Wrap(errs.KindTranscription, err, "transcribe consultation")
	}
	text = strings.TrimSpace(text)
	if len(text) < p.minTranscriptChars {
		return "", errs.Newf(errs.KindTranscription, "transcript too short (%d chars, need %d)", len(text), p.minTranscriptChars)
	}
	return text, nil
}

func (p *Pipeline) summarize(ctx context.Context, transcript string) (Summary, error) {
	return inference.Invoke[Summary](ctx, p.gw, inference.Contract{
		Name:   "consultation-summary",
		System: summarizeSystem,
		User:   summarizeUser,
		Vars:   struct{ Transcript string }{Transcript: transcript},
	})
}

func (p *Pipeline) prescribe(ctx context.Context, summary Summary, pctx patient.Context) (Prescription, error) {
	return inference.Invoke[Prescription](ctx, p.gw, inference.Contract{
		Name:   "prescription",
		System: prescribeSystem,
		User:   prescribeUser,
		Vars: struct {
			PatientContext string
			DoctorSummary  string
			Diagnosis      string
			Medications    string
			Notes          string
		}{
			PatientContext: pctx.PromptText(),
			DoctorSummary:  summary.DoctorSummary,
			Diagnosis:      summary.DiagnosisDiscussed,
			Medications:    strings.Join(summary.MedicationsMentioned, ", "),
			Notes:          strings.Join(summary.ImportantNotes, "; "),
		},
	})
}

// applySafetyGate removes every item whose name or generic name matches a
// known allergen (case-insensitive) and records the exclusion under
// contraindications. Relying on the inference output alone for this
// invariant is unacceptable.
func applySafetyGate(rx Prescription, allergens []string) Prescription {
	if len(allergens) == 0 || len(rx.Items) == 0 {
		return rx
	}

	kept := make([]Item, 0, len(rx.Items))
	for _, item := range rx.Items {
		allergen := matchAllergen(item, allergens)
		if allergen == "" {
			kept = append(kept, item)
			continue
		}
		rx.Contraindications = append(rx.Contraindications,
			fmt.Sprintf("%s — contraindicated (allergy)", allergen))
	}
	rx.Items = kept
	return rx
}

func matchAllergen(item Item, allergens []string) string {
	name := strings.ToLower(item.Name)
	generic := strings.ToLower(item.GenericName)
	for _, a := range allergens {
		al := strings.ToLower(strings.TrimSpace(a))
		if al == "" {
			continue
		}
		if strings.Contains(name, al) || strings.Contains(generic, al) {
			return a
		}
	}
	return ""
}

// followUpDate is sessionDate plus the longest course among the prescribed
// items. Nil when there is nothing to schedule.
func followUpDate(sessionDate time.Time, items []Item) *Date {
	maxDays := 0
	for _, item := range items {
		if item.DurationDays > maxDays {
			maxDays = item.DurationDays
		}
	}
	if maxDays == 0 {
		return nil
	}
	return &Date{Time: sessionDate.AddDate(0, 0, maxDays)}
}

// notifyDoctor runs detached from the request: the caller already has its
// response, and a notification failure must never surface to them.
func (p *Pipeline) notifyDoctor(res *Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := p.notifier.SendPrescriptionReport(ctx, res); err != nil {
		p.log.Error().Err(err).Msg("doctor notification failed")
	}
}
