// Package interview drives a bounded multi-turn diagnostic interview from an
// initial complaint to a final summary. The engine holds no session state:
// the caller submits the full history each turn and receives it back.
package interview

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telemed-ai/internal/entity"
	"telemed-ai/internal/errs"
	"telemed-ai/internal/inference"
	"telemed-ai/internal/patient"
)

// EntityExtractor supplies detected keywords for prompt enrichment.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) ([]entity.MedicalEntity, error)
}

type Engine struct {
	gw        *inference.Gateway
	extractor EntityExtractor
	turnCap   int
	now       func() time.Time
	log       zerolog.Logger
}

// NewEngine builds the engine. turnCap is the hard ceiling on question turns
// after which termination is forced regardless of the model's answer.
func NewEngine(gw *inference.Gateway, extractor EntityExtractor, turnCap int, log zerolog.Logger) *Engine {
	return &Engine{
		gw:        gw,
		extractor: extractor,
		turnCap:   turnCap,
		now:       time.Now,
		log:       log,
	}
}

// AnalyzeInitialProblem runs the opening analysis of a free-text complaint.
func (e *Engine) AnalyzeInitialProblem(ctx context.Context, problemText string) (InitialAnalysis, error) {
	if strings.TrimSpace(problemText) == "" {
		return InitialAnalysis{}, errs.New(errs.KindValidation, "problem_text is required")
	}
	return inference.Invoke[InitialAnalysis](ctx, e.gw, inference.Contract{
		Name:   "initial-problem",
		System: initialSystem,
		User:   initialUser,
		Vars:   struct{ ProblemText string }{ProblemText: problemText},
	})
}

// NextQuestion produces the next interview question for the submitted
// session. The "do not repeat" rule is a soft instruction to the model; the
// turn cap is authoritative and forces IsFinal once reached, so repeated
// calls always terminate. The returned session has the question appended and
// the turn count advanced by one.
func (e *Engine) NextQuestion(ctx context.Context, sess Session, pctx patient.Context) (NextQuestion, Session, error) {
	if sess.Terminated {
		return NextQuestion{}, sess, errs.New(errs.KindValidation, "session is already terminated")
	}

	q, err := inference.Invoke[NextQuestion](ctx, e.gw, inference.Contract{
		Name:   "next-question",
		System: nextQuestionSystem,
		User:   nextQuestionUser,
		Vars: struct {
			PatientContext string
			Keywords       string
			Conversation   string
		}{
			PatientContext: pctx.PromptText(),
			Keywords:       e.detectedKeywords(ctx, sess),
			Conversation:   conversationText(sess.Turns),
		},
	})
	if err != nil {
		return NextQuestion{}, sess, err
	}

	sess.TurnCount++
	if sess.TurnCount >= e.turnCap {
		q.IsFinal = true
	}
	sess.Turns = append(sess.Turns, Turn{
		Role:      RoleSystem,
		Content:   q.Question,
		Timestamp: e.now(),
	})
	return q, sess, nil
}

// FinalSummary closes the interview and marks the session terminated.
func (e *Engine) FinalSummary(ctx context.Context, sess Session, pctx patient.Context) (FinalSummary, Session, error) {
	if len(sess.Turns) == 0 {
		return FinalSummary{}, sess, errs.New(errs.KindValidation, "session has no history")
	}

	summary, err := inference.Invoke[FinalSummary](ctx, e.gw, inference.Contract{
		Name:   "final-summary",
		System: finalSummarySystem,
		User:   finalSummaryUser,
		Vars: struct {
			PatientContext string
			Conversation   string
		}{
			PatientContext: pctx.PromptText(),
			Conversation:   conversationText(sess.Turns),
		},
	})
	if err != nil {
		return FinalSummary{}, sess, err
	}

	sess.Terminated = true
	return summary, sess, nil
}

// detectedKeywords extracts entities from the latest patient answer. The
// keywords are a prompt hint, so extraction failures are logged and the turn
// proceeds without them.
func (e *Engine) detectedKeywords(ctx context.Context, sess Session) string {
	last := lastPatientTurn(sess.Turns)
	if last == "" || e.extractor == nil {
		return "none"
	}
	entities, err := e.extractor.Extract(ctx, last)
	if err != nil {
		e.log.Warn().Err(err).Str("session_id", sess.SessionID).Msg("keyword extraction failed, continuing without")
		return "none"
	}
	if len(entities) == 0 {
		return "none"
	}
	words := make([]string, 0, len(entities))
	for _, ent := range entities {
		words = append(words, ent.Text)
	}
	return strings.Join(words, ", ")
}

func lastPatientTurn(turns []Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RolePatient {
			return turns[i].Content
		}
	}
	return ""
}

func conversationText(turns []Turn) string {
	if len(turns) == 0 {
		return "(no prior exchange)"
	}
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	return b.String()
}
