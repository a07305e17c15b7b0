// Package assistant implements the patient-context-primed chat: free-form
// answers grounded in the caller's medical profile, with history held by the
// caller between turns.
package assistant

import (
	"context"
	"strings"

	"telemed-ai/internal/errs"
	"telemed-ai/internal/inference"
	"telemed-ai/internal/patient"
)

const systemInstruction = `You are an advanced AI health assistant for a telemedicine platform.
Your goal is to provide personalized health assistance to patients based on their medical profile.
You have access to the patient's medical profile below.

RULES:
1. Use the patient's specific data to answer questions. If they ask "What meds am I on?", list their actual medications.
2. If you don't have specific data, say so and advise seeing a doctor.
3. DO NOT provide medical diagnoses. You are an assistant, not a doctor. Include a disclaimer for serious symptoms.
4. Be empathetic, professional, and concise.
5. If the user asks about booking appointments, guide them to the appointment section.`

// ChatClient performs a free-form completion over a history of turns.
type ChatClient interface {
	Chat(ctx context.Context, system string, turns []inference.ChatTurn) (string, error)
}

type Service struct {
	llm ChatClient
}

func NewService(llm ChatClient) *Service {
	return &Service{llm: llm}
}

// Chat answers one message given the caller-held history and the assembled
// patient context.
func (s *Service) Chat(ctx context.Context, pctx patient.Context, history []inference.ChatTurn, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errs.New(errs.KindValidation, "message is required")
	}

	system := systemInstruction + "\n\nCURRENT PATIENT PROFILE:\n" + pctx.PromptText()

	turns := make([]inference.ChatTurn, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, inference.ChatTurn{Role: "user", Content: message})

	return s.llm.Chat(ctx, system, turns)
}
