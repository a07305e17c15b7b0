package assistant

import (
	"context"
	"strings"
	"testing"

	"telemed-ai/internal/errs"
	"telemed-ai/internal/inference"
	"telemed-ai/internal/patient"
)

type fakeChat struct {
	reply     string
	gotSystem string
	gotTurns  []inference.ChatTurn
}

func (f *fakeChat) Chat(_ context.Context, system string, turns []inference.ChatTurn) (string, error) {
	f.gotSystem = system
	f.gotTurns = turns
	return f.reply, nil
}

func TestChat_PrimesSystemWithPatientProfile(t *testing.T) {
	fake := &fakeChat{reply: "You are currently taking salbutamol."}
	svc := NewService(fake)

	pctx := patient.Context{CurrentMedications: []string{"salbutamol"}}
	reply, err := svc.Chat(context.Background(), pctx, nil, "What meds am I on?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply == "" {
		t.Error("expected a reply")
	}
	if !strings.Contains(fake.gotSystem, "salbutamol") {
		t.Errorf("system prompt missing patient profile:\n%s", fake.gotSystem)
	}
}

func TestChat_AppendsMessageAfterHistory(t *testing.T) {
	fake := &fakeChat{reply: "ok"}
	svc := NewService(fake)

	history := []inference.ChatTurn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi, how can I help?"},
	}
	_, err := svc.Chat(context.Background(), patient.Context{}, history, "I have a question")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.gotTurns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(fake.gotTurns))
	}
	last := fake.gotTurns[2]
	if last.Role != "user" || last.Content != "I have a question" {
		t.Errorf("unexpected final turn: %+v", last)
	}
}

func TestChat_EmptyMessageRejected(t *testing.T) {
	svc := NewService(&fakeChat{})

	_, err := svc.Chat(context.Background(), patient.Context{}, nil, "  ")
	if errs.KindOf(err) != errs.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}
