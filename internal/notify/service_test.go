package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"telemed-ai/internal/consultation"
)

type fakeTelegram struct {
	messages  []string
	documents [][]byte
	sendErr   error
}

func (f *fakeTelegram) SendMessage(_ int64, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeTelegram) SendDocument(_ int64, fileData []byte, _ string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.documents = append(f.documents, fileData)
	return nil
}

type fakeRenderer struct {
	doc []byte
	err error
}

func (f *fakeRenderer) Prescription(_ consultation.Summary, _ consultation.Prescription) ([]byte, error) {
	return f.doc, f.err
}

func testResult() *consultation.Result {
	return &consultation.Result{
		Summary: consultation.Summary{DoctorSummary: "Viral fever, advised rest."},
		Prescription: consultation.Prescription{
			Items: []consultation.Item{
				{Name: "Paracetamol", Dosage: "500mg", DurationDays: 3},
			},
			Contraindications: []string{"Ibuprofen — contraindicated (allergy)"},
		},
	}
}

func TestSendPrescriptionReport_SendsDocument(t *testing.T) {
	tg := &fakeTelegram{}
	svc := NewService(tg, &fakeRenderer{doc: []byte("%PDF")}, 42, zerolog.Nop())

	if err := svc.SendPrescriptionReport(context.Background(), testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tg.documents) != 1 {
		t.Fatalf("expected one document, got %d", len(tg.documents))
	}
	if len(tg.messages) != 0 {
		t.Errorf("no text fallback expected on success, got %q", tg.messages)
	}
}

func TestSendPrescriptionReport_TextFallbackWhenRenderFails(t *testing.T) {
	tg := &fakeTelegram{}
	svc := NewService(tg, &fakeRenderer{err: errors.New("font not found")}, 42, zerolog.Nop())

	if err := svc.SendPrescriptionReport(context.Background(), testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tg.messages) != 1 {
		t.Fatalf("expected one text message, got %d", len(tg.messages))
	}
	msg := tg.messages[0]
	for _, want := range []string{"Viral fever", "Paracetamol 500mg, 3 days", "Ibuprofen — contraindicated (allergy)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("fallback message missing %q:\n%s", want, msg)
		}
	}
}

func TestSendPrescriptionReport_DeliveryFailure(t *testing.T) {
	tg := &fakeTelegram{sendErr: errors.New("bad gateway")}
	svc := NewService(tg, &fakeRenderer{doc: []byte("%PDF")}, 42, zerolog.Nop())

	if err := svc.SendPrescriptionReport(context.Background(), testResult()); err == nil {
		t.Fatal("expected error when delivery fails")
	}
}
