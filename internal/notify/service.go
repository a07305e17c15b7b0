// Package notify pushes finished consultation results to the doctor's
// Telegram chat as a rendered PDF.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telemed-ai/internal/consultation"
)

// TelegramClient is the messaging boundary.
type TelegramClient interface {
	SendMessage(chatID int64, text string) error
	SendDocument(chatID int64, fileData []byte, fileName string) error
}

// Renderer produces the printable prescription document.
type Renderer interface {
	Prescription(summary consultation.Summary, rx consultation.Prescription) ([]byte, error)
}

type Service struct {
	tg           TelegramClient
	renderer     Renderer
	doctorChatID int64
	log          zerolog.Logger
}

func NewService(tg TelegramClient, renderer Renderer, doctorChatID int64, log zerolog.Logger) *Service {
	return &Service{
		tg:           tg,
		renderer:     renderer,
		doctorChatID: doctorChatID,
		log:          log,
	}
}

// SendPrescriptionReport renders the result and delivers it to the doctor
// chat. If rendering fails (e.g. fonts missing on the host), the doctor
// still gets a plain-text summary. Called detached from the request path;
// errors are the caller's to log, never the patient's to see.
func (s *Service) SendPrescriptionReport(ctx context.Context, res *consultation.Result) error {
	doc, err := s.renderer.Prescription(res.Summary, res.Prescription)
	if err != nil {
		s.log.Warn().Err(err).Msg("prescription render failed, falling back to text summary")
		if err := s.tg.SendMessage(s.doctorChatID, textSummary(res)); err != nil {
			return fmt.Errorf("send prescription summary: %w", err)
		}
		s.log.Info().Int64("chat_id", s.doctorChatID).Msg("text summary sent to doctor")
		return nil
	}

	fileName := fmt.Sprintf("prescription_%s.pdf", time.Now().Format("20060102_150405"))
	if err := s.tg.SendDocument(s.doctorChatID, doc, fileName); err != nil {
		return fmt.Errorf("send prescription report: %w", err)
	}

	s.log.Info().Int64("chat_id", s.doctorChatID).Msg("prescription report sent to doctor")
	return nil
}

func textSummary(res *consultation.Result) string {
	var b strings.Builder
	b.WriteString("New consultation processed.\n\n")
	b.WriteString("Summary: ")
	b.WriteString(res.Summary.DoctorSummary)
	b.WriteString("\n\nMedicines:\n")
	if len(res.Prescription.Items) == 0 {
		b.WriteString("- none prescribed\n")
	}
	for _, item := range res.Prescription.Items {
		fmt.Fprintf(&b, "- %s %s, %d days\n", item.Name, item.Dosage, item.DurationDays)
	}
	for _, c := range res.Prescription.Contraindications {
		b.WriteString("Contraindication: ")
		b.WriteString(c)
		b.WriteString("\n")
	}
	return b.String()
}
