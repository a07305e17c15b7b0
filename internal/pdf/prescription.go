// Package pdf renders printable documents for doctors and patients.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"telemed-ai/internal/consultation"
)

// Try multiple common paths so the same binary works on Alpine and Debian
// base images.
var fontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Prescription renders the consultation summary and gated prescription as a
// single-page document.
func (r *Renderer) Prescription(summary consultation.Summary, rx consultation.Prescription) ([]byte, error) {
	doc := gopdf.GoPdf{}
	doc.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	doc.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := doc.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load font for PDF, ensure ttf-dejavu is installed: %w", fontErr)
	}

	if err := doc.SetFont("DejaVu", "", 20); err != nil {
		return nil, err
	}
	doc.Cell(nil, "Prescription")
	doc.Br(30)

	if err := doc.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	doc.Cell(nil, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006 15:04")))
	doc.Br(15)
	if rx.FollowUpDate != nil {
		doc.Cell(nil, fmt.Sprintf("Follow-up: %s", rx.FollowUpDate.Format("02.01.2006")))
		doc.Br(15)
	}
	doc.Br(10)

	if err := doc.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	doc.Cell(nil, "Summary:")
	doc.Br(15)
	if err := doc.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	writeWrapped(&doc, summary.PatientSummary)
	doc.Br(10)

	if err := doc.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	doc.Cell(nil, "Medicines:")
	doc.Br(15)
	if err := doc.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	if len(rx.Items) == 0 {
		doc.Cell(nil, "- No medicines prescribed.")
		doc.Br(15)
	}
	for _, item := range rx.Items {
		line := fmt.Sprintf("- %s (%s), %s, %s, %d days. %s",
			item.Name, item.GenericName, item.Dosage, scheduleText(item.Schedule),
			item.DurationDays, item.Instructions)
		writeWrapped(&doc, line)
		if item.Warnings != "" {
			writeWrapped(&doc, "  Warning: "+item.Warnings)
		}
		doc.Br(5)
	}
	doc.Br(10)

	if len(rx.Contraindications) > 0 {
		if err := doc.SetFont("DejaVu", "", 14); err != nil {
			return nil, err
		}
		doc.Cell(nil, "Contraindications:")
		doc.Br(15)
		if err := doc.SetFont("DejaVu", "", 11); err != nil {
			return nil, err
		}
		for _, c := range rx.Contraindications {
			writeWrapped(&doc, "- "+c)
		}
		doc.Br(10)
	}

	if len(rx.AdditionalInstructions) > 0 {
		if err := doc.SetFont("DejaVu", "", 14); err != nil {
			return nil, err
		}
		doc.Cell(nil, "Additional instructions:")
		doc.Br(15)
		if err := doc.SetFont("DejaVu", "", 11); err != nil {
			return nil, err
		}
		for _, inst := range rx.AdditionalInstructions {
			writeWrapped(&doc, "- "+inst)
		}
	}

	doc.SetY(270)
	if err := doc.SetFont("DejaVu", "", 9); err != nil {
		return nil, err
	}
	doc.Cell(nil, "Generated from a recorded consultation. Verify before dispensing.")

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeWrapped(doc *gopdf.GoPdf, text string) {
	lines, _ := doc.SplitText(text, 500)
	for _, l := range lines {
		doc.Cell(nil, l)
		doc.Br(12)
	}
}

func scheduleText(s consultation.Schedule) string {
	slots := make([]string, 0, 3)
	if s.Morning {
		slots = append(slots, "morning")
	}
	if s.Afternoon {
		slots = append(slots, "afternoon")
	}
	if s.Night {
		slots = append(slots, "night")
	}
	if len(slots) == 0 {
		return "as directed"
	}
	return strings.Join(slots, "/")
}
