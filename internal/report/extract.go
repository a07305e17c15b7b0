package report

import (
	"context"
	"strings"

	"telemed-ai/internal/errs"
)

// TextExtractor is the boundary to the external OCR/text-extraction
// collaborator: file bytes plus a kind hint in, plain text out.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, kind string) (string, error)
}

// PlainTextExtractor handles uploads that are already text. Scanned
// documents (pdf, images) are extracted by the external OCR service before
// they reach this system; rejecting them here keeps that contract explicit.
type PlainTextExtractor struct{}

func (PlainTextExtractor) ExtractText(_ context.Context, data []byte, kind string) (string, error) {
	switch strings.ToLower(kind) {
	case "txt", "text":
		return string(data), nil
	default:
		return "", errs.Newf(errs.KindValidation, "file kind %q requires the external text-extraction service; submit document_text instead", kind)
	}
}
