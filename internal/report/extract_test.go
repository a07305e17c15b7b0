package report

import (
	"context"
	"testing"

	"telemed-ai/internal/errs"
)

func TestPlainTextExtractor(t *testing.T) {
	text, err := PlainTextExtractor{}.ExtractText(context.Background(), []byte("Hemoglobin: 13.5"), "TXT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hemoglobin: 13.5" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestPlainTextExtractor_RejectsBinaryKinds(t *testing.T) {
	for _, kind := range []string{"pdf", "jpg", "png", "docx"} {
		_, err := PlainTextExtractor{}.ExtractText(context.Background(), []byte{0x25, 0x50}, kind)
		if errs.KindOf(err) != errs.KindValidation {
			t.Errorf("kind %q: expected validation error, got %v", kind, err)
		}
	}
}
