package consultation

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"telemed-ai/internal/inference"
	"telemed-ai/internal/patient"
)

type fakeAssembler struct{}

func (fakeAssembler) Assemble(_ context.Context, _ string) (patient.Context, error) {
	return patient.Context{}, nil
}

func multipartUpload(t *testing.T, patientID, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if patientID != "" {
		if err := mw.WriteField("patient_id", patientID); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte("audio bytes")); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, mw.FormDataContentType()
}

func newTestHandler(t *testing.T, completer inference.Completer, transcriber Transcriber) *Handler {
	t.Helper()
	return NewHandler(newTestPipeline(t, transcriber, completer), fakeAssembler{}, nil, 1<<20, zerolog.Nop())
}

func TestHandleProcess_MissingPatientID(t *testing.T) {
	h := newTestHandler(t, &scriptedCompleter{}, &fakeTranscriber{})
	body, ct := multipartUpload(t, "", "visit.mp3")

	req := httptest.NewRequest(http.MethodPost, "/consultation/process", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.HandleProcess(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleProcess_UnsupportedAudioFormat(t *testing.T) {
	h := newTestHandler(t, &scriptedCompleter{}, &fakeTranscriber{})
	body, ct := multipartUpload(t, "some-id", "notes.pdf")

	req := httptest.NewRequest(http.MethodPost, "/consultation/process", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.HandleProcess(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleProcess_StageFailureResponseShape(t *testing.T) {
	transcript := strings.Repeat("doctor and patient talk ", 5)
	// Summarize stage gets a non-JSON reply and fails.
	h := newTestHandler(t, &scriptedCompleter{replies: []string{"not json"}}, &fakeTranscriber{text: transcript})
	body, ct := multipartUpload(t, "some-id", "visit.mp3")

	req := httptest.NewRequest(http.MethodPost, "/consultation/process", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.HandleProcess(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
		Stage         string `json:"stage"`
		Transcription string `json:"transcription"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Error.Code != "processing_failed" {
		t.Errorf("unexpected code %q", resp.Error.Code)
	}
	if resp.Stage != string(StageSummarize) {
		t.Errorf("expected summarize stage, got %q", resp.Stage)
	}
	if resp.Transcription != strings.TrimSpace(transcript) {
		t.Errorf("response must carry the transcript, got %q", resp.Transcription)
	}
}

func TestHandleProcess_Success(t *testing.T) {
	items := `[{"name": "Paracetamol", "generic_name": "", "dosage": "500mg",
		"schedule": {"morning": true, "afternoon": false, "night": true},
		"duration_days": 3, "instructions": "", "warnings": ""}]`
	completer := &scriptedCompleter{replies: []string{validSummary, prescriptionJSON(items)}}
	h := newTestHandler(t, completer, &fakeTranscriber{text: strings.Repeat("consultation audio ", 5)})
	body, ct := multipartUpload(t, "some-id", "visit.mp3")

	req := httptest.NewRequest(http.MethodPost, "/consultation/process", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.HandleProcess(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(res.Prescription.Items) != 1 {
		t.Errorf("unexpected prescription: %+v", res.Prescription)
	}
}
