package consultation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"telemed-ai/internal/errs"
	"telemed-ai/internal/patient"
	"telemed-ai/internal/web"
)

var allowedAudioExts = map[string]bool{
	".mp3": true, ".wav": true, ".ogg": true, ".webm": true, ".m4a": true, ".flac": true,
}

// ContextAssembler resolves a patient identifier into a prompt-ready context.
type ContextAssembler interface {
	Assemble(ctx context.Context, patientID string) (patient.Context, error)
}

// Renderer produces the printable prescription document.
type Renderer interface {
	Prescription(summary Summary, rx Prescription) ([]byte, error)
}

type Handler struct {
	pipeline       *Pipeline
	assembler      ContextAssembler
	renderer       Renderer
	maxUploadBytes int64
	log            zerolog.Logger
}

func NewHandler(pipeline *Pipeline, assembler ContextAssembler, renderer Renderer, maxUploadBytes int64, log zerolog.Logger) *Handler {
	return &Handler{
		pipeline:       pipeline,
		assembler:      assembler,
		renderer:       renderer,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// stageFailureResponse carries the failed stage and whatever prior stages
// produced, so the caller can retry just the failed stage.
type stageFailureResponse struct {
	Error         web.ErrorBody `json:"error"`
	Stage         Stage         `json:"stage"`
	Transcription string        `json:"transcription,omitempty"`
	Summary       *Summary      `json:"summary,omitempty"`
}

func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		web.Validation(w, "upload too large or malformed")
		return
	}

	patientID := r.FormValue("patient_id")
	if patientID == "" {
		web.Validation(w, "patient_id is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		web.Validation(w, "audio file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAudioExts[ext] {
		web.Validation(w, "unsupported audio format")
		return
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		web.Error(w, h.log, errs.Wrap(errs.KindValidation, err, "read audio upload"))
		return
	}

	pctx, err := h.assembler.Assemble(r.Context(), patientID)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}

	res, err := h.pipeline.Process(r.Context(), buf.Bytes(), header.Filename, pctx)
	if err != nil {
		var se *StageError
		if errors.As(err, &se) {
			h.log.Error().Err(se.Err).Str("stage", string(se.Stage)).Msg("consultation pipeline failed")
			web.JSON(w, http.StatusInternalServerError, stageFailureResponse{
				Error:         web.ErrorBody{Code: "processing_failed", Message: "processing failed"},
				Stage:         se.Stage,
				Transcription: se.Transcript,
				Summary:       se.Summary,
			})
			return
		}
		web.Error(w, h.log, err)
		return
	}

	web.JSON(w, http.StatusOK, res)
}

type pdfRequest struct {
	Summary      Summary      `json:"summary"`
	Prescription Prescription `json:"prescription"`
}

func (h *Handler) HandlePrescriptionPDF(w http.ResponseWriter, r *http.Request) {
	var req pdfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Validation(w, "invalid request body")
		return
	}

	doc, err := h.renderer.Prescription(req.Summary, req.Prescription)
	if err != nil {
		web.Error(w, h.log, errs.Wrap(errs.KindExternalService, err, "render prescription pdf"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="prescription.pdf"`)
	_, _ = w.Write(doc)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/consultation/process", h.HandleProcess)
	r.Post("/prescriptions/pdf", h.HandlePrescriptionPDF)
}
