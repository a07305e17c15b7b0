package report

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"telemed-ai/internal/web"
)

var allowedDocExts = map[string]bool{
	".pdf": true, ".png": true, ".jpg": true, ".jpeg": true, ".txt": true,
}

var allowedAudioExts = map[string]bool{
	".mp3": true, ".wav": true, ".ogg": true, ".webm": true, ".m4a": true, ".flac": true,
}

type Handler struct {
	svc            *Service
	extractor      TextExtractor
	maxUploadBytes int64
	log            zerolog.Logger
}

func NewHandler(svc *Service, extractor TextExtractor, maxUploadBytes int64, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, extractor: extractor, maxUploadBytes: maxUploadBytes, log: log}
}

type reportMeta struct {
	FileName     string `json:"file_name,omitempty"`
	FileType     string `json:"file_type,omitempty"`
	FileSize     int    `json:"file_size,omitempty"`
	DocumentType string `json:"document_type"`
	Notes        string `json:"notes,omitempty"`
	UploadedAt   string `json:"uploaded_at"`
}

type analyzeResponse struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	ReportMeta reportMeta `json:"report_meta"`
	Analysis   Analysis   `json:"analysis"`
}

func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		web.Validation(w, "upload too large or malformed")
		return
	}

	documentType := r.FormValue("document_type")
	if documentType == "" {
		web.Validation(w, "document_type is required")
		return
	}

	meta := reportMeta{
		DocumentType: documentType,
		Notes:        r.FormValue("notes"),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	text := r.FormValue("document_text")
	if text == "" {
		file, header, err := r.FormFile("file")
		if err != nil {
			web.Validation(w, "either document_text or a file is required")
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedDocExts[ext] {
			web.Validation(w, "unsupported document type")
			return
		}

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			web.Validation(w, "failed to read upload")
			return
		}

		text, err = h.extractor.ExtractText(r.Context(), buf.Bytes(), strings.TrimPrefix(ext, "."))
		if err != nil {
			web.Error(w, h.log, err)
			return
		}

		meta.FileName = header.Filename
		meta.FileType = strings.TrimPrefix(ext, ".")
		meta.FileSize = buf.Len()
	}

	analysis, err := h.svc.Analyze(r.Context(), text)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}

	web.JSON(w, http.StatusOK, analyzeResponse{
		Success:    true,
		Message:    "Report analyzed successfully.",
		ReportMeta: meta,
		Analysis:   analysis,
	})
}

type preDiagnosisResponse struct {
	Success       bool         `json:"success"`
	SymptomsInput string       `json:"symptoms_input"`
	Diagnosis     PreDiagnosis `json:"diagnosis"`
}

func (h *Handler) HandlePreDiagnosis(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		web.Validation(w, "upload too large or malformed")
		return
	}

	symptoms := r.FormValue("symptoms")

	file, header, err := r.FormFile("audio")
	if err == nil {
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedAudioExts[ext] {
			web.Validation(w, "unsupported audio format")
			return
		}

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			web.Validation(w, "failed to read upload")
			return
		}

		text, diag, err := h.svc.PreDiagnoseAudio(r.Context(), buf.Bytes(), header.Filename)
		if err != nil {
			web.Error(w, h.log, err)
			return
		}
		web.JSON(w, http.StatusOK, preDiagnosisResponse{Success: true, SymptomsInput: text, Diagnosis: diag})
		return
	}

	if symptoms == "" {
		web.Validation(w, "either symptoms text or an audio file must be provided")
		return
	}

	diag, err := h.svc.PreDiagnose(r.Context(), symptoms)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, preDiagnosisResponse{Success: true, SymptomsInput: symptoms, Diagnosis: diag})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/reports/analyze", h.HandleAnalyze)
	r.Post("/pre-diagnosis", h.HandlePreDiagnosis)
}
