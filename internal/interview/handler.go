package interview

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"telemed-ai/internal/patient"
	"telemed-ai/internal/web"
)

// ContextAssembler resolves a patient identifier into a prompt-ready context.
type ContextAssembler interface {
	Assemble(ctx context.Context, patientID string) (patient.Context, error)
}

type Handler struct {
	engine    *Engine
	assembler ContextAssembler
	log       zerolog.Logger
}

func NewHandler(engine *Engine, assembler ContextAssembler, log zerolog.Logger) *Handler {
	return &Handler{engine: engine, assembler: assembler, log: log}
}

type initialProblemRequest struct {
	ProblemText string `json:"problem_text"`
}

func (h *Handler) HandleInitialProblem(w http.ResponseWriter, r *http.Request) {
	var req initialProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Validation(w, "invalid request body")
		return
	}

	analysis, err := h.engine.AnalyzeInitialProblem(r.Context(), req.ProblemText)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}

	web.JSON(w, http.StatusOK, analysis)
}

type turnRequest struct {
	PatientID string  `json:"patient_id"`
	Session   Session `json:"session"`
}

type nextQuestionResponse struct {
	Question NextQuestion `json:"question"`
	Session  Session      `json:"session"`
}

func (h *Handler) HandleNextQuestion(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Validation(w, "invalid request body")
		return
	}

	pctx, err := h.assembler.Assemble(r.Context(), req.PatientID)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}

	q, sess, err := h.engine.NextQuestion(r.Context(), req.Session, pctx)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}

	web.JSON(w, http.StatusOK, nextQuestionResponse{Question: q, Session: sess})
}

type finalSummaryResponse struct {
	Summary FinalSummary `json:"summary"`
	Session Session      `json:"session"`
}

func (h *Handler) HandleFinalSummary(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Validation(w, "invalid request body")
		return
	}

	pctx, err := h.assembler.Assemble(r.Context(), req.PatientID)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}

	summary, sess, err := h.engine.FinalSummary(r.Context(), req.Session, pctx)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}

	web.JSON(w, http.StatusOK, finalSummaryResponse{Summary: summary, Session: sess})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/interview/initial-problem", h.HandleInitialProblem)
	r.Post("/interview/next-question", h.HandleNextQuestion)
	r.Post("/interview/final-summary", h.HandleFinalSummary)
}
