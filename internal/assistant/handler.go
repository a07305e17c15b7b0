package assistant

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"telemed-ai/internal/inference"
	"telemed-ai/internal/patient"
	"telemed-ai/internal/web"
)

// ContextAssembler resolves a patient identifier into a prompt-ready context.
type ContextAssembler interface {
	Assemble(ctx context.Context, patientID string) (patient.Context, error)
}

type Handler struct {
	svc       *Service
	assembler ContextAssembler
	log       zerolog.Logger
}

func NewHandler(svc *Service, assembler ContextAssembler, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, assembler: assembler, log: log}
}

type chatRequest struct {
	PatientID string               `json:"patient_id"`
	Message   string               `json:"message"`
	History   []inference.ChatTurn `json:"history"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Validation(w, "invalid request body")
		return
	}
	if req.PatientID == "" {
		web.Validation(w, "patient_id is required")
		return
	}

	pctx, err := h.assembler.Assemble(r.Context(), req.PatientID)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}

	reply, err := h.svc.Chat(r.Context(), pctx, req.History, req.Message)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}

	web.JSON(w, http.StatusOK, chatResponse{Response: reply})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/assistant/chat", h.HandleChat)
}
