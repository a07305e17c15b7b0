package entity

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"telemed-ai/internal/web"
)

type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Entities []MedicalEntity `json:"entities"`
}

func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Validation(w, "invalid request body")
		return
	}

	entities, err := h.svc.Extract(r.Context(), req.Text)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}

	web.JSON(w, http.StatusOK, extractResponse{Entities: entities})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/entities/extract", h.HandleExtract)
}
