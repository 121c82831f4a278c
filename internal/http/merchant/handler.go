package merchant

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gastos/internal/merchant"
)

type Handler struct {
	svc *merchant.Service
}

func NewHandler(svc *merchant.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/candidates", h.candidates)
}

type merchantResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	IssuerID string    `json:"issuer_id,omitempty"`
	Category string    `json:"category,omitempty"`
}

func (h *Handler) candidates(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		http.Error(w, "missing q", http.StatusBadRequest)
		return
	}

	found, err := h.svc.FindCandidates(r.Context(), term)
	if err != nil {
		slog.Error("failed to search merchants", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]merchantResponse, len(found))
	for i, m := range found {
		resp[i] = merchantResponse{ID: m.ID, Name: m.Name, IssuerID: m.IssuerID, Category: m.Category}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
