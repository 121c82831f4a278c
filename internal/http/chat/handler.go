// Package chat exposes the reconciliation bot over REST and a websocket.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/bot"
)

const maxUpload = 10 << 20

type Bot interface {
	ProcessText(ctx context.Context, userID uuid.UUID, text string) (string, error)
	ProcessImage(ctx context.Context, userID uuid.UUID, image []byte) (string, error)
	ProcessDocument(ctx context.Context, userID uuid.UUID, r io.Reader) (string, error)
}

type Handler struct {
	bot      Bot
	upgrader websocket.Upgrader
}

// NewHandler accepts websocket upgrades from any origin; callers are
// authenticated by token, not by cookie.
func NewHandler(b Bot) *Handler {
	return &Handler{
		bot: b,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/text", h.text)
	r.Post("/image", h.image)
	r.Post("/document", h.document)
	r.Get("/ws", h.serveWS)
}

type replyResponse struct {
	Reply string `json:"reply"`
}

// respond writes the bot's reply. Failures still produce a reply the user can
// read, with a 500 status so clients can tell them apart.
func respond(w http.ResponseWriter, reply string, err error) {
	status := http.StatusOK
	if err != nil {
		slog.Error("failed to process message", "error", err)

		status = http.StatusInternalServerError
		reply = bot.ReplyFailure
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(replyResponse{Reply: reply}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type textRequest struct {
	Text string `json:"text"`
}

func (h *Handler) text(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reply, err := h.bot.ProcessText(r.Context(), u.ID, req.Text)
	respond(w, reply, err)
}

func formFile(w http.ResponseWriter, r *http.Request, field string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+1<<20)

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	file, _, err := r.FormFile(field)
	if err != nil {
		http.Error(w, "missing "+field, http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read "+field, http.StatusBadRequest)
		return nil, false
	}

	return data, true
}

func (h *Handler) image(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	data, ok := formFile(w, r, "image")
	if !ok {
		return
	}

	reply, err := h.bot.ProcessImage(r.Context(), u.ID, data)
	respond(w, reply, err)
}

func (h *Handler) document(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	data, ok := formFile(w, r, "document")
	if !ok {
		return
	}

	reply, err := h.bot.ProcessDocument(r.Context(), u.ID, bytes.NewReader(data))
	respond(w, reply, err)
}
