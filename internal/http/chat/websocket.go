package chat

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/bot"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// Base64 inflates an upload by a third.
	maxFrame = maxUpload/3*4 + 4096
)

const (
	frameText     = "text"
	frameImage    = "image"
	frameDocument = "document"
	frameReply    = "reply"
	frameError    = "error"
)

type inFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Data string `json:"data,omitempty"`
}

type outFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type session struct {
	conn   *websocket.Conn
	send   chan outFrame
	closed chan struct{}
}

// serveWS runs one chat session. Frames are handled one at a time so a user's
// turns reach the bot in the order they were sent.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	s := &session{conn: conn, send: make(chan outFrame, 8), closed: make(chan struct{})}

	go s.writePump()

	s.readPump(r.Context(), func(ctx context.Context, f inFrame) outFrame {
		return h.handleFrame(ctx, u.ID, f)
	})

	close(s.send)
	<-s.closed
}

func (h *Handler) handleFrame(ctx context.Context, userID uuid.UUID, f inFrame) outFrame {
	var (
		reply string
		err   error
	)

	switch f.Type {
	case frameText:
		reply, err = h.bot.ProcessText(ctx, userID, f.Text)
	case frameImage, frameDocument:
		data, decErr := base64.StdEncoding.DecodeString(f.Data)
		if decErr != nil || len(data) == 0 {
			return outFrame{Type: frameError, Text: "invalid data"}
		}

		if f.Type == frameImage {
			reply, err = h.bot.ProcessImage(ctx, userID, data)
		} else {
			reply, err = h.bot.ProcessDocument(ctx, userID, bytes.NewReader(data))
		}
	default:
		return outFrame{Type: frameError, Text: "unsupported frame type"}
	}

	if err != nil {
		slog.Error("failed to process message", "type", f.Type, "user_id", userID, "error", err)
		reply = bot.ReplyFailure
	}

	return outFrame{Type: frameReply, Text: reply}
}

func (s *session) readPump(ctx context.Context, handle func(context.Context, inFrame) outFrame) {
	s.conn.SetReadLimit(maxFrame)
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// Handling a frame can outlast pongWait, so the deadline restarts per read.
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket closed", "error", err)
			}

			return
		}

		var f inFrame

		out := outFrame{Type: frameError, Text: "invalid frame"}
		if err := json.Unmarshal(message, &f); err == nil {
			out = handle(ctx, f)
		}

		select {
		case s.send <- out:
		case <-s.closed:
			return
		}
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		s.conn.Close()
		close(s.closed)
	}()

	for {
		select {
		case out, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := s.conn.WriteJSON(out); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
