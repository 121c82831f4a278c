package chat_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/bot"
	"github.com/MrJamesThe3rd/gastos/internal/http/chat"
	"github.com/MrJamesThe3rd/gastos/internal/user"
)

type call struct {
	kind   string
	userID uuid.UUID
	text   string
	data   []byte
}

type fakeBot struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (b *fakeBot) record(c call) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, c)
	if b.err != nil {
		return "", b.err
	}

	return c.kind + ":" + c.text + string(c.data), nil
}

func (b *fakeBot) ProcessText(_ context.Context, userID uuid.UUID, text string) (string, error) {
	return b.record(call{kind: "text", userID: userID, text: text})
}

func (b *fakeBot) ProcessImage(_ context.Context, userID uuid.UUID, image []byte) (string, error) {
	return b.record(call{kind: "image", userID: userID, data: image})
}

func (b *fakeBot) ProcessDocument(_ context.Context, userID uuid.UUID, r io.Reader) (string, error) {
	data, _ := io.ReadAll(r)
	return b.record(call{kind: "document", userID: userID, data: data})
}

func newRouter(b *fakeBot, u *user.User) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	})
	r.Route("/chat", chat.NewHandler(b).Routes)

	return r
}

func decodeReply(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp.Reply
}

func multipartBody(t *testing.T, field string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "upload.bin")
	require.NoError(t, err)

	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestText(t *testing.T) {
	b := &fakeBot{}
	u := &user.User{ID: uuid.New()}

	rec := httptest.NewRecorder()
	newRouter(b, u).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat/text", strings.NewReader(`{"text":"si"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text:si", decodeReply(t, rec))
	require.Len(t, b.calls, 1)
	assert.Equal(t, u.ID, b.calls[0].userID)
}

func TestText_Failure(t *testing.T) {
	b := &fakeBot{err: errors.New("boom")}

	rec := httptest.NewRecorder()
	newRouter(b, &user.User{ID: uuid.New()}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat/text", strings.NewReader(`{"text":"hola"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, bot.ReplyFailure, decodeReply(t, rec))
}

func TestUploads(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		field      string
		wantStatus int
		wantReply  string
	}{
		{name: "image", path: "/chat/image", field: "image", wantStatus: http.StatusOK, wantReply: "image:payload"},
		{name: "document", path: "/chat/document", field: "document", wantStatus: http.StatusOK, wantReply: "document:payload"},
		{name: "wrong field", path: "/chat/image", field: "file", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.field, []byte("payload"))

			req := httptest.NewRequest(http.MethodPost, tt.path, body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			newRouter(&fakeBot{}, &user.User{ID: uuid.New()}).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantReply != "" {
				assert.Equal(t, tt.wantReply, decodeReply(t, rec))
			}
		})
	}
}

func TestWebsocket(t *testing.T) {
	b := &fakeBot{}
	u := &user.User{ID: uuid.New()}

	srv := httptest.NewServer(newRouter(b, u))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/chat/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	exchange := func(frame any) map[string]string {
		t.Helper()

		require.NoError(t, conn.WriteJSON(frame))

		var out map[string]string
		require.NoError(t, conn.ReadJSON(&out))

		return out
	}

	got := exchange(map[string]string{"type": "text", "text": "no"})
	assert.Equal(t, map[string]string{"type": "reply", "text": "text:no"}, got)

	got = exchange(map[string]string{"type": "image", "data": base64.StdEncoding.EncodeToString([]byte("png"))})
	assert.Equal(t, map[string]string{"type": "reply", "text": "image:png"}, got)

	got = exchange(map[string]string{"type": "image", "data": "%%%"})
	assert.Equal(t, "error", got["type"])

	got = exchange(map[string]string{"type": "video"})
	assert.Equal(t, "error", got["type"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	var out map[string]string
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "error", out["type"])

	b.mu.Lock()
	defer b.mu.Unlock()

	require.Len(t, b.calls, 2)
	assert.Equal(t, u.ID, b.calls[1].userID)
}
