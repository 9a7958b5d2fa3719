package handlers_test

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MegaGrindStone/quickthought/internal/handlers"
	"github.com/MegaGrindStone/quickthought/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSession struct {
	responses []string
	err       error

	mu       sync.Mutex
	received []string
}

func TestNewMain(t *testing.T) {
	main, err := handlers.NewMain(&mockSession{}, testLogger())
	require.NoError(t, err)

	assert.NoError(t, main.Shutdown(context.Background()))
}

func TestHandleHome(t *testing.T) {
	main, err := handlers.NewMain(&mockSession{}, testLogger())
	require.NoError(t, err)
	defer main.Shutdown(context.Background())

	tests := []struct {
		name       string
		method     string
		url        string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Widget page",
			method:     http.MethodGet,
			url:        "/",
			wantStatus: http.StatusOK,
			wantBody:   relay.Placeholder,
		},
		{
			name:       "Unknown path",
			method:     http.MethodGet,
			url:        "/nope",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Invalid method",
			method:     http.MethodPost,
			url:        "/",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			w := httptest.NewRecorder()

			main.HandleHome(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestHandleEvents(t *testing.T) {
	main, err := handlers.NewMain(&mockSession{}, testLogger())
	require.NoError(t, err)
	defer main.Shutdown(context.Background())

	tests := []struct {
		name       string
		method     string
		form       url.Values
		wantStatus int
	}{
		{
			name:       "Invalid method",
			method:     http.MethodGet,
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "Missing type",
			method:     http.MethodPost,
			form:       url.Values{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Unknown type",
			method:     http.MethodPost,
			form:       url.Values{"type": {"scroll"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Key without key",
			method:     http.MethodPost,
			form:       url.Values{"type": {"keydown"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Invalid modifier",
			method:     http.MethodPost,
			form:       url.Values{"type": {"keydown"}, "key": {"a"}, "shift": {"maybe"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Key press",
			method:     http.MethodPost,
			form:       url.Values{"type": {"keydown"}, "key": {"a"}, "shift": {"false"}},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "Blur",
			method:     http.MethodPost,
			form:       url.Values{"type": {"blur"}},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "Focus",
			method:     http.MethodPost,
			form:       url.Values{"type": {"focus"}},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postEvent(main, tt.method, tt.form)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestTypeAndSubmit(t *testing.T) {
	session := &mockSession{responses: []string{"Hel", "lo"}}
	main, err := handlers.NewMain(session, testLogger())
	require.NoError(t, err)
	defer main.Shutdown(context.Background())

	for _, c := range "hi" {
		w := postEvent(main, http.MethodPost, url.Values{"type": {"keydown"}, "key": {string(c)}})
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	assert.Contains(t, homeBody(main), ">hi</div>")

	w := postEvent(main, http.MethodPost, url.Values{"type": {"keydown"}, "key": {"Enter"}})
	require.Equal(t, http.StatusNoContent, w.Code)

	require.Eventually(t, func() bool {
		body := homeBody(main)
		return strings.Contains(body, "Hello") && !strings.Contains(body, "is-loading")
	}, time.Second, 5*time.Millisecond)

	body := homeBody(main)
	assert.Contains(t, body, `<div class="user-query">hi</div>`)
	assert.Contains(t, body, relay.Placeholder)
	assert.Equal(t, []string{"hi" + relay.PromptSuffix}, session.messages())
}

func TestSubmitFailure(t *testing.T) {
	session := &mockSession{err: io.ErrUnexpectedEOF}
	main, err := handlers.NewMain(session, testLogger())
	require.NoError(t, err)
	defer main.Shutdown(context.Background())

	postEvent(main, http.MethodPost, url.Values{"type": {"keydown"}, "key": {"x"}})
	postEvent(main, http.MethodPost, url.Values{"type": {"keydown"}, "key": {"Enter"}})

	require.Eventually(t, func() bool {
		return strings.Contains(homeBody(main), relay.ErrorText)
	}, time.Second, 5*time.Millisecond)
}

func postEvent(main handlers.Main, method string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/events", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	main.HandleEvents(w, req)

	return w
}

func homeBody(main handlers.Main) string {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	main.HandleHome(w, req)

	return w.Body.String()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (m *mockSession) SendMessageStream(_ context.Context, message string) iter.Seq2[string, error] {
	m.mu.Lock()
	m.received = append(m.received, message)
	m.mu.Unlock()

	return func(yield func(string, error) bool) {
		if m.err != nil {
			yield("", m.err)
			return
		}
		for _, resp := range m.responses {
			if !yield(resp, nil) {
				return
			}
		}
	}
}

func (m *mockSession) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.received...)
}
