package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/relaybot/internal/config"
	"github.com/sandevgo/relaybot/internal/core"
	"github.com/sandevgo/relaybot/internal/service/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	exchanges []core.Exchange
	appendErr error
}

func (m *memRepo) Append(ctx context.Context, ex core.Exchange) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.exchanges = append(m.exchanges, ex)
	return nil
}

func (m *memRepo) Recent(ctx context.Context, scope core.Scope, limit int) ([]core.Exchange, error) {
	return nil, nil
}

type memDispatcher struct {
	channels []string
}

func (m *memDispatcher) PostMessage(ctx context.Context, channelID, text string) error {
	m.channels = append(m.channels, channelID)
	return nil
}

type staticGenerator struct{ text string }

func (s *staticGenerator) Generate(ctx context.Context, req core.GenRequest) (string, error) {
	return s.text, nil
}

func newTestServer(repo *memRepo, disp *memDispatcher) http.Handler {
	p := pipeline.New(
		pipeline.NewGatekeeper(pipeline.NewMemoryDeduper()),
		repo,
		pipeline.NewComposer(100, core.GenParams{}),
		pipeline.NewResponder(&staticGenerator{text: "generated reply"}, 1, 0, time.Second, 100, "fallback"),
		disp,
		5,
		false,
	)
	cfg := &config.AppConfig{ListenAddr: ":0"}
	return NewServer(context.Background(), cfg, p).srv.Handler
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp := map[string]string{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestServer_ChallengeEcho(t *testing.T) {
	h := newTestServer(&memRepo{}, &memDispatcher{})

	w, resp := post(t, h, `{"challenge": "tok123"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok123", resp["challenge"])
}

func TestServer_InvalidPayload(t *testing.T) {
	h := newTestServer(&memRepo{}, &memDispatcher{})

	for _, body := range []string{"", "{broken"} {
		w, resp := post(t, h, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid payload", resp["error"])
	}
}

func TestServer_EndToEnd(t *testing.T) {
	repo := &memRepo{}
	disp := &memDispatcher{}
	h := newTestServer(repo, disp)

	w, resp := post(t, h, `{"event_id":"E1","event":{"type":"message","text":"Hello","channel":"C1","user":"U1"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp["status"])

	require.Len(t, repo.exchanges, 1)
	assert.Equal(t, "U1", repo.exchanges[0].UserID)
	assert.Equal(t, "C1", repo.exchanges[0].ChannelID)
	assert.Equal(t, "Hello", repo.exchanges[0].UserInput)
	assert.Equal(t, []string{"C1"}, disp.channels)
}

func TestServer_IgnoredEvent(t *testing.T) {
	repo := &memRepo{}
	h := newTestServer(repo, &memDispatcher{})

	w, resp := post(t, h, `{"event_id":"E1","event":{"type":"message","text":"hi","bot_id":"B7","channel":"C1","user":"U1"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ignored", resp["status"])
	assert.Empty(t, repo.exchanges)
}

func TestServer_PersistenceFailure(t *testing.T) {
	repo := &memRepo{appendErr: assert.AnError}
	h := newTestServer(repo, &memDispatcher{})

	w, resp := post(t, h, `{"event_id":"E1","event":{"type":"message","text":"Hello","channel":"C1","user":"U1"}}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, resp["error"])
}
