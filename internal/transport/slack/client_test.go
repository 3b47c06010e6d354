package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandevgo/relaybot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		assert.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c := NewClient(&config.SlackConfig{BotToken: "xoxb-test", APIBaseURL: srv.URL})
	err := c.PostMessage(context.Background(), "C1", "hello **world**")

	require.NoError(t, err)
	assert.Equal(t, "C1", got["channel"])
	assert.Equal(t, "hello *world*", got["text"], "markdown should arrive as mrkdwn")
}

func TestClient_PostMessage_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
	}))
	defer srv.Close()

	c := NewClient(&config.SlackConfig{BotToken: "xoxb-test", APIBaseURL: srv.URL})
	err := c.PostMessage(context.Background(), "C404", "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestClient_PostMessage_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(&config.SlackConfig{BotToken: "xoxb-test", APIBaseURL: srv.URL})
	err := c.PostMessage(context.Background(), "C1", "hi")
	assert.Error(t, err)
}
