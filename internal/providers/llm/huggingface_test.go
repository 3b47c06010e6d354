package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandevgo/relaybot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hfRequest() core.GenRequest {
	return core.GenRequest{
		Prompt: "rendered prompt",
		Params: core.GenParams{MaxNewTokens: 200, Temperature: 0.7},
	}
}

func TestHuggingFace_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"generated_text": "hello there"}]`))
	}))
	defer srv.Close()

	hf := NewHuggingFace(srv.URL, "token")
	text, err := hf.Generate(context.Background(), hfRequest())
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
}

func TestHuggingFace_ErrorBodyIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer srv.Close()

	hf := NewHuggingFace(srv.URL, "token")
	_, err := hf.Generate(context.Background(), hfRequest())
	assert.True(t, errors.Is(err, core.ErrMalformedResponse), "got: %v", err)
}

func TestHuggingFace_EmptyGeneration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text": "  "}]`))
	}))
	defer srv.Close()

	hf := NewHuggingFace(srv.URL, "token")
	_, err := hf.Generate(context.Background(), hfRequest())
	assert.True(t, errors.Is(err, core.ErrEmptyCompletion), "got: %v", err)
}

func TestHuggingFace_MissingToken(t *testing.T) {
	hf := NewHuggingFace("http://unused", "")
	_, err := hf.Generate(context.Background(), hfRequest())
	assert.True(t, errors.Is(err, core.ErrMissingCredential), "got: %v", err)
}

func TestOpenAICompatible_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "hi"}}]}`))
	}))
	defer srv.Close()

	p := NewCustomOpenAI(srv.URL, "key", "test-model")
	text, err := p.Generate(context.Background(), core.GenRequest{
		Instruction: "be brief",
		Query:       "hello",
		History: []core.Exchange{
			{UserInput: "earlier question", BotResponse: "earlier answer"},
		},
		Params: core.GenParams{MaxNewTokens: 100, Temperature: 0.7},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}

func TestChatMessages_Transcript(t *testing.T) {
	msgs := chatMessages(core.GenRequest{
		Instruction: "sys",
		Query:       "now",
		History: []core.Exchange{
			{UserInput: "q1", BotResponse: "a1"},
			{UserInput: "q2", BotResponse: "a2"},
		},
	})

	require.Len(t, msgs, 6)
	assert.Equal(t, core.RoleSystem, msgs[0].Role)
	assert.Equal(t, "q1", msgs[1].Content)
	assert.Equal(t, core.RoleAssistant, msgs[2].Role)
	assert.Equal(t, "a1", msgs[2].Content)
	assert.Equal(t, "now", msgs[5].Content)
	assert.Equal(t, core.RoleUser, msgs[5].Role)
}
