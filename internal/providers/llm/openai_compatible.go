package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sandevgo/relaybot/internal/core"
)

type OpenAICompatible struct {
	baseProvider
	authHeader string
	authPrefix string
}

type OpenAICompatibleConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	AuthHeader string // e.g., "Authorization"
	AuthPrefix string // e.g., "Bearer "
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
	}
}

// OpenAI provider is implemented using OpenAICompatible.
type OpenAI struct {
	*OpenAICompatible
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    "https://api.openai.com",
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
	}
}

func NewCustomOpenAI(baseURL, apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	})
}

func (o *OpenAICompatible) Generate(ctx context.Context, req core.GenRequest) (string, error) {
	if o.authHeader != "" && o.apiKey == "" {
		return "", fmt.Errorf("api key is not set: %w", core.ErrMissingCredential)
	}

	payload := map[string]any{
		"model":       o.model,
		"messages":    chatMessages(req),
		"max_tokens":  req.Params.MaxNewTokens,
		"temperature": req.Params.Temperature,
	}
	if req.Params.TopP > 0 {
		payload["top_p"] = req.Params.TopP
	}

	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return parseOpenAIResponse(resp)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatMessages renders the query+history form of the request as an
// alternating user/assistant transcript.
func chatMessages(req core.GenRequest) []chatMessage {
	messages := make([]chatMessage, 0, 2*len(req.History)+2)
	if req.Instruction != "" {
		messages = append(messages, chatMessage{Role: core.RoleSystem, Content: req.Instruction})
	}
	for _, ex := range req.History {
		messages = append(messages,
			chatMessage{Role: core.RoleUser, Content: ex.UserInput},
			chatMessage{Role: core.RoleAssistant, Content: ex.BotResponse},
		)
	}
	return append(messages, chatMessage{Role: core.RoleUser, Content: req.Query})
}

func parseOpenAIResponse(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("%w: %s", core.ErrMalformedResponse, string(data))
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", core.ErrMalformedResponse)
	}
	if strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", core.ErrEmptyCompletion
	}
	return result.Choices[0].Message.Content, nil
}
