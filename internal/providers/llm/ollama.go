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

type Ollama struct {
	baseProvider
}

func NewOllama(baseURL, apiKey, model string) *Ollama {
	return &Ollama{
		baseProvider: newBaseProvider(baseURL, apiKey, model),
	}
}

func (o *Ollama) Generate(ctx context.Context, req core.GenRequest) (string, error) {
	options := map[string]any{
		"temperature": req.Params.Temperature,
		"num_predict": req.Params.MaxNewTokens,
	}
	if req.Params.TopP > 0 {
		options["top_p"] = req.Params.TopP
	}
	if req.Params.TopK > 0 {
		options["top_k"] = req.Params.TopK
	}

	payload := map[string]any{
		"model":    o.model,
		"messages": chatMessages(req),
		"options":  options,
		"stream":   false,
	}

	headers := make(map[string]string)
	if o.apiKey != "" {
		headers["Authorization"] = "Bearer " + o.apiKey
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/api/chat", payload, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("%w: %s", core.ErrMalformedResponse, string(data))
	}
	if strings.TrimSpace(result.Message.Content) == "" {
		return "", core.ErrEmptyCompletion
	}
	return result.Message.Content, nil
}
