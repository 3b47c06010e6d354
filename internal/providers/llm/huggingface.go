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

// HuggingFace calls the Inference API text-generation endpoint with the
// rendered prompt. The model URL already names the model, so baseURL is the
// full endpoint and path stays empty.
type HuggingFace struct {
	baseProvider
}

func NewHuggingFace(modelURL, token string) *HuggingFace {
	return &HuggingFace{
		baseProvider: newBaseProvider(modelURL, token, ""),
	}
}

func (h *HuggingFace) Generate(ctx context.Context, req core.GenRequest) (string, error) {
	if h.apiKey == "" {
		return "", fmt.Errorf("huggingface token is not set: %w", core.ErrMissingCredential)
	}

	parameters := map[string]any{
		"max_new_tokens":   req.Params.MaxNewTokens,
		"temperature":      req.Params.Temperature,
		"return_full_text": false,
	}
	if req.Params.TopP > 0 {
		parameters["top_p"] = req.Params.TopP
	}
	if req.Params.TopK > 0 {
		parameters["top_k"] = req.Params.TopK
	}

	payload := map[string]any{
		"inputs":     req.Prompt,
		"parameters": parameters,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + h.apiKey,
	}

	resp, err := h.doRequest(ctx, http.MethodPost, "", payload, headers)
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

	// An error-shaped body on a 200 means the request itself was wrong,
	// not that the backend hiccuped.
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error != "" {
		return "", fmt.Errorf("%w: %s", core.ErrMalformedResponse, apiErr.Error)
	}

	var result []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("%w: %s", core.ErrMalformedResponse, string(data))
	}
	if len(result) == 0 || strings.TrimSpace(result[0].GeneratedText) == "" {
		return "", core.ErrEmptyCompletion
	}
	return result[0].GeneratedText, nil
}
