package slack

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sandevgo/relaybot/internal/config"
	"github.com/sandevgo/relaybot/internal/core"
	"github.com/sandevgo/relaybot/pkg/conv"
	"github.com/sandevgo/relaybot/pkg/log"
)

// Client posts messages through the Slack Web API. The response is
// informational only; callers decide whether a failure matters.
type Client struct {
	http  *resty.Client
	token string
}

func NewClient(cfg *config.SlackConfig) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.APIBaseURL).
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", core.RelayUserAgent),
		token: cfg.BotToken,
	}
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (c *Client) PostMessage(ctx context.Context, channelID, text string) error {
	body := map[string]string{
		"channel": channelID,
		"text":    conv.MarkdownToMrkdwn([]byte(text)),
	}

	var result postMessageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post("/chat.postMessage")
	if err != nil {
		return fmt.Errorf("chat.postMessage: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("chat.postMessage: http %d", resp.StatusCode())
	}
	if !result.OK {
		return fmt.Errorf("chat.postMessage: %s", result.Error)
	}

	log.FromCtx(ctx).Debug().Str("channel", channelID).Msg("posted slack message")
	return nil
}
