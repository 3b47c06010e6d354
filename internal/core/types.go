package core

import "time"

const (
	RelayName      = "RelayBot"
	RelayUserAgent = "RelayBot/0.1"
	RelayVersion   = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Event is a single inbound Slack Events API notification after the
// gatekeeper has extracted the fields the pipeline cares about.
type Event struct {
	ID        string
	Type      string
	UserID    string
	ChannelID string
	BotID     string
	Text      string
}

// Exchange is one stored (user input, bot response) pair.
type Exchange struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	ChannelID   string    `json:"channel_id,omitempty"`
	UserInput   string    `json:"user_input"`
	BotResponse string    `json:"bot_response"`
	CreatedAt   time.Time `json:"created_at"`
}

// Scope is the key under which conversation history is grouped.
// An empty ChannelID means per-user scoping only.
type Scope struct {
	UserID    string
	ChannelID string
}

// GenParams are the sampling parameters forwarded to the generation backend.
type GenParams struct {
	MaxNewTokens int
	Temperature  float64
	TopP         float64
	TopK         int
}

// GenRequest carries both request shapes a backend may want: the rendered
// role-tagged prompt for text-completion backends, and instruction plus
// query+history for chat-style backends.
type GenRequest struct {
	Prompt      string
	Instruction string
	Query       string
	History     []Exchange
	Params      GenParams
}
