package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/relaybot/internal/core"
	"github.com/sandevgo/relaybot/pkg/log"
)

var (
	tkOnce sync.Once
	tk     *tiktoken.Tiktoken
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return
		}
		tk = enc
	})
	return tk
}

// Composer renders the bounded instruction prompt. History arrives
// chronological (oldest first) and is rendered top-down as a transcript;
// length is bounded by the history cap, not by characters.
type Composer struct {
	wordLimit int
	params    core.GenParams
}

func NewComposer(wordLimit int, params core.GenParams) *Composer {
	return &Composer{wordLimit: wordLimit, params: params}
}

func (c *Composer) Compose(ctx context.Context, history []core.Exchange, query string) core.GenRequest {
	instruction := "You are a helpful Slack assistant. Answer in complete sentences."
	if c.wordLimit > 0 {
		instruction = fmt.Sprintf(
			"You are a helpful Slack assistant. Answer in complete sentences, using no more than %d words.",
			c.wordLimit,
		)
	}

	var b strings.Builder
	b.WriteString("<|begin_of_text|>")
	writeTurn(&b, core.RoleSystem, instruction)
	for _, ex := range history {
		writeTurn(&b, core.RoleUser, ex.UserInput)
		writeTurn(&b, core.RoleAssistant, ex.BotResponse)
	}
	writeTurn(&b, core.RoleUser, query)
	// Leave the assistant turn open for the model to complete.
	b.WriteString("<|start_header_id|>assistant<|end_header_id|>\n\n")

	prompt := b.String()

	if enc := getTokenizer(); enc != nil {
		log.FromCtx(ctx).Debug().
			Int("turns", len(history)).
			Int("tokens", len(enc.Encode(prompt, nil, nil))).
			Msg("composed prompt")
	}

	return core.GenRequest{
		Prompt:      prompt,
		Instruction: instruction,
		Query:       query,
		History:     history,
		Params:      c.params,
	}
}

func writeTurn(b *strings.Builder, role, content string) {
	fmt.Fprintf(b, "<|start_header_id|>%s<|end_header_id|>\n\n%s<|eot_id|>", role, content)
}
