package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/sandevgo/relaybot/internal/config"
	"github.com/sandevgo/relaybot/internal/core"
	"github.com/sandevgo/relaybot/internal/providers/llm"
	"github.com/sandevgo/relaybot/pkg/log"
)

// TestGenerateLive exercises the configured backend end to end. It needs
// a populated .env in the runtime directory and is skipped otherwise.
func TestGenerateLive(t *testing.T) {
	ctx := context.Background()

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		t.Skipf("no runtime env available: %v", err)
	}

	var flushLog func()
	ctx, flushLog = log.NewContextWithLogger(ctx, true)
	defer flushLog()

	cfg := config.NewAppConfig(ctx)
	gen, err := llm.NewGenerator(ctx, cfg)
	if err != nil {
		t.Skipf("backend not configured: %v", err)
	}

	req := core.GenRequest{
		Prompt:      "<|start_header_id|>user<|end_header_id|>\n\nSay hello in one short sentence.<|eot_id|><|start_header_id|>assistant<|end_header_id|>\n\n",
		Instruction: "You are a helpful Slack assistant. Answer in complete sentences.",
		Query:       "Say hello in one short sentence.",
		Params: core.GenParams{
			MaxNewTokens: 50,
			Temperature:  0.7,
		},
	}

	text, err := gen.Generate(ctx, req)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if text == "" {
		t.Fatal("backend returned empty text")
	}
	t.Logf("reply: %s", text)
}

func initEnv(ctx context.Context, runtimePath string) error {
	envFile := filepath.Join(runtimePath, ".env")
	if _, err := os.Stat(envFile); err != nil {
		return err
	}
	return godotenv.Load(envFile)
}
