package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ModelStep collects the model identifier, or for HuggingFace the full
// inference endpoint URL.
type ModelStep struct {
	input    textinput.Model
	provider string
	envKey   string
	title    string
}

func NewModelStep() Step {
	return &ModelStep{}
}

func (s *ModelStep) Init() tea.Cmd {
	return nil
}

func (s *ModelStep) initProvider(state *InstallState) bool {
	s.provider = state.EnvVars["LLM_PROVIDER"]
	if s.provider == "" {
		return false
	}

	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 60

	switch s.provider {
	case "huggingface":
		s.envKey = "HUGGINGFACE_MODEL_URL"
		s.title = "HuggingFace inference endpoint URL"
		s.input.Placeholder = "https://api-inference.huggingface.co/models/meta-llama/Meta-Llama-3-8B-Instruct"
	case "openai":
		s.envKey = "OPENAI_MODEL"
		s.title = "OpenAI model"
		s.input.Placeholder = "gpt-4o-mini"
	case "ollama":
		s.envKey = "OLLAMA_MODEL"
		s.title = "Ollama model"
		s.input.Placeholder = "llama3"
	case "custom":
		s.envKey = "CUSTOM_OPENAI_MODEL"
		s.title = "Model name on your endpoint"
		s.input.Placeholder = "my-model"
		if state.EnvVars["CUSTOM_OPENAI_BASE_URL"] == "" {
			state.EnvVars["CUSTOM_OPENAI_BASE_URL"] = "http://localhost:8000"
		}
	default:
		return false
	}
	return true
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.provider == "" {
		if !s.initProvider(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" && s.input.Value() != "" {
			state.EnvVars[s.envKey] = s.input.Value()
			return nil, nil
		}
	}
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.provider == "" {
		if !s.initProvider(state) {
			return "Loading..."
		}
	}

	return fmt.Sprintf("Enter the %s:\n\n%s\n\n(press enter to confirm)\n", s.title, s.input.View())
}
