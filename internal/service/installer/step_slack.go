package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SlackTokenStep collects the bot token used for posting replies.
type SlackTokenStep struct {
	input textinput.Model
}

func NewSlackTokenStep() Step {
	s := &SlackTokenStep{}
	s.input = textinput.New()
	s.input.Placeholder = "xoxb-..."
	s.input.CharLimit = 255
	s.input.Width = 50
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'
	return s
}

func (s *SlackTokenStep) Init() tea.Cmd {
	s.input.Focus()
	return textinput.Blink
}

func (s *SlackTokenStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			token := strings.TrimSpace(s.input.Value())
			if token == "" {
				return s, cmd
			}
			state.EnvVars["SLACK_BOT_TOKEN"] = token
			return nil, nil
		}
	}
	return s, cmd
}

func (s *SlackTokenStep) View(state *InstallState) string {
	return fmt.Sprintf("Enter your Slack Bot Token:\n\n%s\n\n(press enter to confirm)\n", s.input.View())
}
