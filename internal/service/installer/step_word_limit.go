package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// WordLimitStep selects the reply word ceiling.
type WordLimitStep struct {
	choices []string
	values  []string
	cursor  int
}

func NewWordLimitStep() Step {
	return &WordLimitStep{
		choices: []string{"50 words", "100 words", "200 words", "500 words", "Unlimited"},
		values:  []string{"50", "100", "200", "500", "0"},
		cursor:  2,
	}
}

func (s *WordLimitStep) Init() tea.Cmd {
	return nil
}

func (s *WordLimitStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			state.EnvVars["WORD_LIMIT"] = s.values[s.cursor]
			return nil, nil
		}
	}
	return s, nil
}

func (s *WordLimitStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Select the maximum reply length:\n\n")
	for i, choice := range s.choices {
		cursor := " "
		if s.cursor == i {
			cursor = "❯"
			b.WriteString(selStyle.Render(fmt.Sprintf("%s %s", cursor, choice)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("%s %s", cursor, choice)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
