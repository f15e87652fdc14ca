package prompt

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user aborts the prompt.
var ErrCancelled = errors.New("prompt cancelled")

type passwordModel struct {
	label     string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newPasswordModel(label string) passwordModel {
	ti := textinput.New()
	ti.Placeholder = "password"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Focus()
	return passwordModel{label: label, input: ti}
}

func (m passwordModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m passwordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m passwordModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n", m.label, m.input.View())
}

// Password asks for a secret on the terminal without echoing it.
func Password(in io.Reader, out io.Writer, label string) (string, error) {
	p := tea.NewProgram(newPasswordModel(label), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", err
	}

	m := final.(passwordModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.input.Value(), nil
}
