package main

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var errPromptCanceled = errors.New("sign-in canceled")

var (
	promptTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	promptLabelStyle = lipgloss.NewStyle().Width(10)
	promptFocusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	promptHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	promptFrameStyle = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder())
)

const (
	promptFieldEmail = iota
	promptFieldPassword
)

type credentialPrompt struct {
	title    string
	inputs   []textinput.Model
	focused  int
	canceled bool
}

func newCredentialPrompt(title, email string) credentialPrompt {
	m := credentialPrompt{title: title, inputs: make([]textinput.Model, 2)}

	m.inputs[promptFieldEmail] = textinput.New()
	m.inputs[promptFieldEmail].Placeholder = "name@example.com"
	m.inputs[promptFieldEmail].CharLimit = 254
	m.inputs[promptFieldEmail].Width = 40
	m.inputs[promptFieldEmail].Prompt = ""
	m.inputs[promptFieldEmail].SetValue(email)

	m.inputs[promptFieldPassword] = textinput.New()
	m.inputs[promptFieldPassword].CharLimit = 128
	m.inputs[promptFieldPassword].Width = 40
	m.inputs[promptFieldPassword].Prompt = ""
	m.inputs[promptFieldPassword].EchoMode = textinput.EchoPassword
	m.inputs[promptFieldPassword].EchoCharacter = '•'

	if strings.TrimSpace(email) != "" {
		m.focused = promptFieldPassword
	}
	m.inputs[m.focused].Focus()
	return m
}

func (m credentialPrompt) Init() tea.Cmd {
	return textinput.Blink
}

func (m credentialPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			if m.focused == promptFieldPassword && m.email() != "" {
				return m, tea.Quit
			}
			cmd := m.moveFocus(1)
			return m, cmd
		case "tab", "down":
			cmd := m.moveFocus(1)
			return m, cmd
		case "shift+tab", "up":
			cmd := m.moveFocus(-1)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *credentialPrompt) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focused].Blur()
	m.focused = (m.focused + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focused].Focus()
}

func (m credentialPrompt) View() string {
	var b strings.Builder
	b.WriteString(promptTitleStyle.Render(m.title))
	b.WriteString("\n\n")
	labels := []string{"Email", "Password"}
	for i, input := range m.inputs {
		label := promptLabelStyle.Render(labels[i])
		if i == m.focused {
			label = promptFocusStyle.Render(promptLabelStyle.Render(labels[i]))
		}
		b.WriteString(label + input.View() + "\n")
	}
	b.WriteString("\n")
	b.WriteString(promptHelpStyle.Render("enter: next/submit  tab: switch field  esc: cancel"))
	return promptFrameStyle.Render(b.String()) + "\n"
}

func (m credentialPrompt) email() string {
	return strings.TrimSpace(m.inputs[promptFieldEmail].Value())
}

func (m credentialPrompt) password() string {
	return m.inputs[promptFieldPassword].Value()
}

// promptCredentials asks for the email and password on the terminal.
func promptCredentials(in io.Reader, out io.Writer, title, email string) (string, string, error) {
	program := tea.NewProgram(newCredentialPrompt(title, email), tea.WithInput(in), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		return "", "", err
	}
	m, ok := final.(credentialPrompt)
	if !ok || m.canceled {
		return "", "", errPromptCanceled
	}
	return m.email(), m.password(), nil
}

func isInteractive(in io.Reader) bool {
	return isTerminal(in)
}
