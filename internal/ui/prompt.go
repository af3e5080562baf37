package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tasuku43/ghqr/internal/infra/output"
)

var ErrPromptCanceled = errors.New("prompt canceled")

const maxVisibleChoices = 15

type PromptChoice struct {
	Label string
	Value string
}

// PromptChoiceSelect lets users pick a single choice from a filtered list.
// The prompt renders to out so stdout stays clean for the selected value.
func PromptChoiceSelect(title, label string, choices []PromptChoice, theme Theme, useColor bool, in io.Reader, out io.Writer) (string, error) {
	model := newChoiceSelectModel(title, label, choices, theme, useColor)
	prog := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out))
	final, err := prog.Run()
	if err != nil {
		return "", err
	}
	m := final.(choiceSelectModel)
	if m.err != nil {
		return "", m.err
	}
	return strings.TrimSpace(m.value), nil
}

type choiceSelectModel struct {
	title    string
	label    string
	choices  []PromptChoice
	theme    Theme
	useColor bool

	input    textinput.Model
	filtered []PromptChoice
	cursor   int
	err      error

	value string
}

func newChoiceSelectModel(title, label string, choices []PromptChoice, theme Theme, useColor bool) choiceSelectModel {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "search"
	input.Focus()
	if useColor {
		input.PlaceholderStyle = theme.Muted
	}
	m := choiceSelectModel{
		title:    title,
		label:    label,
		choices:  choices,
		theme:    theme,
		useColor: useColor,
		input:    input,
	}
	m.filtered = m.filterChoices()
	return m
}

func (m choiceSelectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m choiceSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = ErrPromptCanceled
			return m, tea.Quit
		case tea.KeyUp, tea.KeyCtrlP:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyEnter:
			if len(m.filtered) == 0 {
				return m, nil
			}
			m.value = m.filtered[m.cursor].Value
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filtered = m.filterChoices()
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
	return m, cmd
}

func (m choiceSelectModel) View() string {
	if m.value != "" || m.err != nil {
		return ""
	}
	var b strings.Builder
	header := m.title
	if m.useColor {
		header = m.theme.Header.Render(header)
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	prefix := output.StepPrefix
	label := m.label
	if m.useColor {
		prefix = m.theme.Accent.Render(prefix)
		label = m.theme.Accent.Render(label)
	}
	fmt.Fprintf(&b, "%s%s %s: %s\n", output.Indent, prefix, label, m.input.View())
	renderChoiceList(&b, m.filtered, m.cursor, m.useColor, m.theme)
	return b.String()
}

func (m choiceSelectModel) filterChoices() []PromptChoice {
	terms := strings.Fields(strings.ToLower(m.input.Value()))
	if len(terms) == 0 {
		return append([]PromptChoice(nil), m.choices...)
	}
	var out []PromptChoice
	for _, item := range m.choices {
		label := strings.ToLower(item.Label)
		matched := true
		for _, term := range terms {
			if !strings.Contains(label, term) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, item)
		}
	}
	return out
}

func renderChoiceList(b *strings.Builder, items []PromptChoice, cursor int, useColor bool, theme Theme) {
	connector := output.LogConnector
	if useColor {
		connector = theme.Muted.Render(connector)
	}
	if len(items) == 0 {
		msg := "no matches"
		if useColor {
			msg = theme.Muted.Render(msg)
		}
		fmt.Fprintf(b, "%s%s %s\n", output.Indent+output.Indent, connector, msg)
		return
	}
	start := 0
	if cursor >= maxVisibleChoices {
		start = cursor - maxVisibleChoices + 1
	}
	end := min(len(items), start+maxVisibleChoices)
	for i := start; i < end; i++ {
		display := items[i].Label
		marker := " "
		if i == cursor {
			marker = ">"
			if useColor {
				display = lipgloss.NewStyle().Bold(true).Render(display)
			}
		}
		fmt.Fprintf(b, "%s%s%s %s\n", output.Indent, marker, output.Indent[1:]+connector, display)
	}
	if hidden := len(items) - end; hidden > 0 {
		msg := fmt.Sprintf("%d more", hidden)
		if useColor {
			msg = theme.Muted.Render(msg)
		}
		fmt.Fprintf(b, "%s%s\n", output.LogOutputPrefix(), msg)
	}
}
