package main

import (
	"bytes"
	"flag"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgomes/minipy/minipy"
)

var (
	accentColor  = lipgloss.Color("#3B82F6")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)
)

const defaultPrompt = "minipy> "

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	session     *minipy.Session
	sink        *bytes.Buffer
	pending     []string
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous input"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next input"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
}

func newREPLModel(prompt string) replModel {
	if prompt == "" {
		prompt = defaultPrompt
	}

	ti := textinput.New()
	ti.Placeholder = "type a statement..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = prompt

	sink := &bytes.Buffer{}
	engine := minipy.NewEngine(minipy.Config{Output: sink})

	return replModel{
		textInput:  ti,
		session:    engine.NewSession(sink),
		sink:       sink,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := m.textInput.Value()
			m = m.submit(input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// submit feeds one input line to the session. A line that opens a block (or
// continues one) is buffered; an empty line closes the pending block and
// runs it.
func (m replModel) submit(input string) replModel {
	trimmed := strings.TrimSpace(input)

	if len(m.pending) > 0 {
		if trimmed != "" {
			m.pending = append(m.pending, input)
			m.cmdHistory = append(m.cmdHistory, input)
			return m
		}
		source := strings.Join(m.pending, "\n") + "\n"
		m.pending = nil
		return m.evaluate(source, source)
	}

	if trimmed == "" {
		return m
	}
	m.cmdHistory = append(m.cmdHistory, input)

	if strings.HasSuffix(trimmed, ":") {
		m.pending = []string{input}
		return m
	}
	return m.evaluate(input+"\n", input)
}

func (m replModel) evaluate(source, display string) replModel {
	start := m.sink.Len()
	err := m.session.Eval(source)
	output := m.sink.String()[start:]

	entry := historyEntry{input: display, output: strings.TrimRight(output, "\n")}
	if err != nil {
		entry.output = err.Error()
		entry.isErr = true
	}
	m.history = append(m.history, entry)
	return m
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("MiniPy REPL")
	b.WriteString(header + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n")

	reservedLines := 8
	availableHeight := m.height - reservedLines

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			for _, line := range strings.Split(entry.input, "\n") {
				b.WriteString(mutedStyle.Render("  › ") + line + "\n")
			}
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else if entry.output != "" {
			b.WriteString("  " + resultStyle.Render(entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if len(m.pending) > 0 {
		b.WriteString(mutedStyle.Render("  ... block open, submit an empty line to run") + "\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := mutedStyle.Render("ctrl+l clear  ctrl+c quit")
	b.WriteString(footer)

	return b.String()
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	configPath := fs.String("config", "", "path to a minipy.toml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prompt := ""
	if *configPath != "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		prompt = cfg.Repl.Prompt
	}

	p := tea.NewProgram(newREPLModel(prompt))
	_, err := p.Run()
	return err
}
