package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mython-lang/mython/mython"
)

// replStyles groups the lipgloss styling of the interactive session.
type replStyles struct {
	banner  lipgloss.Style
	prompt  lipgloss.Style
	echo    lipgloss.Style
	result  lipgloss.Style
	failure lipgloss.Style
	hint    lipgloss.Style
	panel   lipgloss.Style
}

func newREPLStyles() replStyles {
	return replStyles{
		banner:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		prompt:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45")),
		echo:    lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		result:  lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("99")).
			PaddingLeft(1),
	}
}

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	styles      replStyles
	engine      *mython.Engine
	env         *mython.Env
	pending     []string
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

func newREPLModel() replModel {
	styles := newREPLStyles()

	ti := textinput.New()
	ti.Placeholder = "statement, block opener, or :command"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = styles.prompt
	ti.Prompt = ">>> "

	return replModel{
		textInput:  ti,
		styles:     styles,
		engine:     mython.NewEngine(mython.Config{}),
		env:        mython.NewEnv(),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+l":
			m.history = nil
			return m, nil
		case "ctrl+v":
			m.showVars = !m.showVars
			return m, nil
		case "ctrl+k":
			m.showHelp = !m.showHelp
			return m, nil
		case "up":
			return m.recall(-1), nil
		case "down":
			return m.recall(1), nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// recall moves through the command history; stepping past its end
// restores an empty input line.
func (m replModel) recall(delta int) replModel {
	if len(m.cmdHistory) == 0 {
		return m
	}
	idx := m.historyIdx
	if idx == -1 {
		if delta > 0 {
			return m
		}
		idx = len(m.cmdHistory)
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.cmdHistory) {
		m.historyIdx = -1
		m.textInput.SetValue("")
		return m
	}
	m.historyIdx = idx
	m.textInput.SetValue(m.cmdHistory[idx])
	m.textInput.CursorEnd()
	return m
}

func (m replModel) submit() (replModel, tea.Cmd) {
	input := m.textInput.Value()
	m.textInput.SetValue("")
	m.historyIdx = -1
	if strings.TrimSpace(input) != "" {
		m.cmdHistory = append(m.cmdHistory, input)
	}

	if strings.HasPrefix(strings.TrimSpace(input), ":") {
		return m.handleCommand(strings.TrimSpace(input))
	}

	source, complete := m.collect(input)
	if !complete {
		return m, nil
	}
	output, isErr := m.evaluate(source)
	m.history = append(m.history, historyEntry{
		input:  strings.TrimRight(source, "\n"),
		output: output,
		isErr:  isErr,
	})
	return m, nil
}

// collect accumulates input lines until a whole snippet is ready to run.
// A line ending in ":" opens a block, which stays open until an empty
// line closes it.
func (m *replModel) collect(input string) (string, bool) {
	if len(m.pending) > 0 {
		if strings.TrimSpace(input) != "" {
			m.pending = append(m.pending, input)
			return "", false
		}
		source := strings.Join(m.pending, "\n") + "\n"
		m.pending = nil
		return source, true
	}
	if strings.TrimSpace(input) == "" {
		return "", false
	}
	if opensBlock(input) {
		m.pending = []string{input}
		return "", false
	}
	return input + "\n", true
}

// opensBlock reports whether a line starts a suite that needs more
// input before the snippet can run.
func opensBlock(line string) bool {
	code := line
	if i := strings.IndexByte(code, '#'); i >= 0 {
		code = code[:i]
	}
	return strings.HasSuffix(strings.TrimSpace(code), ":")
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	switch cmd := strings.Fields(input)[0]; cmd {
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	case ":reset", ":r":
		m.env = mython.NewEnv()
		m.pending = nil
		m.history = append(m.history, historyEntry{input: input, output: "fresh environment"})
	case ":clear", ":c":
		m.history = nil
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":help", ":h":
		m.showHelp = !m.showHelp
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "unknown command " + cmd,
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) evaluate(source string) (string, bool) {
	script, err := m.engine.Compile(source)
	if err != nil {
		return err.Error(), true
	}

	var buf bytes.Buffer
	if err := script.RunWith(context.Background(), m.env, &buf); err != nil {
		return err.Error(), true
	}
	output := strings.TrimRight(buf.String(), "\n")
	if output == "" {
		output = "ok"
	}
	return output, false
}

func (m replModel) View() string {
	if !m.initialized {
		return "starting..."
	}
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections,
		m.styles.banner.Render("mython")+" "+m.styles.hint.Render("interactive session"),
		"")
	sections = append(sections, m.renderHistory()...)

	if m.showVars {
		sections = append(sections, m.renderVars(), "")
	}
	if m.showHelp {
		sections = append(sections, m.renderHelp(), "")
	}
	if n := len(m.pending); n > 0 {
		sections = append(sections, m.styles.hint.Render(
			fmt.Sprintf("block open (%d lines) — empty line runs it", n)))
	}

	sections = append(sections,
		m.textInput.View(),
		"",
		m.styles.hint.Render("ctrl+k help · ctrl+v vars · ctrl+l clear · ctrl+c quit"))
	return strings.Join(sections, "\n")
}

// renderHistory returns the most recent entries that fit the window.
func (m replModel) renderHistory() []string {
	budget := m.height - 8
	if m.showHelp {
		budget -= 10
	}
	if m.showVars {
		budget -= m.env.Len() + 2
	}

	var lines []string
	start := len(m.history)
	for used := 0; start > 0; start-- {
		entry := m.history[start-1]
		used += strings.Count(entry.input, "\n") + 3
		if used > budget {
			break
		}
	}
	for _, entry := range m.history[start:] {
		for _, line := range strings.Split(entry.input, "\n") {
			lines = append(lines, m.styles.echo.Render(">>> ")+line)
		}
		style := m.styles.result
		if entry.isErr {
			style = m.styles.failure
		}
		lines = append(lines, style.Render(entry.output), "")
	}
	return lines
}

func (m replModel) renderVars() string {
	vars := m.env.Snapshot()
	if len(vars) == 0 {
		return m.styles.panel.Render(m.styles.hint.Render("no variables yet"))
	}
	var lines []string
	for name, val := range vars {
		lines = append(lines, fmt.Sprintf("%s = %s", name, val.String()))
	}
	return m.styles.panel.Render(strings.Join(lines, "\n"))
}

func (m replModel) renderHelp() string {
	lines := []string{
		"a line ending in : opens a block; an empty line runs it",
		"up/down recalls earlier input",
		":vars   show top-level bindings",
		":reset  drop all bindings",
		":clear  wipe the transcript",
		":quit   leave the session",
	}
	return m.styles.panel.Render(strings.Join(lines, "\n"))
}

func runREPL() error {
	_, err := tea.NewProgram(newREPLModel(), tea.WithAltScreen()).Run()
	return err
}
