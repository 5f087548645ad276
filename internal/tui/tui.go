package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/qttools/internal/prompt"
	"github.com/sokinpui/qttools/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))           // Orange
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))           // Red
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

var (
	// ErrClosed is returned to a waiting prompt when the UI has exited.
	ErrClosed = errors.New("prompt UI closed")
	// ErrProgram marks a failure of the terminal UI itself, such as a
	// missing TTY. These errors are not rendered by the UI.
	ErrProgram = errors.New("error running prompt UI")
)

// Task is the work run on the worker goroutine. It prompts through the
// driver it is given.
type Task func(ctx context.Context, d prompt.Driver) (model.Summary, error)

// --- Messages ---

type promptKind int

const (
	promptText promptKind = iota
	promptChoice
)

// promptMsg asks the UI goroutine to show a prompt. reply has capacity one
// and receives exactly one value: the answer, or "" on cancel.
type promptMsg struct {
	kind         promptKind
	caption      string
	initial      string
	options      []string
	defaultIndex int
	reply        chan string
}

type doneMsg struct {
	summary model.Summary
	err     error
}

// --- Host ---

type sender interface {
	Send(msg tea.Msg)
}

var _ prompt.Driver = (*Host)(nil)

// Host is the prompt driver backed by the running program. Its methods are
// called from the worker goroutine.
type Host struct {
	program sender
	done    chan struct{}
}

func (h *Host) Text(ctx context.Context, caption, initial string) (string, error) {
	return h.ask(ctx, promptMsg{kind: promptText, caption: caption, initial: initial})
}

func (h *Host) Choice(ctx context.Context, options []string, placeholder string, defaultIndex int) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	return h.ask(ctx, promptMsg{kind: promptChoice, caption: placeholder, options: options, defaultIndex: defaultIndex})
}

func (h *Host) ask(ctx context.Context, msg promptMsg) (string, error) {
	select {
	case <-h.done:
		return "", ErrClosed
	default:
	}

	msg.reply = make(chan string, 1)
	h.program.Send(msg)

	select {
	case answer := <-msg.reply:
		return answer, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-h.done:
		return "", ErrClosed
	}
}

// --- Model ---

type state int

const (
	stateWorking state = iota
	statePrompting
	stateSummary
	stateError
)

// Options tune the presentation.
type Options struct {
	NoAnimation bool
}

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	host   *Host
	task   Task
	opts   Options

	spinner spinner.Model
	input   textinput.Model
	choices list.Model
	pending *promptMsg

	state   state
	summary model.Summary
	err     error
	width   int
	height  int
}

func New(ctx context.Context, cancel context.CancelFunc, host *Host, task Task, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:     ctx,
		cancel:  cancel,
		host:    host,
		task:    task,
		opts:    opts,
		spinner: s,
		state:   stateWorking,
		width:   60,
		height:  16,
	}
}

// Run owns the calling goroutine for the UI and executes task on a worker
// goroutine. It returns once the task has finished and the UI has exited.
func Run(ctx context.Context, task Task, opts Options) (model.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	host := &Host{done: make(chan struct{})}
	p := tea.NewProgram(New(ctx, cancel, host, task, opts), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	host.program = p

	final, err := p.Run()
	close(host.done)
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return model.Summary{}, fmt.Errorf("%w: %w", ErrProgram, err)
	}

	m, ok := final.(Model)
	if !ok {
		return model.Summary{}, ErrClosed
	}
	if m.state != stateSummary && m.state != stateError {
		// The UI exited before the task reported back.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.Summary{Message: "Canceled.", Canceled: true}, nil
		}
		return model.Summary{}, ErrClosed
	}
	return m.summary, m.err
}

func (m Model) Init() tea.Cmd {
	if m.opts.NoAnimation {
		return m.runTask
	}
	return tea.Batch(m.spinner.Tick, m.runTask)
}

func (m Model) runTask() tea.Msg {
	summary, err := m.task(m.ctx, m.host)
	return doneMsg{summary: summary, err: err}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.pending != nil && m.pending.kind == promptChoice {
			m.choices.SetSize(m.width, m.listHeight(len(m.pending.options)))
		}
		return m, nil

	case promptMsg:
		return m.showPrompt(msg)

	case doneMsg:
		if m.pending != nil {
			m.answer("")
		}
		m.summary = msg.summary
		m.err = msg.err
		if msg.err != nil {
			m.state = stateError
		} else {
			m.state = stateSummary
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if m.state == statePrompting {
			return m.updatePrompt(msg)
		}
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		return m, nil
	}

	if m.state == statePrompting {
		return m.forward(msg)
	}
	if m.state == stateWorking && !m.opts.NoAnimation {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) showPrompt(msg promptMsg) (tea.Model, tea.Cmd) {
	if m.pending != nil {
		// One prompt at a time; a second request is dismissed.
		msg.reply <- ""
		return m, nil
	}
	m.pending = &msg
	m.state = statePrompting

	switch msg.kind {
	case promptChoice:
		items := make([]list.Item, len(msg.options))
		for i, o := range msg.options {
			items[i] = choiceItem(o)
		}
		d := list.NewDefaultDelegate()
		d.ShowDescription = false
		d.SetSpacing(0)

		l := list.New(items, d, m.width, m.listHeight(len(items)))
		l.Title = msg.caption
		l.Styles.Title = headerStyle
		l.SetShowStatusBar(false)
		l.KeyMap.Quit.SetEnabled(false)
		if msg.defaultIndex >= 0 && msg.defaultIndex < len(items) {
			l.Select(msg.defaultIndex)
		}
		m.choices = l
		return m, nil

	default:
		ti := textinput.New()
		ti.Prompt = "> "
		ti.SetValue(msg.initial)
		ti.CursorEnd()
		cmd := ti.Focus()
		m.input = ti
		return m, cmd
	}
}

func (m Model) listHeight(n int) int {
	h := n + 6
	if m.height > 0 && h > m.height {
		h = m.height
	}
	return h
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtering := m.pending.kind == promptChoice && m.choices.SettingFilter()

	switch msg.String() {
	case "ctrl+c":
		return m.finishPrompt("")
	case "esc":
		if !filtering {
			return m.finishPrompt("")
		}
	case "enter":
		if filtering {
			break
		}
		if m.pending.kind == promptText {
			return m.finishPrompt(m.input.Value())
		}
		if item, ok := m.choices.SelectedItem().(choiceItem); ok {
			return m.finishPrompt(string(item))
		}
		return m.finishPrompt("")
	}
	return m.forward(msg)
}

func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.pending.kind == promptChoice {
		m.choices, cmd = m.choices.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// finishPrompt delivers the answer and resumes the spinner.
func (m Model) finishPrompt(answer string) (tea.Model, tea.Cmd) {
	m.answer(answer)
	m.state = stateWorking
	if m.opts.NoAnimation {
		return m, nil
	}
	return m, m.spinner.Tick
}

func (m *Model) answer(answer string) {
	m.pending.reply <- answer
	m.pending = nil
}

func (m Model) View() string {
	switch m.state {
	case stateWorking:
		if m.opts.NoAnimation {
			return ""
		}
		return fmt.Sprintf("%s Working...", m.spinner.View())
	case statePrompting:
		if m.pending.kind == promptChoice {
			return m.choices.View()
		}
		return headerStyle.Render(m.pending.caption) + "\n" +
			m.input.View() + "\n" +
			faintStyle.Render("enter confirm • esc cancel")
	case stateError:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m *Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Message != "" {
		b.WriteString(headerStyle.Render(m.summary.Message))
		b.WriteString("\n")
	}

	hasContent := false
	if len(m.summary.Created) > 0 {
		hasContent = true
		b.WriteString(successStyle.Render("Created:"))
		b.WriteString("\n")
		for _, f := range m.summary.Created {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if len(m.summary.Modified) > 0 {
		hasContent = true
		b.WriteString(warningStyle.Render("Overwritten:"))
		b.WriteString("\n")
		for _, f := range m.summary.Modified {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if len(m.summary.Failed) > 0 {
		hasContent = true
		b.WriteString(errorStyle.Render("Failed:"))
		b.WriteString("\n")
		for _, f := range m.summary.Failed {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}

	if !hasContent && m.summary.Message == "" {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

// choiceItem is a list entry rendered by the default delegate.
type choiceItem string

func (i choiceItem) Title() string       { return string(i) }
func (i choiceItem) Description() string { return "" }
func (i choiceItem) FilterValue() string { return string(i) }
