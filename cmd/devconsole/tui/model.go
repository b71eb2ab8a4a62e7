// Package tui provides the interactive terminal console: a scrolling log
// view above a command input.
package tui

import (
	"context"

	"devconsole/cmd/devconsole/ui"
	"devconsole/internal/logbuf"
	"devconsole/internal/pipeline"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

const (
	headerHeight = 1
	footerHeight = 1
	inputHeight  = 3
)

// Config holds what the console screen needs from the rest of the program.
type Config struct {
	Session *pipeline.Session
	Styles  ui.Styles
	// Mode and Language are shown in the header.
	Mode     string
	Language string
	// LogPath is shown in the footer when debug logging writes to a file.
	LogPath string
	Logger  *zap.Logger
}

// Model is the bubbletea model for the console screen.
type Model struct {
	// UI Components
	input    textinput.Model
	viewport viewport.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	session *pipeline.Session
	buf     *logbuf.Buffer
	updates <-chan struct{}
	records []logbuf.Record

	mode     string
	language string
	logPath  string
	logger   *zap.Logger
	ctx      context.Context

	executing  bool
	showHelp   bool
	historyIdx int

	ready  bool
	width  int
	height int
}

// recordsMsg signals that the buffer grew outside of an execution.
type recordsMsg struct{}

// executedMsg carries a finished execution back to Update.
type executedMsg struct {
	outcome pipeline.Outcome
	err     error
}

// New builds the console model.
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Enter command"
	ti.Prompt = "> "
	ti.PromptStyle = cfg.Styles.Prompt
	ti.TextStyle = cfg.Styles.UserInput
	ti.Width = 80
	ti.Focus()

	vp := viewport.New(80, 20)

	buf := cfg.Session.Pipeline().Buffer()
	m := Model{
		input:    ti,
		viewport: vp,
		styles:   cfg.Styles,
		session:  cfg.Session,
		buf:      buf,
		updates:  buf.Subscribe(),
		mode:     cfg.Mode,
		language: cfg.Language,
		logPath:  cfg.LogPath,
		logger:   logger,
		ctx:      context.Background(),
	}
	m.historyIdx = len(m.session.History())
	m.refresh()
	return m
}

// Init starts the cursor blink and the buffer subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForRecords(m.updates))
}

func waitForRecords(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return recordsMsg{}
	}
}

// execute submits the command on the session off the UI goroutine.
func (m Model) execute(text string) tea.Cmd {
	session := m.session
	ctx := m.ctx
	session.SetInput(text)
	return func() tea.Msg {
		out, err := session.Submit(ctx)
		return executedMsg{outcome: out, err: err}
	}
}

// refresh re-reads records appended since the last render.
func (m *Model) refresh() {
	if fresh := m.buf.Since(len(m.records)); len(fresh) > 0 {
		m.records = append(m.records, fresh...)
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderLog())
	if atBottom || m.executing {
		m.viewport.GotoBottom()
	}
}

// Records returns the records currently displayed.
func (m Model) Records() []logbuf.Record {
	return m.records
}

// Executing reports whether a command is in flight.
func (m Model) Executing() bool {
	return m.executing
}

// InputValue returns the current input text.
func (m Model) InputValue() string {
	return m.input.Value()
}

// Run starts the console program on the alternate screen.
func Run(cfg Config) error {
	p := tea.NewProgram(
		New(cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
