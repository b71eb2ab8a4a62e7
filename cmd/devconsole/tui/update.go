package tui

import (
	"devconsole/cmd/devconsole/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// Update handles messages and user input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case executedMsg:
		m.executing = false
		if msg.err != nil {
			m.logger.Warn("execution rejected", zap.Error(msg.err))
		}
		m.input.SetValue("")
		m.historyIdx = len(m.session.History())
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case recordsMsg:
		m.refresh()
		return m, waitForRecords(m.updates)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyF1:
		m.showHelp = !m.showHelp
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyUp:
		m.recall(-1)
		return m, nil

	case tea.KeyDown:
		m.recall(1)
		return m, nil

	case tea.KeyEnter:
		if m.executing {
			return m, nil
		}
		m.executing = true
		m.showHelp = false
		return m, m.execute(m.input.Value())
	}

	if m.executing {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// recall moves through submitted commands. Moving past the newest entry
// returns to an empty input.
func (m *Model) recall(delta int) {
	if m.executing {
		return
	}
	history := m.session.History()
	idx := m.historyIdx + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(history) {
		m.historyIdx = len(history)
		m.input.SetValue("")
		return
	}
	m.historyIdx = idx
	m.input.SetValue(history[idx])
	m.input.CursorEnd()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := height - headerHeight - footerHeight - inputHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = width - 2
	m.viewport.Height = vpHeight
	m.input.Width = width - 6
	m.ready = true

	m.renderer = newHelpRenderer(m.styles, width-4)
	m.refresh()
	m.viewport.GotoBottom()
}

func newHelpRenderer(styles ui.Styles, wrap int) *glamour.TermRenderer {
	if wrap < 20 {
		wrap = 20
	}
	style := "light"
	if styles.Theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}
