package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# devconsole

Type an expression and press **Enter** to evaluate it. The command and its
result (or error) are appended to the log.

| Key | Action |
|---|---|
| Enter | Execute |
| Up / Down | Previous / next command |
| PgUp / PgDn | Scroll the log |
| F1 | Toggle this help |
| Esc / Ctrl+C | Quit |

Typographic quotes and ellipses are converted to plain ASCII before
evaluation, so ` + "`console.log(’hi’)`" + ` works as typed.

In **sandboxed** mode every command runs in a fresh interpreter that can only
see language built-ins and ` + "`console`" + `. **Unrestricted** mode keeps globals
between commands and exposes host state such as ` + "`window`" + ` and ` + "`process.env`" + `.
`

// renderLog renders every record as one line.
func (m Model) renderLog() string {
	lines := make([]string, len(m.records))
	for i, r := range m.records {
		lines[i] = m.styles.RenderRecord(r)
	}
	return strings.Join(lines, "\n")
}

// renderHelp renders the help panel, falling back to raw markdown.
func (m Model) renderHelp() (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = helpMarkdown
		}
	}()
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(helpMarkdown); err == nil {
			return rendered
		}
	}
	return helpMarkdown
}

func (m Model) renderHeader() string {
	title := fmt.Sprintf(" devconsole  %s · %s ", m.language, m.mode)
	return m.styles.Header.Width(m.width).Render(title)
}

func (m Model) renderFooter() string {
	status := fmt.Sprintf("%d records", len(m.records))
	if m.executing {
		status = m.styles.Busy.Render("executing…") + " " + status
	}
	status += "  ·  Enter: execute  F1: help  Esc: quit"
	if m.logPath != "" {
		status += "  ·  log: " + m.logPath
	}
	return m.styles.Footer.Render(status)
}

// View renders the screen.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	content := m.viewport.View()
	if m.showHelp {
		content = lipgloss.NewStyle().
			Height(m.viewport.Height).
			MaxHeight(m.viewport.Height).
			Render(m.renderHelp())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.styles.Content.Render(content),
		m.styles.Input.Render(m.input.View()),
		m.renderFooter(),
	)
}
