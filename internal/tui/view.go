package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"taskdash/internal/service"
)

var (
	accent = lipgloss.Color("#14b8a6")
	muted  = lipgloss.Color("241")
	faint  = lipgloss.Color("238")
	bright = lipgloss.Color("252")
	danger = lipgloss.Color("#ef4444")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	subtitleStyle = lipgloss.NewStyle().Foreground(muted)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(faint).Padding(0, 1)
	spinnerStyle  = lipgloss.NewStyle().Foreground(accent)

	rowStyle       = lipgloss.NewStyle().Foreground(bright)
	doneStyle      = lipgloss.NewStyle().Foreground(muted).Strikethrough(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(accent).Bold(true)
	checkedStyle   = lipgloss.NewStyle().Foreground(accent)
	uncheckedStyle = lipgloss.NewStyle().Foreground(muted)
	newBadgeStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	idStyle        = lipgloss.NewStyle().Foreground(faint)

	pillStyle   = lipgloss.NewStyle().Foreground(muted)
	footerStyle = lipgloss.NewStyle().Foreground(muted)
	okStyle     = lipgloss.NewStyle().Foreground(accent)
	errStyle    = lipgloss.NewStyle().Foreground(danger)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Focus."))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Your daily task command center."))
	b.WriteString("  ")
	b.WriteString(pillStyle.Render(fmt.Sprintf("● %d TASKS TOTAL", m.view.TotalCount)))
	b.WriteString("\n\n")

	b.WriteString(panelStyle.Render(m.body()))
	b.WriteString("\n")

	if m.adding {
		b.WriteString(m.input.View())
		if m.submitting {
			b.WriteString(" " + m.spinner.View())
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = errStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	var keys help.KeyMap = m.keys
	if m.adding {
		keys = inputKeys{m.keys}
	}
	b.WriteString(m.help.View(keys))
	b.WriteString("\n")

	return b.String()
}

// body renders the task list and pagination footer.
func (m Model) body() string {
	// Nothing to show yet.
	if !m.view.Loaded {
		if m.fetchErr != nil {
			return errStyle.Render("Error loading todos") + "\n" +
				errStyle.Render(m.fetchErr.Error()) + "\n" +
				footerStyle.Render("press r to try again")
		}
		return m.spinner.View() + " Loading..."
	}

	var b strings.Builder
	if len(m.view.Tasks) == 0 {
		b.WriteString(subtitleStyle.Render("No todos found. Add one to get started!"))
		b.WriteString("\n")
	}
	for i, task := range m.view.Tasks {
		b.WriteString(m.row(i, task))
		b.WriteString("\n")
	}

	if m.fetchErr != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("Error loading todos: %v (press r to retry)", m.fetchErr)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.pagination())
	return b.String()
}

func (m Model) row(i int, task service.Task) string {
	pointer := "  "
	if i == m.cursor {
		pointer = cursorStyle.Render("> ")
	}

	check := uncheckedStyle.Render("[ ]")
	switch {
	case m.toggling[task.ID]:
		check = "[" + m.spinner.View() + "]"
	case task.Completed:
		check = checkedStyle.Render("[x]")
	}

	title := rowStyle.Render(task.Title)
	if task.Completed {
		title = doneStyle.Render(task.Title)
	}

	line := pointer + check + " " + title
	if task.IsLocal {
		line += "  " + newBadgeStyle.Render("NEW")
	}
	line += "  " + idStyle.Render(fmt.Sprintf("#%d", task.ID))
	return line
}

func (m Model) pagination() string {
	prev, next := "‹ Prev", "Next ›"
	if m.loading || !m.view.HasPrev() {
		prev = idStyle.Render(prev)
	}
	if m.loading || !m.view.HasNext() {
		next = idStyle.Render(next)
	}

	middle := fmt.Sprintf("%d / %d", m.view.Page, m.view.TotalPages)
	if m.loading {
		middle += " " + m.spinner.View()
	}
	return prev + "   " + footerStyle.Render(middle) + "   " + next
}
