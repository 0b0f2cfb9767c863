// Package tui is the interactive dashboard. It renders the store's merged
// view and turns key presses into store operations.
//
// Every store call runs in a tea.Cmd and reports back as a message, so
// results are applied one at a time by Update.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/dashboard"
	"taskdash/internal/service"
)

type pageLoadedMsg struct {
	page    int
	applied bool
	err     error
}

type toggledMsg struct {
	id        int64
	completed bool
	err       error
}

type addedMsg struct {
	task service.Task
	err  error
}

// Model is the Bubble Tea model of the dashboard.
type Model struct {
	ctx   context.Context
	store *dashboard.Store

	view     dashboard.View
	cursor   int
	loading  bool
	fetchErr error
	toggling map[int64]bool

	adding     bool
	submitting bool
	input      textinput.Model

	status    string
	statusErr bool

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width int
}

// New creates the dashboard model. Init requests page 1.
func New(ctx context.Context, store *dashboard.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. Review Q3 goals"
	ti.Prompt = "+ "
	ti.CharLimit = 200
	ti.Width = 40

	return Model{
		ctx:      ctx,
		store:    store,
		view:     store.MergedView(),
		loading:  true,
		toggling: make(map[int64]bool),
		input:    ti,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Run starts the dashboard on out and blocks until the user quits or ctx ends.
func Run(ctx context.Context, store *dashboard.Store, out io.Writer) error {
	p := tea.NewProgram(New(ctx, store),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.view.Page))
}

func (m Model) fetch(page int) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		applied, err := store.RequestPage(ctx, page)
		return pageLoadedMsg{page: page, applied: applied, err: err}
	}
}

func (m Model) reload() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		applied, err := store.Reload(ctx)
		return pageLoadedMsg{page: store.MergedView().Page, applied: applied, err: err}
	}
}

func (m Model) toggle(task service.Task) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		completed, err := store.Toggle(ctx, task)
		return toggledMsg{id: task.ID, completed: completed, err: err}
	}
}

func (m Model) add(title string) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		task, err := store.AddTask(ctx, title)
		return addedMsg{task: task, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.fetchErr = msg.err
			if errors.Is(msg.err, dashboard.ErrPageOutOfRange) {
				m.fetchErr = nil
				m.setStatus(msg.err.Error(), true)
			}
		} else if msg.applied {
			m.fetchErr = nil
			m.cursor = 0
		}
		m.refresh()
		return m, nil

	case toggledMsg:
		delete(m.toggling, msg.id)
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Failed to update todo status: %v", msg.err), true)
		}
		m.refresh()
		return m, nil

	case addedMsg:
		m.submitting = false
		if msg.err != nil {
			// Keep the typed title so the user can retry.
			m.setStatus(fmt.Sprintf("Failed to add todo: %v", msg.err), true)
			return m, nil
		}
		m.input.Reset()
		m.input.Blur()
		m.adding = false
		m.cursor = 0
		m.setStatus(fmt.Sprintf("Added #%d", msg.task.ID), false)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		title := strings.TrimSpace(m.input.Value())
		if title == "" || m.submitting {
			return m, nil
		}
		m.submitting = true
		m.status = ""
		return m, m.add(title)
	}

	if m.submitting {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Tasks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.cursor >= len(m.view.Tasks) {
			return m, nil
		}
		task := m.view.Tasks[m.cursor]
		if m.toggling[task.ID] || m.store.TogglePending(task.ID) {
			return m, nil
		}
		m.toggling[task.ID] = true
		m.status = ""
		return m, m.toggle(task)

	case key.Matches(msg, m.keys.Prev):
		if m.loading || !m.view.HasPrev() {
			return m, nil
		}
		return m.goTo(m.view.Page - 1)

	case key.Matches(msg, m.keys.Next):
		if m.loading || !m.view.HasNext() {
			return m, nil
		}
		return m.goTo(m.view.Page + 1)

	case key.Matches(msg, m.keys.Retry):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.status = ""
		return m, m.reload()

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.status = ""
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) goTo(page int) (tea.Model, tea.Cmd) {
	m.loading = true
	m.status = ""
	m.view.Page = page
	return m, m.fetch(page)
}

// refresh re-reads the merged view and keeps the cursor in range.
func (m *Model) refresh() {
	page := m.view.Page
	m.view = m.store.MergedView()
	if m.loading {
		m.view.Page = page
	}
	if m.cursor >= len(m.view.Tasks) {
		m.cursor = len(m.view.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}
