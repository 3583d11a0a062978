package model

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/recall/internal/application/usecase"
	"github.com/bnema/recall/internal/cli/styles"
	"github.com/bnema/recall/internal/domain/autocomplete"
	"github.com/bnema/recall/internal/domain/entity"
)

// QueryUpdater schedules a debounced search. usecase.LiveSearch implements it.
type QueryUpdater interface {
	Update(query string) uint64
}

// TextResolver maps typed text to a URL to open.
type TextResolver interface {
	Resolve(ctx context.Context, text string) string
}

// PickerModel is the Bubble Tea model for the interactive history picker.
// Keystrokes feed the live search; its results arrive on a channel.
type PickerModel struct {
	search textinput.Model
	help   help.Model
	keys   styles.PickerKeyMap

	results    []entity.SearchResult
	completion *autocomplete.Completion
	accepted   *autocomplete.Completion
	cursor     int
	navigated  bool
	query      string
	selected   string
	canceled   bool
	width      int
	height     int

	ctx      context.Context
	live     QueryUpdater
	resolver TextResolver
	incoming <-chan usecase.LiveResult
	theme    *styles.Theme
	now      func() time.Time
}

// NewPickerModel creates a picker. incoming must carry the live search deliveries.
func NewPickerModel(
	ctx context.Context,
	theme *styles.Theme,
	live QueryUpdater,
	resolver TextResolver,
	incoming <-chan usecase.LiveResult,
) PickerModel {
	search := styles.NewSearchInput(theme)
	search.Focus()

	return PickerModel{
		search:   search,
		help:     styles.NewStyledHelp(theme),
		keys:     styles.DefaultPickerKeyMap(),
		ctx:      ctx,
		live:     live,
		resolver: resolver,
		incoming: incoming,
		theme:    theme,
		now:      time.Now,
		width:    80,
		height:   24,
	}
}

// liveResultMsg wraps a live search delivery.
type liveResultMsg usecase.LiveResult

// waitForResult blocks until the next delivery. A closed channel ends the loop.
func waitForResult(ch <-chan usecase.LiveResult) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return liveResultMsg(r)
	}
}

// Init implements tea.Model. The empty query shows the recent list.
func (m PickerModel) Init() tea.Cmd {
	m.live.Update("")
	return tea.Batch(
		textinput.Blink,
		waitForResult(m.incoming),
	)
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Complete) {
			if suffix, ok := m.completionSuffix(); ok && m.search.Position() == len(m.search.Value()) {
				m.search.SetValue(m.query + suffix)
				m.search.CursorEnd()
				m.query = m.search.Value()
				m.accepted, m.completion = m.completion, nil
				m.navigated = false
				m.live.Update(m.query)
				return m, nil
			}
		}

		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.canceled = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Open):
			m.selected = m.pick()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.navigated = true
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
				m.navigated = true
			}

		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			cmds = append(cmds, cmd)

			if value := m.search.Value(); value != m.query {
				m.query = value
				m.navigated = false
				m.live.Update(value)
			}
		}

	case liveResultMsg:
		if msg.Output != nil {
			m.results = msg.Output.Results
			m.completion = msg.Output.Completion
			m.cursor = 0
			m.navigated = false
		}
		cmds = append(cmds, waitForResult(m.incoming))
	}

	return m, tea.Batch(cmds...)
}

// completionSuffix returns the part of the last completion not yet typed.
// Results lag keystrokes, so the completion is checked against the current text.
func (m PickerModel) completionSuffix() (string, bool) {
	if m.completion == nil {
		return "", false
	}
	return autocomplete.CompletionSuffix(m.query, m.completion.Text)
}

// pick returns the URL to open. An explicitly highlighted row wins; otherwise
// typed text goes through the resolver, so a typed URL opens verbatim.
func (m PickerModel) pick() string {
	if m.navigated && m.cursor < len(m.results) {
		return m.results[m.cursor].URL
	}
	if m.accepted != nil && strings.EqualFold(m.query, m.accepted.Text) {
		return m.accepted.URL
	}
	if m.query != "" {
		return m.resolver.Resolve(m.ctx, m.query)
	}
	if len(m.results) > 0 {
		return m.results[m.cursor].URL
	}
	return ""
}

// View implements tea.Model.
func (m PickerModel) View() string {
	t := m.theme

	input := m.search.View()
	if suffix, ok := m.completionSuffix(); ok {
		input += t.Subtle.Render(suffix)
	}
	searchBar := t.InputBox(input, true)

	listHeight := m.height - 7 // search box, spacing, help
	if listHeight < 4 {
		listHeight = 4
	}
	listView := t.RenderResults(m.results, m.cursor, m.width, listHeight, m.now())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		searchBar,
		"",
		listView,
		"",
		m.help.View(m.keys),
	)
}

// SelectedURL returns the URL chosen by the user, or "" when nothing was chosen.
func (m PickerModel) SelectedURL() string {
	return m.selected
}

// Canceled reports whether the user quit without choosing.
func (m PickerModel) Canceled() bool {
	return m.canceled
}

// Ensure interface compliance.
var _ tea.Model = (*PickerModel)(nil)
