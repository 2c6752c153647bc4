// Package browser provides the interactive ticket browser.
package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mzrithm/zenview/internal/store"
	"github.com/mzrithm/zenview/internal/ticket"
	"github.com/mzrithm/zenview/internal/tui"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeDetail
)

// Model is the interactive browser over a loaded ticket store.
type Model struct {
	store     *store.TicketStore
	system    string
	fetchedAt time.Time

	results []ticket.Ticket // current filter results, all pages
	term    string          // active subject filter, empty = all tickets
	page    int             // 1-indexed
	cursor  int             // index within the visible page

	mode     mode
	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// New creates a browser over the given store. system names the helpdesk the
// tickets came from and fetchedAt is when they were retrieved.
func New(st *store.TicketStore, system string, fetchedAt time.Time) Model {
	input := textinput.New()
	input.Placeholder = "subject contains..."
	input.CharLimit = 80

	m := Model{
		store:     st,
		system:    system,
		fetchedAt: fetchedAt,
		page:      1,
		input:     input,
	}
	m.refresh()
	return m
}

// refresh recomputes results for the active filter and clamps the page.
func (m *Model) refresh() {
	if m.term == "" {
		m.results = m.store.Match(func(ticket.Ticket) bool { return true })
	} else {
		needle := strings.ToLower(m.term)
		m.results = m.store.Match(func(t ticket.Ticket) bool {
			return strings.Contains(strings.ToLower(t.Subject), needle)
		})
	}

	if pages := m.totalPages(); m.page > pages {
		m.page = pages
	}
	if m.page < 1 {
		m.page = 1
	}
	m.clampCursor()
}

func (m *Model) totalPages() int {
	return m.store.Pages(len(m.results))
}

// visible returns the tickets on the current page.
func (m *Model) visible() []ticket.Ticket {
	size := m.store.PageSize()
	start := (m.page - 1) * size
	if start >= len(m.results) {
		return nil
	}
	end := start + size
	if end > len(m.results) {
		end = len(m.results)
	}
	return m.results[start:end]
}

func (m *Model) clampCursor() {
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the ticket under the cursor, if any.
func (m *Model) selected() (ticket.Ticket, bool) {
	page := m.visible()
	if m.cursor < 0 || m.cursor >= len(page) {
		return ticket.Ticket{}, false
	}
	return page[m.cursor], true
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.term != "" {
			m.term = ""
			m.page = 1
			m.cursor = 0
			m.refresh()
		}

	case "/":
		m.mode = modeSearch
		m.input.SetValue(m.term)
		m.input.Focus()
		return m, textinput.Blink

	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "]", "right", "l":
		if m.page < m.totalPages() {
			m.page++
			m.cursor = 0
		}

	case "[", "left", "h":
		if m.page > 1 {
			m.page--
			m.cursor = 0
		}

	case "g":
		m.page = 1
		m.cursor = 0

	case "G":
		if pages := m.totalPages(); pages > 0 {
			m.page = pages
			m.cursor = 0
		}

	case "enter":
		if t, ok := m.selected(); ok {
			m.mode = modeDetail
			m.viewport.SetContent(m.renderDetail(t))
			m.viewport.GotoTop()
		}
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.term = strings.TrimSpace(m.input.Value())
		m.mode = modeList
		m.input.Blur()
		m.page = 1
		m.cursor = 0
		m.refresh()
		return m, nil

	case "esc":
		m.mode = modeList
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.mode = modeList
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.mode == modeDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder

	title := fmt.Sprintf("%s Tickets", m.system)
	info := fmt.Sprintf("%d tickets · page %d/%d", len(m.results), m.page, max(m.totalPages(), 1))
	if m.term != "" {
		info = fmt.Sprintf("filter %q · %s", m.term, info)
	}
	b.WriteString(tui.StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(tui.StyleMuted.Render(info))
	b.WriteString("\n")
	b.WriteString(tui.StyleMuted.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteString("\n")

	if m.mode == modeSearch {
		b.WriteString("/" + m.input.View())
		b.WriteString("\n")
	}

	page := m.visible()
	if len(page) == 0 {
		b.WriteString(tui.StyleMuted.Render("No tickets to display"))
		b.WriteString("\n")
	}
	for i, t := range page {
		b.WriteString(m.renderLine(t, i == m.cursor && m.mode == modeList))
		b.WriteString("\n")
	}

	b.WriteString(tui.StyleMuted.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderLine(t ticket.Ticket, selected bool) string {
	status := lipgloss.NewStyle().Foreground(tui.StatusColor(t.Status)).Render("●")
	id := tui.StyleID.Render(fmt.Sprintf("#%-6d", t.ID))

	subject := t.Subject
	if maxLen := m.width - 30; maxLen > 10 && len(subject) > maxLen {
		subject = subject[:maxLen-3] + "..."
	}
	if selected {
		subject = tui.StyleSelected.Render(subject)
	}

	tags := ""
	if len(t.Tags) > 0 {
		tags = "  " + tui.StyleTag.Render(strings.Join(t.Tags, ", "))
	}

	cursor := "  "
	if selected {
		cursor = tui.StyleTitle.Render("> ")
	}
	return cursor + status + " " + id + " " + subject + tags
}

func (m Model) renderFooter() string {
	age := ""
	if !m.fetchedAt.IsZero() {
		age = fmt.Sprintf("  │  fetched %s", m.fetchedAt.Format("Jan 2 15:04"))
	}
	help := "[q] quit  [/] filter  [esc] clear  [enter] detail  [[/]] page  [↑↓] move"
	return tui.StyleMuted.Render(help + age)
}

func (m Model) viewDetail() string {
	var b strings.Builder
	t, _ := m.selected()

	b.WriteString(tui.StyleTitle.Render(fmt.Sprintf("Ticket #%d", t.ID)))
	b.WriteString("  ")
	b.WriteString(tui.StyleMuted.Render(t.Subject))
	b.WriteString("\n")
	b.WriteString(tui.StyleMuted.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(tui.StyleMuted.Render("[esc] back  [↑↓] scroll"))
	return b.String()
}

func (m Model) renderDetail(t ticket.Ticket) string {
	var b strings.Builder

	statusStyle := lipgloss.NewStyle().Foreground(tui.StatusColor(t.Status))
	b.WriteString(fmt.Sprintf("%s %s    %s %s\n",
		tui.StyleHeader.Render("Status:"), statusStyle.Render(t.Status),
		tui.StyleHeader.Render("Priority:"), t.Priority))
	b.WriteString(fmt.Sprintf("%s %d    %s %d\n",
		tui.StyleHeader.Render("Requester:"), t.RequesterID,
		tui.StyleHeader.Render("Assignee:"), t.AssigneeID))
	if len(t.Tags) > 0 {
		b.WriteString(tui.StyleHeader.Render("Tags: "))
		b.WriteString(tui.StyleTag.Render(strings.Join(t.Tags, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderMarkdown(t.Description, m.width))
	b.WriteString("\n")
	if !t.FetchedAt.IsZero() {
		b.WriteString(tui.StyleMuted.Render("API called: " + t.FetchedAt.Format(time.RFC1123)))
	}
	return b.String()
}

// renderMarkdown renders a ticket description with glamour, falling back to
// the raw text when rendering fails.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}


