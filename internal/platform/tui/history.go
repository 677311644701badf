package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/stepgen/internal/storage"
)

const (
	allStyles = "all"
	maxRuns   = 500 // Max runs to load
)

// HistoryModel is the Bubble Tea model for the conversion history screen.
type HistoryModel struct {
	store       *storage.Store
	styles      []string // allStyles followed by every target style seen
	styleCursor int
	stats       map[string]*storage.StyleStats
	runs        []storage.Run // runs of the selected style
	loadErr     error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		store:       store,
		styles:      []string{allStyles},
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar+20,
	}

	if store != nil {
		stats, err := store.Stats()
		if err != nil {
			m.loadErr = err
		} else {
			m.stats = stats
			for to := range stats {
				m.styles = append(m.styles, to)
			}
			sort.Strings(m.styles[1:])
		}
	}

	m.table = m.createTable()
	m.loadRuns()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "File", Width: 20},
		{Title: "To", Width: 14},
		{Title: "Chart", Width: 14},
		{Title: "Steps", Width: 6},
		{Title: "Status", Width: 8},
	}

	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}

	// Give the file column whatever is left
	fixed := 0
	for i, c := range columns {
		if i != 1 {
			fixed += c.Width + 2
		}
	}
	if w := tableWidth - fixed - 2; w > columns[1].Width {
		columns[1].Width = min(w, 40)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads the runs of the selected style.
func (m *HistoryModel) loadRuns() {
	m.runs = nil
	if m.store != nil {
		runs, err := m.store.RecentRuns(maxRuns)
		if err != nil {
			m.loadErr = err
		}
		selected := m.styles[m.styleCursor]
		for _, r := range runs {
			if selected == allStyles || r.To == selected {
				m.runs = append(m.runs, r)
			}
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			filepath.Base(r.File),
			r.To,
			fmt.Sprintf("%s %d", r.Difficulty, r.Meter),
			fmt.Sprintf("%d", r.Steps),
			r.Status,
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextStyle):
			m.styleCursor = (m.styleCursor + 1) % len(m.styles)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.PrevStyle):
			m.styleCursor--
			if m.styleCursor < 0 {
				m.styleCursor = len(m.styles) - 1
			}
			m.loadRuns()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar+20
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "HISTORY"
	if sel := m.styles[m.styleCursor]; sel != allStyles {
		title = fmt.Sprintf("HISTORY - %s", sel)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", tableRendered))
	} else {
		b.WriteString(centerText(m.renderTabs(), m.width))
		b.WriteString("\n\n")
		b.WriteString(tableRendered)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar lists the target styles with their aggregated counts.
func (m HistoryModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Styles\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, s := range m.styles {
		cursor := "  "
		st := lipgloss.NewStyle()
		if i == m.styleCursor {
			cursor = "> "
			st = st.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := s
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(st.Render(cursor + name))
		sidebar.WriteString("\n")
		if stats, ok := m.stats[s]; ok {
			sidebar.WriteString(fmt.Sprintf("    %d runs, %d failed\n", stats.Runs, stats.Failed))
		}
	}

	return sidebarStyle.Render(sidebar.String())
}

// renderTabs renders the target styles as tabs for narrow terminals.
func (m HistoryModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.styles))
	for i, s := range m.styles {
		if i == m.styleCursor {
			tabs[i] = activeTabStyle.Render(s)
		} else {
			tabs[i] = tabStyle.Render(" " + s + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.styles[m.styleCursor])
	}
	return tabLine
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.loadErr != nil {
		return emptyStyle.Render(fmt.Sprintf("Could not load history:\n%v", m.loadErr))
	}
	if len(m.runs) == 0 {
		return emptyStyle.Render("No conversions recorded yet.\nRun 'stepgen generate' to add some!")
	}

	return m.table.View()
}

// Runs returns the runs shown for the selected style.
func (m HistoryModel) Runs() []storage.Run {
	return m.runs
}

// SelectedStyle returns the style the table is filtered to.
func (m HistoryModel) SelectedStyle() string {
	return m.styles[m.styleCursor]
}

// RunHistory runs the history screen.
func RunHistory(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
