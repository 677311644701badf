package tui

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stepgen/internal/chart"
	"github.com/vovakirdan/stepgen/internal/stepgen"
	"github.com/vovakirdan/stepgen/internal/style"
)

// Preview layout constants
const (
	minWidthForSidebar = 60 // Minimum width to show the stats sidebar
	sidebarWidth       = 22 // Width of stats sidebar
	chromeHeight       = 6  // Title, blank lines and help bar
	playRate           = 8  // Rows per second while playing
)

// Preview is a chart file prepared for previewing one target layout.
type Preview struct {
	File   string
	From   *style.Layout
	To     *style.Layout
	Charts []chart.Chart // source charts, all of From's steps-type
	Params stepgen.Params
	Logger *log.Logger
}

// PreviewCharts returns the charts of contents that a preview of from can show.
func PreviewCharts(contents string, format chart.Format, from *style.Layout) ([]chart.Chart, error) {
	charts, err := chart.Parse(contents, format)
	if err != nil {
		return nil, err
	}
	var out []chart.Chart
	for _, ch := range charts {
		if ch.StepsType == from.StepsType() && !ch.Autogen() {
			out = append(out, ch)
		}
	}
	return out, nil
}

// PreviewModel is the Bubble Tea model that scrolls through a converted chart.
type PreviewModel struct {
	src      Preview
	params   stepgen.Params
	index    int // current source chart
	result   *chart.Result
	err      error
	offset   int // first visible row
	playing  bool
	keys     PreviewKeyMap
	help     help.Model
	width    int
	height   int
	quitting bool
}

// NewPreviewModel converts the first chart of src and returns a model showing it.
func NewPreviewModel(src Preview, width, height int) PreviewModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := PreviewModel{
		src:    src,
		params: src.Params,
		keys:   DefaultPreviewKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.convert()
	return m
}

// convert runs the generator over the current chart.
func (m *PreviewModel) convert() {
	m.offset = 0
	m.playing = false
	m.result = nil
	if len(m.src.Charts) == 0 {
		m.err = fmt.Errorf("no %s charts to convert", m.src.From.StepsType())
		return
	}
	m.result, m.err = chart.Convert(m.src.Charts[m.index], m.src.From, m.src.To, m.params, chart.Options{Logger: m.src.Logger})
}

// Init initializes the preview model.
func (m PreviewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the preview.
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scroll(0)
		return m, nil

	case TickMsg:
		if !m.playing {
			return m, nil
		}
		if m.offset >= m.maxOffset() {
			m.playing = false
			return m, nil
		}
		m.scroll(1)
		return m, tickCmd(playRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m PreviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		m.scroll(-1)
	case key.Matches(msg, m.keys.Down):
		m.scroll(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scroll(-m.visibleRows())
	case key.Matches(msg, m.keys.PageDown):
		m.scroll(m.visibleRows())
	case key.Matches(msg, m.keys.Top):
		m.offset = 0
	case key.Matches(msg, m.keys.Bottom):
		m.offset = m.maxOffset()

	case key.Matches(msg, m.keys.NextChart), key.Matches(msg, m.keys.PrevChart):
		if n := len(m.src.Charts); n > 1 {
			if key.Matches(msg, m.keys.NextChart) {
				m.index = (m.index + 1) % n
			} else {
				m.index = (m.index + n - 1) % n
			}
			m.convert()
		}

	case key.Matches(msg, m.keys.Regenerate):
		seed := rand.Uint64()
		m.params.Seed = &seed
		m.convert()

	case key.Matches(msg, m.keys.Play):
		if m.result == nil {
			return m, nil
		}
		m.playing = !m.playing
		if m.playing {
			return m, tickCmd(playRate)
		}
	}

	return m, nil
}

func (m *PreviewModel) scroll(delta int) {
	m.offset = max(0, min(m.offset+delta, m.maxOffset()))
}

func (m PreviewModel) visibleRows() int {
	return max(1, m.height-chromeHeight)
}

func (m PreviewModel) maxOffset() int {
	if m.result == nil {
		return 0
	}
	return max(0, len(m.result.Rows)-m.visibleRows())
}

// View renders the preview.
func (m PreviewModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText(m.title(), m.width)))
	b.WriteString("\n\n")

	if m.err != nil {
		errStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Padding(1, 2)
		b.WriteString(errStyle.Render(m.err.Error()))
	} else {
		b.WriteString(m.renderBody())
	}

	b.WriteString("\n\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m PreviewModel) title() string {
	parts := []string{filepath.Base(m.src.File), fmt.Sprintf("%s → %s", m.src.From.ID(), m.src.To.ID())}
	if len(m.src.Charts) > 0 {
		ch := m.src.Charts[m.index]
		parts = append(parts, fmt.Sprintf("%s %s (%d/%d)", ch.Difficulty, ch.MeterText, m.index+1, len(m.src.Charts)))
	}
	return strings.Join(parts, " · ")
}

// renderBody renders the visible rows and, on wide terminals, the stats sidebar.
func (m PreviewModel) renderBody() string {
	rows := m.result.Rows
	end := min(len(rows), m.offset+m.visibleRows())

	numStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	var body strings.Builder
	for i := m.offset; i < end; i++ {
		if i > m.offset {
			body.WriteByte('\n')
		}
		body.WriteString(numStyle.Render(fmt.Sprintf("%5d ", i+1)))
		body.WriteString(RenderRow(m.src.To, rows[i]))
	}
	if m.playing {
		body.WriteString("\n" + numStyle.Render("      ▶ playing"))
	}

	if m.width < minWidthForSidebar {
		return body.String()
	}

	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top, body.String(), "   ", sidebarStyle.Render(renderStats(m.result)))
}

// Result returns the conversion currently shown, nil if it failed.
func (m PreviewModel) Result() *chart.Result {
	return m.result
}

// Err returns the error of the current conversion.
func (m PreviewModel) Err() error {
	return m.err
}

// Offset returns the index of the first visible row.
func (m PreviewModel) Offset() int {
	return m.offset
}

// IsQuitting returns true if user wants to quit.
func (m PreviewModel) IsQuitting() bool {
	return m.quitting
}

// RunPreview runs the preview screen.
func RunPreview(src Preview, width, height int) error {
	p := tea.NewProgram(
		NewPreviewModel(src, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
