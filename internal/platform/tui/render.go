package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/stepgen/internal/chart"
	"github.com/vovakirdan/stepgen/internal/geom"
	"github.com/vovakirdan/stepgen/internal/style"
)

const (
	panelLit   = "■"
	panelUnlit = "·"
)

// footStyles colours a panel by the feet standing on it.
var footStyles = map[panelState]lipgloss.Style{
	panelOff:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	panelLeft:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	panelRight: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	panelBoth:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
}

var (
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	replayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type panelState int

const (
	panelOff panelState = iota
	panelLeft
	panelRight
	panelBoth
)

// panelStates returns, for each panel of the layout, which feet light it.
func panelStates(l *style.Layout, row chart.Row) []panelState {
	states := make([]panelState, l.NumPanels())
	for _, s := range row.Steps {
		lit := panelLeft
		if s.Foot == geom.Right {
			lit = panelRight
		}
		for _, p := range l.Panels(s.Col) {
			if states[p] != panelOff && states[p] != lit {
				states[p] = panelBoth
			} else {
				states[p] = lit
			}
		}
	}
	return states
}

// RenderRow draws one generated row with every panel coloured by foot.
// Measure separators render as a rule of the same width.
func RenderRow(l *style.Layout, row chart.Row) string {
	if row.Text == "" {
		return separatorStyle.Render(strings.Repeat("─", 2*l.NumPanels()-1))
	}

	var sb strings.Builder
	for i, st := range panelStates(l, row) {
		if i > 0 {
			sb.WriteByte(' ')
		}
		glyph := panelUnlit
		if st != panelOff {
			glyph = panelLit
		}
		sb.WriteString(footStyles[st].Render(glyph))
	}
	for _, s := range row.Steps {
		if s.Replayed {
			sb.WriteString(replayStyle.Render(" ↺"))
			break
		}
	}
	return sb.String()
}

// renderStats draws the per-foot counters of a converted chart.
func renderStats(res *chart.Result) string {
	st := res.Stats
	lines := []string{
		footStyles[panelLeft].Render("left ") + fmt.Sprintf(" %d", st.Steps[geom.Left]),
		footStyles[panelRight].Render("right") + fmt.Sprintf(" %d", st.Steps[geom.Right]),
		fmt.Sprintf("jumps      %d", st.Jumps),
		fmt.Sprintf("replays    %d", st.Replays),
		fmt.Sprintf("crossovers %d", st.Crossovers),
		"",
		fmt.Sprintf("seed %d", res.Seed),
		fmt.Sprintf("took %s", res.Duration.Round(time.Microsecond)),
	}
	return strings.Join(lines, "\n")
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
