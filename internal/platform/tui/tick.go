// Package tui provides the Bubble Tea screens for stepgen: a scrolling
// preview of generated charts, a table over the conversion history and an
// SSH server that serves the preview via Wish.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg advances the preview by one row while it is playing.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(rowsPerSecond int) tea.Cmd {
	interval := time.Second / time.Duration(rowsPerSecond)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
