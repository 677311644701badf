// Package style describes the physical pad layouts the generator can target.
// Every layout is a row in a static table: the coordinate of each physical
// panel plus the logical columns a foot can land on, each of which lights one
// or more panels. Layouts are immutable and safe to share between goroutines.
package style

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/stepgen/internal/geom"
)

// ID is the stable identifier of a layout (e.g. "itg-singles").
type ID string

// String returns the identifier.
func (id ID) String() string {
	return string(id)
}

// barDepth is how far behind the rearmost panel row the bar sits.
const barDepth = 1.0

// Layout is one pad geometry. All methods are pure lookups.
type Layout struct {
	id        ID
	title     string
	stepsType string
	pads      int
	panels    []geom.Coord
	columns   [][]int
	coords    []geom.Coord
	initCols  [2]int
	minX      float64
	maxX      float64
	minY      float64
}

// ID returns the layout identifier.
func (l *Layout) ID() ID {
	return l.id
}

// Title returns a human-readable name.
func (l *Layout) Title() string {
	return l.title
}

// StepsType returns the chart steps-type this layout is written as
// (e.g. "dance-double").
func (l *Layout) StepsType() string {
	return l.stepsType
}

// Pads returns the number of physical pads the layout spans.
func (l *Layout) Pads() int {
	return l.pads
}

// NumCols returns the number of logical columns a foot can be placed on.
func (l *Layout) NumCols() int {
	return len(l.columns)
}

// NumPanels returns the number of physical panels, i.e. the width of a row
// in the written chart.
func (l *Layout) NumPanels() int {
	return len(l.panels)
}

// HasBrackets reports whether any logical column lights more than one panel.
func (l *Layout) HasBrackets() bool {
	return len(l.columns) != len(l.panels)
}

// Coord returns the position of a logical column: the centroid of its panels.
// Panics if col is out of range.
func (l *Layout) Coord(col int) geom.Coord {
	l.checkCol(col)
	return l.coords[col]
}

// Panels returns the physical panels lit by a logical column.
// Panics if col is out of range.
func (l *Layout) Panels(col int) []int {
	l.checkCol(col)
	out := make([]int, len(l.columns[col]))
	copy(out, l.columns[col])
	return out
}

// InitCol returns the column a foot starts a chart on.
func (l *Layout) InitCol(f geom.Foot) int {
	return l.initCols[f]
}

// InitPos returns the midpoint of both feet's starting columns.
func (l *Layout) InitPos() geom.Coord {
	a := l.Coord(l.initCols[geom.Left])
	b := l.Coord(l.initCols[geom.Right])
	return a.Add(b).Scale(0.5)
}

// MaxX returns the largest x coordinate of any column.
func (l *Layout) MaxX() float64 {
	return l.maxX
}

// CenterX returns the horizontal center of the layout.
func (l *Layout) CenterX() float64 {
	return (l.minX + l.maxX) / 2
}

// Bar returns the reference point behind the pad used to measure body twist.
func (l *Layout) Bar() geom.Coord {
	return geom.C(l.CenterX(), l.minY-barDepth)
}

// Row renders the given logical columns as one chart row of NumPanels
// characters, '1' for every lit panel and '0' elsewhere.
func (l *Layout) Row(cols []int) string {
	row := []byte(strings.Repeat("0", len(l.panels)))
	for _, c := range cols {
		for _, p := range l.Panels(c) {
			row[p] = '1'
		}
	}
	return string(row)
}

func (l *Layout) checkCol(col int) {
	if col < 0 || col >= len(l.columns) {
		panic(fmt.Sprintf("style: column %d out of range for %s (%d columns)", col, l.id, len(l.columns)))
	}
}
