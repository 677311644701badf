// Package chart reads and writes StepMania note data and drives a step
// generator over it: every note row of a source chart becomes one or two
// Advance calls, and the chosen columns are written back as a new chart of
// the target layout.
package chart

import (
	"errors"
	"path/filepath"
	"strings"
)

// Format is a chart file format.
type Format int

const (
	SM Format = iota
	SSC
)

// String returns the file extension of the format.
func (f Format) String() string {
	if f == SSC {
		return "ssc"
	}
	return "sm"
}

// FormatOf returns the format of a chart file by its extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sm":
		return SM, true
	case ".ssc":
		return SSC, true
	}
	return SM, false
}

// Marker starts the description of every generated chart.
const Marker = "STEPGEN"

// EditDifficulty is written when generated charts are saved as edits.
const EditDifficulty = "Edit"

var (
	// ErrFiltered means the chart's meter is outside the requested range.
	ErrFiltered = errors.New("chart: meter outside difficulty range")
	// ErrAlreadyGenerated means the file already holds generated charts of the
	// target steps-type.
	ErrAlreadyGenerated = errors.New("chart: target already has generated charts")
)

// Line is one line of note data: a row of notes or a measure separator.
type Line struct {
	Cols  []int // active columns, at most two
	Width int   // number of columns in the source row
	Sep   bool  // measure separator
}

// Chart is one parsed chart.
type Chart struct {
	StepsType   string
	Description string
	Difficulty  string
	Meter       int
	MeterText   string
	Lines       []Line

	// SSC tags other than the ones above, in file order.
	Extra []Tag

	start, end int // byte span in the source contents
}

// Tag is one #KEY:VALUE; pair.
type Tag struct {
	Key   string
	Value string
}

// Autogen reports whether the chart was produced by this tool.
func (c Chart) Autogen() bool {
	return strings.HasPrefix(c.Description, Marker)
}

// Rows returns the number of note rows, not counting separators.
func (c Chart) Rows() int {
	n := 0
	for _, l := range c.Lines {
		if !l.Sep {
			n++
		}
	}
	return n
}

// Notes returns the number of active notes.
func (c Chart) Notes() int {
	n := 0
	for _, l := range c.Lines {
		n += len(l.Cols)
	}
	return n
}
