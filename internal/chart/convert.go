package chart

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stepgen/internal/stepgen"
	"github.com/vovakirdan/stepgen/internal/style"
)

// Options control how generated charts are labelled.
type Options struct {
	Edits  bool   // write generated charts with the Edit difficulty
	Extra  string // appended to the description marker
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// Row is one line of a generated chart.
type Row struct {
	Steps []stepgen.Step // steps taken on this row
	Text  string         // lit panels, empty for a measure separator
}

// Result is one converted chart.
type Result struct {
	Source   Chart
	Target   style.ID
	Chart    Chart // metadata of the generated chart
	Rows     []Row
	Seed     uint64
	Stats    stepgen.Stats
	Duration time.Duration
}

// Render writes the generated chart.
func (r *Result) Render(format Format) string {
	rows := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = row.Text
	}
	return Render(r.Chart, rows, format)
}

// Convert runs a generator over one chart. The chart must be written for the
// source layout. When p has no seed, one is derived from the note data and the
// target layout so identical input always converts identically.
func Convert(ch Chart, from, to *style.Layout, p stepgen.Params, opts Options) (*Result, error) {
	began := time.Now()
	if ch.StepsType != from.StepsType() {
		return nil, fmt.Errorf("chart: %s chart is not %s", ch.StepsType, from.StepsType())
	}
	if p.MinDifficulty != nil && ch.Meter < *p.MinDifficulty ||
		p.MaxDifficulty != nil && ch.Meter > *p.MaxDifficulty {
		return nil, fmt.Errorf("%w: %d", ErrFiltered, ch.Meter)
	}

	gen, err := stepgen.New(to, p,
		stepgen.WithSeed(Seed(ch, to.ID())),
		stepgen.WithLogger(opts.logger().With("chart", ch.Difficulty, "to", to.ID())),
	)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Source: ch,
		Target: to.ID(),
		Chart:  outputMeta(ch, to, opts),
		Rows:   make([]Row, 0, len(ch.Lines)),
		Seed:   gen.Seed(),
	}
	for n, l := range ch.Lines {
		if l.Sep {
			res.Rows = append(res.Rows, Row{})
			continue
		}
		if l.Width != from.NumPanels() {
			return nil, fmt.Errorf("chart: row %d has %d columns, %s has %d", n, l.Width, from.ID(), from.NumPanels())
		}

		cols := l.Cols
		if p.RemoveJumps && len(cols) > 1 {
			cols = cols[:1]
		}
		row := Row{Steps: make([]stepgen.Step, 0, len(cols))}
		out := make([]int, 0, len(cols))
		for _, c := range cols {
			s, err := gen.AdvanceStep(c, len(cols) > 1)
			if err != nil {
				return nil, fmt.Errorf("chart: row %d: %w", n, err)
			}
			row.Steps = append(row.Steps, s)
			out = append(out, s.Col)
		}
		row.Text = to.Row(out)
		res.Rows = append(res.Rows, row)
	}

	res.Stats = gen.Stats()
	res.Duration = time.Since(began)
	return res, nil
}

// Seed derives a generator seed from a chart's notes and the target layout.
func Seed(ch Chart, to style.ID) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(string(to))
	for _, l := range ch.Lines {
		if l.Sep {
			_, _ = h.WriteString(",")
			continue
		}
		_, _ = h.WriteString(strconv.Itoa(l.Width))
		for _, c := range l.Cols {
			_, _ = h.WriteString(":" + strconv.Itoa(c))
		}
		_, _ = h.WriteString(";")
	}
	return h.Sum64()
}

func outputMeta(ch Chart, to *style.Layout, opts Options) Chart {
	out := Chart{
		StepsType:   to.StepsType(),
		Description: describe(ch.Description, opts.Extra),
		Difficulty:  ch.Difficulty,
		Meter:       ch.Meter,
		MeterText:   ch.MeterText,
		Extra:       ch.Extra,
	}
	if opts.Edits {
		out.Difficulty = EditDifficulty
	}
	return out
}

func describe(desc, extra string) string {
	prefix := Marker
	if extra != "" {
		prefix += " " + extra
	}
	return prefix + " - " + desc
}
