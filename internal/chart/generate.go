package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/stepgen/internal/stepgen"
	"github.com/vovakirdan/stepgen/internal/style"
)

// Target is one layout to generate charts for.
type Target struct {
	Layout *style.Layout
	Params stepgen.Params
}

// Outcome records what happened to one source chart for one target. Err is
// set when the chart was skipped or failed; the other conversions of the file
// are unaffected.
type Outcome struct {
	Source Chart
	Target style.ID
	Result *Result
	Err    error
}

// Output is a rewritten chart file.
type Output struct {
	Contents string
	Outcomes []Outcome
	Removed  int // generated charts removed before generating
}

// Generated returns the number of charts added.
func (o *Output) Generated() int {
	n := 0
	for _, oc := range o.Outcomes {
		if oc.Err == nil {
			n++
		}
	}
	return n
}

// Generate converts every chart written for the source layout into each
// target layout and appends the results to the file contents. A target is
// refused when the file already holds generated charts of its steps-type;
// set removeExisting to drop those first.
func Generate(contents string, format Format, from *style.Layout, targets []Target, removeExisting bool, opts Options) (*Output, error) {
	log := opts.logger()
	out := &Output{}

	if removeExisting {
		var err error
		contents, out.Removed, err = RemoveAutogen(contents, format)
		if err != nil {
			return nil, err
		}
	}

	charts, err := Parse(contents, format)
	if err != nil {
		return nil, err
	}

	var generated strings.Builder
	for _, t := range targets {
		if hasAutogen(charts, t.Layout.StepsType()) {
			out.Outcomes = append(out.Outcomes, Outcome{Target: t.Layout.ID(), Err: ErrAlreadyGenerated})
			log.Warn("skipped", "to", t.Layout.ID(), "reason", "already contains generated charts")
			continue
		}

		for _, ch := range charts {
			if ch.StepsType != from.StepsType() || ch.Autogen() {
				continue
			}
			res, err := Convert(ch, from, t.Layout, t.Params, opts)
			out.Outcomes = append(out.Outcomes, Outcome{Source: ch, Target: t.Layout.ID(), Result: res, Err: err})
			switch {
			case errors.Is(err, ErrFiltered):
				log.Debug("skipped", "chart", ch.Difficulty, "meter", ch.Meter, "to", t.Layout.ID())
			case err != nil:
				log.Warn("conversion failed", "chart", ch.Difficulty, "to", t.Layout.ID(), "err", err)
			default:
				generated.WriteByte('\n')
				generated.WriteString(res.Render(format))
				log.Debug("converted", "chart", ch.Difficulty, "to", t.Layout.ID(), "seed", res.Seed, "rows", ch.Rows())
			}
		}
	}

	out.Contents = contents + generated.String()
	return out, nil
}

// RemoveAutogen drops every generated chart from the contents and returns
// the new contents with the number of charts removed.
func RemoveAutogen(contents string, format Format) (string, int, error) {
	charts, err := Parse(contents, format)
	if err != nil {
		return contents, 0, fmt.Errorf("chart: remove generated charts: %w", err)
	}

	removed := 0
	for i := len(charts) - 1; i >= 0; i-- {
		ch := charts[i]
		if !ch.Autogen() {
			continue
		}
		contents = contents[:ch.start] + contents[ch.end:]
		removed++
	}
	if removed > 0 {
		contents = strings.TrimRight(contents, "\r\n") + "\n"
	}
	return contents, removed, nil
}

func hasAutogen(charts []Chart, stepsType string) bool {
	for _, ch := range charts {
		if ch.StepsType == stepsType && ch.Autogen() {
			return true
		}
	}
	return false
}
