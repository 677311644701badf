// Package stepgen retargets a stream of input columns onto a pad layout.
//
// A Generator alternates feet, filters every column of the layout through
// the hard constraints configured in Params, weights the survivors by the
// configured soft penalties and samples one with a seeded PRNG. Identical
// layout, params, seed and call sequence always produce identical output.
//
// A Generator is not safe for concurrent use; give each conversion its own.
package stepgen

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stepgen/internal/geom"
	"github.com/vovakirdan/stepgen/internal/style"
)

// noCol marks a column slot with no history.
const noCol = -1

// pcgStream is the fixed second word of the PCG state.
const pcgStream = 0x9e3779b97f4a7c15

// footState is the per-foot history.
type footState struct {
	lastCol     int
	lastLastCol int
	lastInput   int
	repeated    int // run length of lastCol
}

func newFootState() footState {
	return footState{lastCol: noCol, lastLastCol: noCol, lastInput: noCol}
}

// Step is the outcome of one Advance call.
type Step struct {
	Col      int
	Foot     geom.Foot
	Replayed bool // true when a repeated input column reused a previous output
}

// Stats counts what a Generator has produced so far.
type Stats struct {
	Steps      [2]int // committed steps per foot
	Jumps      int
	Replays    int
	Crossovers int
}

// Generator produces one step per input note. Create with New.
type Generator struct {
	layout    *style.Layout
	params    Params
	rules     []rule
	penalties []penalty
	seed      uint64
	rng       *rand.Rand
	logger    *log.Logger

	feet      [2]footState
	next      geom.Foot
	prevAngle float64
	zone      *zone
	committed int
	stats     Stats
}

type options struct {
	seed   *uint64
	logger *log.Logger
}

// Option configures a Generator.
type Option func(*options)

// WithSeed seeds the PRNG when Params.Seed is unset.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = &seed }
}

// WithLogger sets the logger used for per-step debug output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a Generator for a layout. The seed is taken from Params.Seed,
// then WithSeed, then drawn from the runtime's entropy source.
func New(layout *style.Layout, params Params, opts ...Option) (*Generator, error) {
	if layout == nil {
		return nil, fmt.Errorf("stepgen: nil layout")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	g := &Generator{
		layout:    layout,
		params:    params,
		logger:    o.logger,
		feet:      [2]footState{newFootState(), newFootState()},
		prevAngle: 0,
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	g.rules, g.penalties = compile(params)

	switch {
	case params.Seed != nil:
		g.seed = *params.Seed
	case o.seed != nil:
		g.seed = *o.seed
	default:
		g.seed = rand.Uint64()
	}
	g.rng = rand.New(rand.NewPCG(g.seed, pcgStream))

	if params.StartFoot != nil {
		g.next = *params.StartFoot
	} else {
		g.next = geom.Feet[g.rng.IntN(2)]
	}

	if params.Doubles != nil {
		side := geom.Feet[g.rng.IntN(2)]
		g.zone = g.newZone(layout.InitPos().X, side)
	}

	return g, nil
}

// Layout returns the target layout.
func (g *Generator) Layout() *style.Layout {
	return g.layout
}

// Seed returns the seed the PRNG was initialized with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// NextFoot returns the foot the next sampled step will use.
func (g *Generator) NextFoot() geom.Foot {
	return g.next
}

// Stats returns counters for the steps produced so far.
func (g *Generator) Stats() Stats {
	return g.stats
}

// Advance returns the output column for the next input note.
func (g *Generator) Advance(inputCol int, isJump bool) (int, error) {
	s, err := g.AdvanceStep(inputCol, isJump)
	if err != nil {
		return 0, err
	}
	return s.Col, nil
}

// AdvanceStep is Advance reporting which foot took the step. isJump marks a
// note that is part of a simultaneous pair in the source chart.
//
// A repeated input column replays the output of the foot that last received
// it, when input repetitions are preserved. Otherwise the next foot steps:
// onto its initial column the first time, onto a sampled valid column after.
func (g *Generator) AdvanceStep(inputCol int, isJump bool) (Step, error) {
	if inputCol < 0 {
		return Step{}, fmt.Errorf("stepgen: negative input column %d", inputCol)
	}

	if s, ok := g.replay(inputCol); ok {
		g.count(s, isJump)
		return s, nil
	}

	foot := g.next
	col := g.layout.InitCol(foot)
	if g.feet[foot].lastCol != noCol {
		var err error
		col, err = g.choose(inputCol)
		if err != nil {
			return Step{}, err
		}
	}

	g.commit(foot, col, inputCol)
	g.next = foot.Other()
	s := Step{Col: col, Foot: foot}
	g.count(s, isJump)
	return s, nil
}

// replay handles a repeated input column. The foot due next replays its own
// column and hands over as usual; otherwise the other foot replays without
// switching.
func (g *Generator) replay(inputCol int) (Step, bool) {
	if g.params.PreserveInputRepetitions == nil {
		return Step{}, false
	}
	next, prev := g.next, g.next.Other()
	if st := g.feet[next]; st.lastInput == inputCol && st.lastCol != noCol {
		g.commit(next, st.lastCol, inputCol)
		g.next = prev
		return Step{Col: st.lastCol, Foot: next, Replayed: true}, true
	}
	if st := g.feet[prev]; st.lastInput == inputCol && st.lastCol != noCol {
		g.commit(prev, st.lastCol, inputCol)
		return Step{Col: st.lastCol, Foot: prev, Replayed: true}, true
	}
	return Step{}, false
}

// commit records a step for a foot and advances the drift zone.
func (g *Generator) commit(f geom.Foot, col, inputCol int) {
	st := &g.feet[f]
	if st.lastCol == col {
		st.repeated++
	} else {
		st.repeated = 1
	}
	st.lastLastCol = st.lastCol
	st.lastCol = col
	st.lastInput = inputCol

	if a, ok := g.feetAngle(); ok {
		g.prevAngle = a
	}
	g.tickZone()
	g.committed++

	g.logger.Debug("step", "foot", f, "col", col, "input", inputCol, "angle", g.prevAngle)
}

func (g *Generator) count(s Step, isJump bool) {
	g.stats.Steps[s.Foot]++
	if isJump {
		g.stats.Jumps++
	}
	if s.Replayed {
		g.stats.Replays++
	}
	if a, ok := g.feetAngle(); ok && math.Cos(a) < -eps {
		g.stats.Crossovers++
	}
}

// feetAngle returns the bearing from the left foot to the right foot,
// continuous with the previous one.
func (g *Generator) feetAngle() (float64, bool) {
	l, r := g.feet[geom.Left].lastCol, g.feet[geom.Right].lastCol
	if l == noCol || r == noCol {
		return 0, false
	}
	return g.layout.Coord(l).Angle(g.layout.Coord(r), g.prevAngle), true
}

// candidate builds the evaluation context for placing the next foot on col.
func (g *Generator) candidate(col, inputCol int) *candidate {
	foot := g.next
	c := &candidate{
		g:     g,
		col:   col,
		input: inputCol,
		at:    g.layout.Coord(col),
		foot:  foot,
		cur:   &g.feet[foot],
		other: &g.feet[foot.Other()],
	}
	if o := c.other.lastCol; o != noCol {
		left, right := c.at, g.layout.Coord(o)
		if foot == geom.Right {
			left, right = right, left
		}
		c.angle = left.Angle(right, g.prevAngle)
		c.hasAngle = true
	}
	return c
}

// ValidCols returns, in ascending order, the columns the next foot may step
// on under the hard constraints.
func (g *Generator) ValidCols() []int {
	cols, _ := g.validCols()
	return cols
}

func (g *Generator) validCols() ([]int, map[int]string) {
	var cols []int
	rejected := make(map[int]string)
	for col := 0; col < g.layout.NumCols(); col++ {
		c := g.candidate(col, noCol)
		if r := g.rejectedBy(c); r != "" {
			rejected[col] = r
			continue
		}
		cols = append(cols, col)
	}
	return cols, rejected
}

func (g *Generator) rejectedBy(c *candidate) string {
	for _, r := range g.rules {
		if !r.allows(c) {
			return r.name()
		}
	}
	return ""
}

// Weight returns the soft-penalty weight of placing the next foot on col for
// the given input column. The weight is 1 when no penalty applies.
func (g *Generator) Weight(col, inputCol int) float64 {
	c := g.candidate(col, inputCol)
	w := 1.0
	for _, p := range g.penalties {
		w *= p.factor(c)
	}
	return w
}

// choose samples a valid column for the next foot.
func (g *Generator) choose(inputCol int) (int, error) {
	cols, rejected := g.validCols()
	if len(cols) == 0 {
		st, other := g.feet[g.next], g.feet[g.next.Other()]
		err := &ExhaustedError{
			Style:       g.layout.ID(),
			Foot:        g.next,
			Step:        g.committed,
			LastCol:     st.lastCol,
			LastLastCol: st.lastLastCol,
			OtherCol:    other.lastCol,
			Rejected:    rejected,
		}
		g.logger.Warn("no valid column", "style", err.Style, "foot", err.Foot, "step", err.Step)
		return 0, err
	}

	weights := make([]float64, len(cols))
	var total float64
	for i, col := range cols {
		weights[i] = g.Weight(col, inputCol)
		total += weights[i]
	}
	if !(total > 0) || math.IsInf(total, 0) {
		panic(fmt.Sprintf("stepgen: degenerate total weight %v over columns %v", total, cols))
	}

	return pick(cols, weights, g.rng.Float64()*total), nil
}

// pick walks the cumulative weights and returns the first column whose running
// sum exceeds r. Rounding past the end falls back to the last column.
func pick(cols []int, weights []float64, r float64) int {
	var sum float64
	for i, w := range weights {
		sum += w
		if r < sum {
			return cols[i]
		}
	}
	return cols[len(cols)-1]
}
