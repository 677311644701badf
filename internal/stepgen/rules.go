package stepgen

import (
	"math"

	"github.com/vovakirdan/stepgen/internal/geom"
)

const eps = geom.Epsilon

// candidate is one column being considered for the acting foot, together with
// everything a rule needs to judge it.
type candidate struct {
	g     *Generator
	col   int
	input int
	at    geom.Coord
	foot  geom.Foot
	cur   *footState
	other *footState

	angle    float64 // bearing left->right if the step were taken
	hasAngle bool
}

// coord returns the position of a foot's column, or false if it has none.
func (c *candidate) coord(col int) (geom.Coord, bool) {
	if col == noCol {
		return geom.Coord{}, false
	}
	return c.g.layout.Coord(col), true
}

// crossover reports whether the step would leave the feet crossed.
func (c *candidate) crossover() bool {
	return c.hasAngle && math.Abs(c.angle) > math.Pi/2+eps
}

// barAngle measures how far the step twists the body around the bar behind
// the pad. Positive values mean the feet are swapped relative to the bar.
func (c *candidate) barAngle() (float64, bool) {
	o, ok := c.coord(c.other.lastCol)
	if !ok {
		return 0, false
	}
	left, right := c.at, o
	if c.foot == geom.Right {
		left, right = o, c.at
	}
	bar := c.g.layout.Bar()
	return bar.Angle(right, math.Pi/2) - bar.Angle(left, math.Pi/2), true
}

// rule is a hard constraint on candidate columns.
type rule interface {
	name() string
	allows(c *candidate) bool
}

// penalty is a soft constraint: a positive multiplier on a candidate's weight.
type penalty interface {
	name() string
	factor(c *candidate) float64
}

type ruleFunc struct {
	id string
	fn func(c *candidate) bool
}

func (r ruleFunc) name() string             { return r.id }
func (r ruleFunc) allows(c *candidate) bool { return r.fn(c) }

type penaltyFunc struct {
	id string
	fn func(c *candidate) float64
}

func (p penaltyFunc) name() string                { return p.id }
func (p penaltyFunc) factor(c *candidate) float64 { return p.fn(c) }

// measure extracts a quantity from a candidate; ok is false when the history
// needed for it does not exist yet.
type measure func(c *candidate) (v float64, ok bool)

func distToOther(c *candidate) (float64, bool) {
	o, ok := c.coord(c.other.lastCol)
	if !ok {
		return 0, false
	}
	return c.at.Dist(o), true
}

func distToLast(c *candidate) (float64, bool) {
	l, ok := c.coord(c.cur.lastCol)
	if !ok {
		return 0, false
	}
	return c.at.Dist(l), true
}

func dxToLast(c *candidate) (float64, bool) {
	l, ok := c.coord(c.cur.lastCol)
	if !ok {
		return 0, false
	}
	return c.at.DX(l), true
}

func dyToLast(c *candidate) (float64, bool) {
	l, ok := c.coord(c.cur.lastCol)
	if !ok {
		return 0, false
	}
	return c.at.DY(l), true
}

func dxToLastLast(c *candidate) (float64, bool) {
	ll, ok := c.coord(c.cur.lastLastCol)
	if !ok {
		return 0, false
	}
	return c.at.DX(ll), true
}

// spreadSameFoot is the horizontal extent of the acting foot's last three
// positions including the candidate.
func spreadSameFoot(c *candidate) (float64, bool) {
	ll, ok := c.coord(c.cur.lastLastCol)
	if !ok {
		return 0, false
	}
	l, _ := c.coord(c.cur.lastCol)
	lo := min(ll.X, l.X, c.at.X)
	hi := max(ll.X, l.X, c.at.X)
	return hi - lo, true
}

func absAngle(c *candidate) (float64, bool) {
	if !c.hasAngle {
		return 0, false
	}
	return math.Abs(c.angle), true
}

func turn(c *candidate) (float64, bool) {
	if !c.hasAngle {
		return 0, false
	}
	return math.Abs(c.angle - c.g.prevAngle), true
}

func barAngle(c *candidate) (float64, bool) {
	return c.barAngle()
}

// within builds a rule rejecting candidates whose measure exceeds limit.
// Candidates lacking the history for the measure pass.
func within(l Limit, m measure, limit float64) rule {
	return ruleFunc{id: string(l), fn: func(c *candidate) bool {
		v, ok := m(c)
		return !ok || v <= limit+eps
	}}
}

// unless exempts crossover steps from a rule.
func unless(r rule) rule {
	return ruleFunc{id: r.name(), fn: func(c *candidate) bool {
		return c.crossover() || r.allows(c)
	}}
}

// only applies a rule to crossover steps.
func only(r rule) rule {
	return ruleFunc{id: r.name(), fn: func(c *candidate) bool {
		return !c.crossover() || r.allows(c)
	}}
}

var limitRules = map[Limit]func(limit float64) rule{
	MaxRepeated: func(limit float64) rule {
		return ruleFunc{id: string(MaxRepeated), fn: func(c *candidate) bool {
			return c.col != c.cur.lastCol || float64(c.cur.repeated) < limit-eps
		}}
	},
	MaxDistBetweenFeet: func(limit float64) rule {
		return within(MaxDistBetweenFeet, distToOther, limit)
	},
	MaxDistBetweenFeetUnlessCrossover: func(limit float64) rule {
		return unless(within(MaxDistBetweenFeetUnlessCrossover, distToOther, limit))
	},
	MaxDistBetweenFeetIfCrossover: func(limit float64) rule {
		return only(within(MaxDistBetweenFeetIfCrossover, distToOther, limit))
	},
	MaxDistBetweenSteps: func(limit float64) rule {
		return within(MaxDistBetweenSteps, distToLast, limit)
	},
	MaxHorizontalDistBetweenSteps: func(limit float64) rule {
		return within(MaxHorizontalDistBetweenSteps, dxToLast, limit)
	},
	MaxHorizontalDistBetweenStepsUnlessCrossover: func(limit float64) rule {
		return unless(within(MaxHorizontalDistBetweenStepsUnlessCrossover, dxToLast, limit))
	},
	MaxHorizontalDistBetweenStepsIfCrossover: func(limit float64) rule {
		return only(within(MaxHorizontalDistBetweenStepsIfCrossover, dxToLast, limit))
	},
	MaxVerticalDistBetweenSteps: func(limit float64) rule {
		return within(MaxVerticalDistBetweenSteps, dyToLast, limit)
	},
	MaxHorizontalDistBetween4StepsBothFeet: func(limit float64) rule {
		return within(MaxHorizontalDistBetween4StepsBothFeet, dxToLastLast, limit)
	},
	MaxAngle: func(limit float64) rule {
		return within(MaxAngle, absAngle, limit)
	},
	MaxTurn: func(limit float64) rule {
		return within(MaxTurn, turn, limit)
	},
	MaxBarAngle: func(limit float64) rule {
		return within(MaxBarAngle, barAngle, limit)
	},
}

var noFootswitch = ruleFunc{id: "disallow_footswitch", fn: func(c *candidate) bool {
	return c.col != c.other.lastCol
}}

var noOppositeSide = ruleFunc{id: "disallow_foot_opposite_side", fn: func(c *candidate) bool {
	center := c.g.layout.CenterX()
	if c.foot == geom.Left {
		return c.at.X <= center+eps
	}
	return c.at.X >= center-eps
}}

// decayOver builds a penalty of base^(v-threshold) for measures above the
// threshold.
func decayOver(k DecayKind, m measure, d Decay) penalty {
	return penaltyFunc{id: string(k), fn: func(c *candidate) float64 {
		v, ok := m(c)
		if !ok || v <= d.Threshold+eps {
			return 1
		}
		return math.Pow(d.Base, v-d.Threshold)
	}}
}

var decayPenalties = map[DecayKind]func(d Decay) penalty{
	RepeatedDecay: func(d Decay) penalty {
		// Run lengths are discrete, so the exponent is rounded up to a whole
		// number of extra repeats.
		return penaltyFunc{id: string(RepeatedDecay), fn: func(c *candidate) float64 {
			if c.col != c.cur.lastCol {
				return 1
			}
			over := float64(c.cur.repeated) - d.Threshold
			if over <= eps {
				return 1
			}
			return math.Pow(d.Base, math.Ceil(over-eps))
		}}
	},
	DistBetweenFeetDecay: func(d Decay) penalty {
		return decayOver(DistBetweenFeetDecay, distToOther, d)
	},
	DistBetweenStepsDecay: func(d Decay) penalty {
		return decayOver(DistBetweenStepsDecay, distToLast, d)
	},
	HorizontalDistBetweenStepsDecay: func(d Decay) penalty {
		return decayOver(HorizontalDistBetweenStepsDecay, dxToLast, d)
	},
	VerticalDistBetweenStepsDecay: func(d Decay) penalty {
		return decayOver(VerticalDistBetweenStepsDecay, dyToLast, d)
	},
	HorizontalDistBetween3StepsDecay: func(d Decay) penalty {
		return decayOver(HorizontalDistBetween3StepsDecay, dxToLastLast, d)
	},
	HorizontalDistBetween3StepsSameFootDecay: func(d Decay) penalty {
		return decayOver(HorizontalDistBetween3StepsSameFootDecay, spreadSameFoot, d)
	},
	AngleDecay: func(d Decay) penalty {
		return decayOver(AngleDecay, absAngle, d)
	},
	TurnDecay: func(d Decay) penalty {
		return decayOver(TurnDecay, turn, d)
	},
	BarAngleDecay: func(d Decay) penalty {
		return decayOver(BarAngleDecay, barAngle, d)
	},
}

// otherFootRepeat penalizes repeating a column right after the other foot
// repeated its own.
func otherFootRepeat(base float64) penalty {
	return penaltyFunc{id: "other_foot_repeat_decay", fn: func(c *candidate) float64 {
		if c.col == c.cur.lastCol && c.other.repeated > 1 {
			return base
		}
		return 1
	}}
}

func crossoverMultiplier(m float64) penalty {
	return penaltyFunc{id: "crossover_multiplier", fn: func(c *candidate) float64 {
		if c.crossover() {
			return m
		}
		return 1
	}}
}

// differentInput penalizes reusing the acting foot's column when the input
// column changed, so distinct input notes tend to map to distinct outputs.
func differentInput(base float64) penalty {
	return penaltyFunc{id: "preserve_input_repetitions", fn: func(c *candidate) float64 {
		if c.cur.lastInput != noCol && c.input != c.cur.lastInput && c.col == c.cur.lastCol {
			return base
		}
		return 1
	}}
}

// zoneDrift pulls candidates toward the drift zone.
func zoneDrift(dm DoublesMovement) penalty {
	return penaltyFunc{id: "doubles_movement", fn: func(c *candidate) float64 {
		z := c.g.zone
		if z == nil {
			return 1
		}
		target := z.currentX()
		if dm.TrackIndividualFeet {
			if c.foot == geom.Left {
				target -= 0.5
			} else {
				target += 0.5
			}
		}
		over := math.Abs(c.at.X-target) - dm.Dist
		if over <= eps {
			return 1
		}
		return math.Pow(dm.Decay, over)
	}}
}

// compile turns params into the ordered rule and penalty lists.
// Params must already be validated.
func compile(p Params) ([]rule, []penalty) {
	var rules []rule
	if p.DisallowFootswitch {
		rules = append(rules, noFootswitch)
	}
	if p.DisallowFootOppositeSide {
		rules = append(rules, noOppositeSide)
	}
	for _, l := range sortedLimits(p.Limits) {
		rules = append(rules, limitRules[l](p.Limits[l]))
	}

	var penalties []penalty
	for _, k := range sortedDecays(p.Decays) {
		penalties = append(penalties, decayPenalties[k](p.Decays[k]))
	}
	if p.OtherFootRepeatDecay != nil {
		penalties = append(penalties, otherFootRepeat(*p.OtherFootRepeatDecay))
	}
	if p.CrossoverMultiplier != nil {
		penalties = append(penalties, crossoverMultiplier(*p.CrossoverMultiplier))
	}
	if p.PreserveInputRepetitions != nil {
		penalties = append(penalties, differentInput(*p.PreserveInputRepetitions))
	}
	if p.Doubles != nil {
		penalties = append(penalties, zoneDrift(*p.Doubles))
	}
	return rules, penalties
}
