package stepgen

import (
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/stepgen/internal/geom"
)

// Limit names a hard constraint. A candidate column violating an enabled
// limit is never chosen.
type Limit string

const (
	MaxRepeated                                  Limit = "max_repeated"
	MaxDistBetweenFeet                           Limit = "max_dist_between_feet"
	MaxDistBetweenFeetUnlessCrossover            Limit = "max_dist_between_feet_unless_crossover"
	MaxDistBetweenFeetIfCrossover                Limit = "max_dist_between_feet_if_crossover"
	MaxDistBetweenSteps                          Limit = "max_dist_between_steps"
	MaxHorizontalDistBetweenSteps                Limit = "max_horizontal_dist_between_steps"
	MaxHorizontalDistBetweenStepsUnlessCrossover Limit = "max_horizontal_dist_between_steps_unless_crossover"
	MaxHorizontalDistBetweenStepsIfCrossover     Limit = "max_horizontal_dist_between_steps_if_crossover"
	MaxVerticalDistBetweenSteps                  Limit = "max_vertical_dist_between_steps"
	MaxHorizontalDistBetween4StepsBothFeet       Limit = "max_horizontal_dist_between_4_steps_both_feet"
	MaxAngle                                     Limit = "max_angle"
	MaxTurn                                      Limit = "max_turn"
	MaxBarAngle                                  Limit = "max_bar_angle"
)

// DecayKind names a soft penalty. A candidate exceeding the threshold has its
// weight multiplied by Base raised to the overshoot.
type DecayKind string

const (
	RepeatedDecay                            DecayKind = "repeated"
	DistBetweenFeetDecay                     DecayKind = "dist_between_feet"
	DistBetweenStepsDecay                    DecayKind = "dist_between_steps"
	HorizontalDistBetweenStepsDecay          DecayKind = "horizontal_dist_between_steps"
	VerticalDistBetweenStepsDecay            DecayKind = "vertical_dist_between_steps"
	HorizontalDistBetween3StepsDecay         DecayKind = "horizontal_dist_between_3_steps"
	HorizontalDistBetween3StepsSameFootDecay DecayKind = "horizontal_dist_between_3_steps_same_foot"
	AngleDecay                               DecayKind = "angle"
	TurnDecay                                DecayKind = "turn"
	BarAngleDecay                            DecayKind = "bar_angle"
)

// Decay is a (threshold, base) soft-penalty pair.
type Decay struct {
	Threshold float64 `yaml:"threshold"`
	Base      float64 `yaml:"base"`
}

// DoublesMovement configures the drift zone that pulls footwork across
// wide layouts.
type DoublesMovement struct {
	Dist                float64  `yaml:"dist"`                     // allowed distance from the zone before decay applies
	Decay               float64  `yaml:"decay"`                    // base of the decay
	DistFromSide        *float64 `yaml:"dist_from_side,omitempty"` // zone end distance from the layout edge (random if unset)
	StepsPerDist        *float64 `yaml:"steps_per_dist,omitempty"` // steps per unit of travel (random if unset)
	TrackIndividualFeet bool     `yaml:"track_individual_feet"`
}

// Params configures a Generator. It is read once at construction.
type Params struct {
	Seed      *uint64    `yaml:"seed,omitempty"`
	StartFoot *geom.Foot `yaml:"start_foot,omitempty"`

	DisallowFootswitch       bool `yaml:"disallow_footswitch"`
	DisallowFootOppositeSide bool `yaml:"disallow_foot_opposite_side"`

	Limits map[Limit]float64   `yaml:"limits,omitempty"`
	Decays map[DecayKind]Decay `yaml:"decays,omitempty"`

	// Flat multipliers.
	OtherFootRepeatDecay *float64 `yaml:"other_foot_repeat_decay,omitempty"`
	CrossoverMultiplier  *float64 `yaml:"crossover_multiplier,omitempty"`

	// When set, repeated input columns are replayed instead of resampled, and
	// the value is the decay applied to repeating an output column whose input
	// column changed.
	PreserveInputRepetitions *float64 `yaml:"preserve_input_repetitions,omitempty"`

	Doubles *DoublesMovement `yaml:"doubles,omitempty"`

	// Consumed by the chart driver, not the generator.
	RemoveJumps   bool `yaml:"remove_jumps"`
	MinDifficulty *int `yaml:"min_difficulty,omitempty"`
	MaxDifficulty *int `yaml:"max_difficulty,omitempty"`
}

// SetLimit enables a hard constraint.
func (p *Params) SetLimit(l Limit, v float64) {
	if p.Limits == nil {
		p.Limits = make(map[Limit]float64)
	}
	p.Limits[l] = v
}

// SetDecay enables a soft penalty.
func (p *Params) SetDecay(k DecayKind, threshold, base float64) {
	if p.Decays == nil {
		p.Decays = make(map[DecayKind]Decay)
	}
	p.Decays[k] = Decay{Threshold: threshold, Base: base}
}

// Validate checks that every configured value is usable. Decay bases must be
// strictly positive so candidate weights never reach zero.
func (p Params) Validate() error {
	for _, l := range sortedLimits(p.Limits) {
		if _, ok := limitRules[l]; !ok {
			return fmt.Errorf("stepgen: unknown limit %q", l)
		}
		if v := p.Limits[l]; v < 0 || math.IsNaN(v) {
			return fmt.Errorf("stepgen: limit %s must be non-negative, got %v", l, v)
		}
	}
	for _, k := range sortedDecays(p.Decays) {
		if _, ok := decayPenalties[k]; !ok {
			return fmt.Errorf("stepgen: unknown decay %q", k)
		}
		d := p.Decays[k]
		if err := checkBase(string(k), d.Base); err != nil {
			return err
		}
		if math.IsNaN(d.Threshold) || math.IsInf(d.Threshold, 0) {
			return fmt.Errorf("stepgen: decay %s threshold must be finite", k)
		}
	}
	if p.OtherFootRepeatDecay != nil {
		if err := checkBase("other_foot_repeat_decay", *p.OtherFootRepeatDecay); err != nil {
			return err
		}
	}
	if p.CrossoverMultiplier != nil {
		if err := checkBase("crossover_multiplier", *p.CrossoverMultiplier); err != nil {
			return err
		}
	}
	if p.PreserveInputRepetitions != nil {
		if err := checkBase("preserve_input_repetitions", *p.PreserveInputRepetitions); err != nil {
			return err
		}
	}
	if d := p.Doubles; d != nil {
		if d.Dist < 0 {
			return fmt.Errorf("stepgen: doubles dist must be non-negative, got %v", d.Dist)
		}
		if err := checkBase("doubles decay", d.Decay); err != nil {
			return err
		}
		if d.StepsPerDist != nil && *d.StepsPerDist <= 0 {
			return fmt.Errorf("stepgen: doubles steps_per_dist must be positive, got %v", *d.StepsPerDist)
		}
		if d.DistFromSide != nil && *d.DistFromSide < 0 {
			return fmt.Errorf("stepgen: doubles dist_from_side must be non-negative, got %v", *d.DistFromSide)
		}
	}
	if p.MinDifficulty != nil && p.MaxDifficulty != nil && *p.MinDifficulty > *p.MaxDifficulty {
		return fmt.Errorf("stepgen: min difficulty %d above max difficulty %d", *p.MinDifficulty, *p.MaxDifficulty)
	}
	return nil
}

func checkBase(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("stepgen: %s must be positive and finite, got %v", name, v)
	}
	return nil
}

// sortedLimits returns the keys of m in a fixed order so rule evaluation
// does not depend on map iteration.
func sortedLimits(m map[Limit]float64) []Limit {
	keys := make([]Limit, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedDecays(m map[DecayKind]Decay) []DecayKind {
	keys := make([]DecayKind, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
