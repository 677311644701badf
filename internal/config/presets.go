package config

import (
	"fmt"
	"math"

	"github.com/tiendc/go-deepcopy"

	"github.com/vovakirdan/stepgen/internal/stepgen"
	"github.com/vovakirdan/stepgen/internal/style"
)

// Options are the user-facing switches a preset is built from.
type Options struct {
	Crossovers               int  // 0 disables crossovers, higher values allow sharper ones
	MoreEasyCrossovers       bool // favor crossovers that need little travel
	Vroom                    bool // wide, fast travel across doubles layouts
	PreserveInputRepetitions bool
	Footswitches             bool
	Seed                     *uint64
	MinDifficulty            *int
	MaxDifficulty            *int
}

// BuildParams returns the generator parameters for converting onto the
// target layout.
func BuildParams(t Tuning, o Options, to *style.Layout) stepgen.Params {
	crossovers := o.Crossovers != 0
	wide := crossovers || o.Vroom

	p := stepgen.Params{
		Seed:                     o.Seed,
		DisallowFootswitch:       !o.Footswitches,
		DisallowFootOppositeSide: !crossovers && to.Pads() == 1,
		RemoveJumps:              crossovers,
		MinDifficulty:            o.MinDifficulty,
		MaxDifficulty:            o.MaxDifficulty,
		OtherFootRepeatDecay:     ptr(t.Repeats.OtherFootDecay),
	}

	if o.PreserveInputRepetitions {
		if crossovers {
			p.PreserveInputRepetitions = ptr(t.Repeats.PreserveDecayCrossovers)
		} else {
			p.PreserveInputRepetitions = ptr(t.Repeats.PreserveDecay)
		}
	} else {
		p.SetDecay(stepgen.RepeatedDecay, t.Repeats.Decay.Threshold, t.Repeats.Decay.Base)
	}

	if to.ID() == style.PumpDoublesBrackets {
		p.SetLimit(stepgen.MaxDistBetweenFeet, t.Feet.MaxDistBrackets)
	} else {
		p.SetLimit(stepgen.MaxDistBetweenFeet, t.Feet.MaxDist)
	}
	p.SetLimit(stepgen.MaxDistBetweenFeetIfCrossover, t.Feet.MaxDistIfCrossover)

	if wide {
		p.SetLimit(stepgen.MaxDistBetweenSteps, t.Steps.MaxDistWide)
	} else {
		p.SetLimit(stepgen.MaxDistBetweenSteps, t.Steps.MaxDist)
		p.SetLimit(stepgen.MaxHorizontalDistBetweenSteps, t.Steps.MaxHorizontal)
	}
	p.SetDecay(stepgen.DistBetweenStepsDecay, t.Steps.Decay.Threshold, t.Steps.Decay.Base)

	if !wide && !o.PreserveInputRepetitions {
		p.SetLimit(stepgen.MaxHorizontalDistBetween4StepsBothFeet, t.Steps.MaxHorizontal4Steps)
	}
	h3 := t.Steps.Horizontal3StepsDecay
	bar := t.Angles.BarAngleDecay
	if wide {
		h3 = t.Steps.Horizontal3StepsDecayWide
		bar = t.Angles.BarAngleDecayWide
	}
	p.SetDecay(stepgen.HorizontalDistBetween3StepsDecay, h3.Threshold, h3.Base)
	p.SetDecay(stepgen.BarAngleDecay, bar.Threshold, bar.Base)

	p.SetLimit(stepgen.MaxAngle, math.Pi*(t.Angles.MaxAngle+t.Angles.MaxAnglePerCrossover*float64(o.Crossovers)))
	if o.Crossovers > 1 {
		p.SetLimit(stepgen.MaxTurn, math.Pi*t.Angles.MaxTurnManyCrossovers)
	} else {
		p.SetLimit(stepgen.MaxTurn, math.Pi*t.Angles.MaxTurn)
	}

	if o.MoreEasyCrossovers {
		p.SetLimit(stepgen.MaxHorizontalDistBetweenStepsIfCrossover, t.Crossover.MaxHorizontalDist)
		p.CrossoverMultiplier = ptr(t.Crossover.Multiplier)
	}

	p.Doubles = &stepgen.DoublesMovement{
		Dist:                t.Doubles.Dist,
		Decay:               t.Doubles.Decay,
		TrackIndividualFeet: !o.Vroom && !crossovers,
	}
	if o.Vroom {
		p.Doubles.DistFromSide = ptr(t.Doubles.VroomDistFromSide)
		p.Doubles.StepsPerDist = ptr(t.Doubles.VroomStepsPerDist)
	}

	return p
}

// Clone returns a deep copy of p, so per-layout edits never alias the maps
// or pointers of a shared base.
func Clone(p stepgen.Params) (stepgen.Params, error) {
	var out stepgen.Params
	if err := deepcopy.Copy(&out, &p); err != nil {
		return out, fmt.Errorf("failed to copy params: %w", err)
	}
	return out, nil
}

func ptr[T any](v T) *T {
	return &v
}
