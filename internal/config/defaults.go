package config

import (
	_ "embed"

	"github.com/vovakirdan/stepgen/internal/stepgen"
)

//go:embed defaults/tuning.yaml
var defaultTuningYAML []byte

// DefaultTuning returns the built-in tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Repeats: RepeatTuning{
			Decay:                   stepgen.Decay{Threshold: 1, Base: 0.1},
			OtherFootDecay:          0.3,
			PreserveDecay:           1e-6,
			PreserveDecayCrossovers: 0.001,
		},
		Feet: FeetTuning{
			MaxDist:            2.9,
			MaxDistBrackets:    3.9,
			MaxDistIfCrossover: 2.5,
		},
		Steps: StepsTuning{
			MaxDist:                   2.1,
			MaxDistWide:               2.9,
			Decay:                     stepgen.Decay{Threshold: 1.5, Base: 0.3},
			MaxHorizontal:             1.0,
			MaxHorizontal4Steps:       2.5,
			Horizontal3StepsDecay:     stepgen.Decay{Threshold: 1.0, Base: 0.3},
			Horizontal3StepsDecayWide: stepgen.Decay{Threshold: 1.0, Base: 0.4},
		},
		Angles: AngleTuning{
			MaxAngle:              0.5,
			MaxAnglePerCrossover:  0.3,
			MaxTurn:               0.75,
			MaxTurnManyCrossovers: 1.0,
			BarAngleDecay:         stepgen.Decay{Threshold: 0, Base: 0.2},
			BarAngleDecayWide:     stepgen.Decay{Threshold: 0, Base: 0.4},
		},
		Crossover: CrossoverTuning{
			MaxHorizontalDist: 1.9,
			Multiplier:        2.0,
		},
		Doubles: DoublesTuning{
			Dist:              0.5,
			Decay:             0.02,
			VroomDistFromSide: 0,
			VroomStepsPerDist: 2.5,
		},
	}
}

// DefaultTuningYAML returns the embedded default tuning file.
func DefaultTuningYAML() []byte {
	return defaultTuningYAML
}
