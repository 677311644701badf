// Package config provides YAML-based tuning for the step generator and the
// presets that turn command-line options into generator parameters.
package config

import "github.com/vovakirdan/stepgen/internal/stepgen"

// Tuning contains the numeric constants the presets are built from.
type Tuning struct {
	Repeats   RepeatTuning    `yaml:"repeats"`
	Feet      FeetTuning      `yaml:"feet"`
	Steps     StepsTuning     `yaml:"steps"`
	Angles    AngleTuning     `yaml:"angles"`
	Crossover CrossoverTuning `yaml:"crossover"`
	Doubles   DoublesTuning   `yaml:"doubles"`
}

// RepeatTuning defines how repeated columns are discouraged.
type RepeatTuning struct {
	Decay                   stepgen.Decay `yaml:"decay"`            // used when input repetitions are not preserved
	OtherFootDecay          float64       `yaml:"other_foot_decay"` // flat factor after the other foot repeated
	PreserveDecay           float64       `yaml:"preserve_decay"`
	PreserveDecayCrossovers float64       `yaml:"preserve_decay_crossovers"`
}

// FeetTuning defines the distance allowed between the two feet.
type FeetTuning struct {
	MaxDist            float64 `yaml:"max_dist"`
	MaxDistBrackets    float64 `yaml:"max_dist_brackets"` // doubles layouts with bracket columns
	MaxDistIfCrossover float64 `yaml:"max_dist_if_crossover"`
}

// StepsTuning defines how far one foot may travel.
type StepsTuning struct {
	MaxDist                   float64       `yaml:"max_dist"`
	MaxDistWide               float64       `yaml:"max_dist_wide"` // with crossovers or vroom
	Decay                     stepgen.Decay `yaml:"decay"`
	MaxHorizontal             float64       `yaml:"max_horizontal"`
	MaxHorizontal4Steps       float64       `yaml:"max_horizontal_4_steps"`
	Horizontal3StepsDecay     stepgen.Decay `yaml:"horizontal_3_steps_decay"`
	Horizontal3StepsDecayWide stepgen.Decay `yaml:"horizontal_3_steps_decay_wide"`
}

// AngleTuning defines body rotation limits. Angles are in units of π.
type AngleTuning struct {
	MaxAngle              float64       `yaml:"max_angle"`
	MaxAnglePerCrossover  float64       `yaml:"max_angle_per_crossover"`
	MaxTurn               float64       `yaml:"max_turn"`
	MaxTurnManyCrossovers float64       `yaml:"max_turn_many_crossovers"`
	BarAngleDecay         stepgen.Decay `yaml:"bar_angle_decay"`
	BarAngleDecayWide     stepgen.Decay `yaml:"bar_angle_decay_wide"`
}

// CrossoverTuning applies with --more-easy-crossovers.
type CrossoverTuning struct {
	MaxHorizontalDist float64 `yaml:"max_horizontal_dist"`
	Multiplier        float64 `yaml:"multiplier"`
}

// DoublesTuning defines the drift across wide layouts.
type DoublesTuning struct {
	Dist              float64 `yaml:"dist"`
	Decay             float64 `yaml:"decay"`
	VroomDistFromSide float64 `yaml:"vroom_dist_from_side"`
	VroomStepsPerDist float64 `yaml:"vroom_steps_per_dist"`
}
