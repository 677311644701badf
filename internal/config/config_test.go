package config

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/stepgen/internal/geom"
	"github.com/vovakirdan/stepgen/internal/stepgen"
	"github.com/vovakirdan/stepgen/internal/style"
)

func TestEmbeddedTuningMatchesDefaults(t *testing.T) {
	var cfg Tuning
	if err := yaml.Unmarshal(DefaultTuningYAML(), &cfg); err != nil {
		t.Fatalf("failed to parse embedded tuning: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultTuning()) {
		t.Errorf("embedded tuning differs from DefaultTuning():\n%+v\n%+v", cfg, DefaultTuning())
	}
}

func TestLoadTuningCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := []byte("feet:\n  max_dist: 1.5\ndoubles:\n  decay: 0.1\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning() failed: %v", err)
	}
	if cfg.Feet.MaxDist != 1.5 || cfg.Doubles.Decay != 0.1 {
		t.Errorf("overrides not applied: %+v %+v", cfg.Feet, cfg.Doubles)
	}
	// untouched values keep their defaults
	if cfg.Feet.MaxDistBrackets != 3.9 || cfg.Steps.MaxDist != 2.1 {
		t.Errorf("defaults lost: %+v %+v", cfg.Feet, cfg.Steps)
	}
}

func TestLoadTuningErrors(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("feet: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTuning(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestLoadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	data := []byte(`seed: 7
start_foot: right
disallow_footswitch: true
limits:
  max_angle: 1.5
  max_repeated: 2
decays:
  turn: {threshold: 1, base: 0.5}
doubles:
  dist: 1
  decay: 0.2
  track_individual_feet: true
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadParams(path)
	if err != nil {
		t.Fatalf("LoadParams() failed: %v", err)
	}
	if p.Seed == nil || *p.Seed != 7 {
		t.Errorf("Seed = %v, expected 7", p.Seed)
	}
	if p.StartFoot == nil || *p.StartFoot != geom.Right {
		t.Errorf("StartFoot = %v, expected right", p.StartFoot)
	}
	if p.Limits[stepgen.MaxAngle] != 1.5 || p.Limits[stepgen.MaxRepeated] != 2 {
		t.Errorf("Limits = %v", p.Limits)
	}
	if p.Decays[stepgen.TurnDecay] != (stepgen.Decay{Threshold: 1, Base: 0.5}) {
		t.Errorf("Decays = %v", p.Decays)
	}
	if p.Doubles == nil || !p.Doubles.TrackIndividualFeet {
		t.Errorf("Doubles = %+v", p.Doubles)
	}

	// written params read back identically
	out := filepath.Join(t.TempDir(), "out.yaml")
	if err := SaveParams(out, p); err != nil {
		t.Fatalf("SaveParams() failed: %v", err)
	}
	back, err := LoadParams(out)
	if err != nil {
		t.Fatalf("LoadParams() of saved params failed: %v", err)
	}
	if !reflect.DeepEqual(back, p) {
		t.Errorf("saved params differ:\n%+v\n%+v", back, p)
	}
}

func TestLoadParamsRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	if err := os.WriteFile(path, []byte("decays:\n  angle: {threshold: 1, base: 0}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadParams(path); err == nil {
		t.Error("expected validation error for zero decay base")
	}
}

func TestBuildParamsDefaults(t *testing.T) {
	p := BuildParams(DefaultTuning(), Options{}, style.MustLookup(style.ItgSingles))
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	if !p.DisallowFootswitch || !p.DisallowFootOppositeSide || p.RemoveJumps {
		t.Errorf("flags = footswitch %v opposite %v jumps %v", p.DisallowFootswitch, p.DisallowFootOppositeSide, p.RemoveJumps)
	}
	limits := map[stepgen.Limit]float64{
		stepgen.MaxDistBetweenFeet:                     2.9,
		stepgen.MaxDistBetweenFeetIfCrossover:          2.5,
		stepgen.MaxDistBetweenSteps:                    2.1,
		stepgen.MaxHorizontalDistBetweenSteps:          1.0,
		stepgen.MaxHorizontalDistBetween4StepsBothFeet: 2.5,
		stepgen.MaxAngle:                               math.Pi / 2,
		stepgen.MaxTurn:                                math.Pi * 3 / 4,
	}
	if !reflect.DeepEqual(p.Limits, limits) {
		t.Errorf("Limits = %v, expected %v", p.Limits, limits)
	}
	if p.Decays[stepgen.RepeatedDecay] != (stepgen.Decay{Threshold: 1, Base: 0.1}) {
		t.Errorf("repeated decay = %v", p.Decays[stepgen.RepeatedDecay])
	}
	if p.PreserveInputRepetitions != nil || p.CrossoverMultiplier != nil {
		t.Error("optional multipliers set by default")
	}
	if p.Doubles == nil || !p.Doubles.TrackIndividualFeet || p.Doubles.DistFromSide != nil {
		t.Errorf("Doubles = %+v", p.Doubles)
	}
}

func TestBuildParamsOptions(t *testing.T) {
	tuning := DefaultTuning()
	doubles := style.MustLookup(style.ItgDoubles)

	t.Run("crossovers", func(t *testing.T) {
		p := BuildParams(tuning, Options{Crossovers: 2}, doubles)
		if p.DisallowFootOppositeSide || !p.RemoveJumps {
			t.Error("crossovers should lift the side rule and remove jumps")
		}
		if got := p.Limits[stepgen.MaxAngle]; math.Abs(got-math.Pi*1.1) > 1e-9 {
			t.Errorf("max angle = %v, expected 1.1π", got)
		}
		if p.Limits[stepgen.MaxTurn] != math.Pi {
			t.Errorf("max turn = %v, expected π", p.Limits[stepgen.MaxTurn])
		}
		if _, ok := p.Limits[stepgen.MaxHorizontalDistBetweenSteps]; ok {
			t.Error("horizontal step limit should be lifted")
		}
		if p.Doubles.TrackIndividualFeet {
			t.Error("feet should share the drift target")
		}
	})

	t.Run("preserve", func(t *testing.T) {
		p := BuildParams(tuning, Options{PreserveInputRepetitions: true}, doubles)
		if _, ok := p.Decays[stepgen.RepeatedDecay]; ok {
			t.Error("repeated decay should be off when preserving repetitions")
		}
		if p.PreserveInputRepetitions == nil || *p.PreserveInputRepetitions <= 0 {
			t.Errorf("PreserveInputRepetitions = %v", p.PreserveInputRepetitions)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("Validate() failed: %v", err)
		}
	})

	t.Run("vroom", func(t *testing.T) {
		p := BuildParams(tuning, Options{Vroom: true}, doubles)
		if p.Doubles.DistFromSide == nil || *p.Doubles.DistFromSide != 0 {
			t.Errorf("DistFromSide = %v", p.Doubles.DistFromSide)
		}
		if p.Doubles.StepsPerDist == nil || *p.Doubles.StepsPerDist != 2.5 {
			t.Errorf("StepsPerDist = %v", p.Doubles.StepsPerDist)
		}
		if p.Limits[stepgen.MaxDistBetweenSteps] != 2.9 {
			t.Errorf("max step dist = %v", p.Limits[stepgen.MaxDistBetweenSteps])
		}
	})

	t.Run("easy crossovers", func(t *testing.T) {
		p := BuildParams(tuning, Options{MoreEasyCrossovers: true, Footswitches: true}, doubles)
		if p.DisallowFootswitch {
			t.Error("footswitches should be allowed")
		}
		if p.CrossoverMultiplier == nil || *p.CrossoverMultiplier != 2 {
			t.Errorf("CrossoverMultiplier = %v", p.CrossoverMultiplier)
		}
		if p.Limits[stepgen.MaxHorizontalDistBetweenStepsIfCrossover] != 1.9 {
			t.Error("crossover horizontal limit missing")
		}
	})

	t.Run("brackets", func(t *testing.T) {
		p := BuildParams(tuning, Options{}, style.MustLookup(style.PumpDoublesBrackets))
		if p.Limits[stepgen.MaxDistBetweenFeet] != 3.9 {
			t.Errorf("max feet dist = %v, expected 3.9", p.Limits[stepgen.MaxDistBetweenFeet])
		}
		if p.DisallowFootOppositeSide {
			t.Error("side rule applies to single-pad layouts only")
		}
	})
}

func TestPresetsGenerate(t *testing.T) {
	ids := []style.ID{style.ItgSingles, style.ItgDoubles, style.PumpSingles, style.HorizonDoubles}
	for _, id := range ids {
		t.Run(string(id), func(t *testing.T) {
			layout := style.MustLookup(id)
			p := BuildParams(DefaultTuning(), Options{Seed: ptr(uint64(3))}, layout)
			g, err := stepgen.New(layout, p)
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			for i := 0; i < 300; i++ {
				if _, err := g.Advance(i%4, false); err != nil {
					t.Fatalf("Advance(%d) failed: %v", i, err)
				}
			}
		})
	}
}

func TestClone(t *testing.T) {
	base := BuildParams(DefaultTuning(), Options{Seed: ptr(uint64(1))}, style.MustLookup(style.ItgSingles))
	c, err := Clone(base)
	if err != nil {
		t.Fatalf("Clone() failed: %v", err)
	}
	if !reflect.DeepEqual(c, base) {
		t.Fatal("clone differs from original")
	}

	c.SetLimit(stepgen.MaxAngle, 0.1)
	*c.Seed = 99
	c.Doubles.Dist = 4
	if base.Limits[stepgen.MaxAngle] == 0.1 || *base.Seed == 99 || base.Doubles.Dist == 4 {
		t.Error("clone shares state with the original")
	}
}
