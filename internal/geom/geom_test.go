package geom

import (
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCoordDist(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Coord
		expected float64
	}{
		{"same point", C(1, 1), C(1, 1), 0},
		{"horizontal", C(0, 1), C(2, 1), 2},
		{"vertical", C(1, 0), C(1, 2), 2},
		{"diagonal", C(0, 0), C(3, 4), 5},
		{"fractional", C(0.5, 0.5), C(1.5, 1.5), math.Sqrt2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if d := tc.a.Dist(tc.b); !approxEqual(d, tc.expected) {
				t.Errorf("Dist() = %v, expected %v", d, tc.expected)
			}
			// Also test symmetry
			if d := tc.b.Dist(tc.a); !approxEqual(d, tc.expected) {
				t.Errorf("Dist() (reversed) = %v, expected %v", d, tc.expected)
			}
		})
	}
}

func TestCoordArithmetic(t *testing.T) {
	a := C(1, 2)
	b := C(0.5, -1)

	if got := a.Add(b); got != C(1.5, 1) {
		t.Errorf("Add() = %v, expected (1.5,1)", got)
	}
	if got := a.Sub(b); got != C(0.5, 3) {
		t.Errorf("Sub() = %v, expected (0.5,3)", got)
	}
	if got := a.Scale(2); got != C(2, 4) {
		t.Errorf("Scale() = %v, expected (2,4)", got)
	}
	if got := a.DX(b); got != 0.5 {
		t.Errorf("DX() = %v, expected 0.5", got)
	}
	if got := a.DY(b); got != 3 {
		t.Errorf("DY() = %v, expected 3", got)
	}
}

func TestCentroid(t *testing.T) {
	got := Centroid([]Coord{C(0, 0), C(1, 1)})
	if got != C(0.5, 0.5) {
		t.Errorf("Centroid() = %v, expected (0.5,0.5)", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Centroid(nil) should panic")
		}
	}()
	Centroid(nil)
}

func TestAngle(t *testing.T) {
	origin := C(0, 0)

	tests := []struct {
		name     string
		to       Coord
		prev     float64
		expected float64
	}{
		{"east from zero", C(1, 0), 0, 0},
		{"north from zero", C(0, 1), 0, math.Pi / 2},
		{"south from zero", C(0, -1), 0, -math.Pi / 2},
		{"west at exactly pi away", C(-1, 0), 0, math.Pi},
		{"west from slightly negative", C(-1, 0), -0.1, -math.Pi},
		{"east after a full turn", C(1, 0), 2 * math.Pi, 2 * math.Pi},
		{"south continues past pi", C(0, -1), math.Pi, 3 * math.Pi / 2},
		{"north continues below -pi", C(0, 1), -math.Pi, -3 * math.Pi / 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := origin.Angle(tc.to, tc.prev); !approxEqual(got, tc.expected) {
				t.Errorf("Angle(%v, %v) = %v, expected %v", tc.to, tc.prev, got, tc.expected)
			}
		})
	}
}

func TestAngleContinuity(t *testing.T) {
	points := []Coord{C(0, 1), C(1, 0), C(1, 2), C(2, 1), C(-3, 0.5), C(0.25, -4)}
	prevs := []float64{-7, -math.Pi, -1, 0, 0.2, 1, math.Pi, 5, 12.5}

	for _, a := range points {
		for _, b := range points {
			if a == b {
				continue
			}
			raw := math.Atan2(b.Y-a.Y, b.X-a.X)
			for _, prev := range prevs {
				got := a.Angle(b, prev)
				if got <= prev-math.Pi-1e-9 || got > prev+math.Pi+1e-9 {
					t.Errorf("Angle(%v->%v, %v) = %v outside (prev-pi, prev+pi]", a, b, prev, got)
				}
				turns := (got - raw) / (2 * math.Pi)
				if !approxEqual(turns, math.Round(turns)) {
					t.Errorf("Angle(%v->%v, %v) = %v not congruent to %v", a, b, prev, got, raw)
				}
			}
		}
	}
}

func TestAngleStableUnderSmallPrevChange(t *testing.T) {
	a := C(0, 1)
	b := C(2, 1)
	if a.Angle(b, 0.2) != a.Angle(b, 0.221) {
		t.Error("small change of prev within the same branch changed the angle")
	}
}

func TestFootOther(t *testing.T) {
	if Left.Other() != Right {
		t.Error("Left.Other() should be Right")
	}
	if Right.Other() != Left {
		t.Error("Right.Other() should be Left")
	}
}

func TestParseFoot(t *testing.T) {
	tests := []struct {
		in       string
		expected Foot
		wantErr  bool
	}{
		{"left", Left, false},
		{"L", Left, false},
		{" Right ", Right, false},
		{"r", Right, false},
		{"middle", Left, true},
	}

	for _, tc := range tests {
		got, err := ParseFoot(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseFoot(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.expected {
			t.Errorf("ParseFoot(%q) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
}

func TestFootYAML(t *testing.T) {
	var doc struct {
		Start Foot `yaml:"start"`
	}
	if err := yaml.Unmarshal([]byte("start: right\n"), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if doc.Start != Right {
		t.Errorf("expected right, got %v", doc.Start)
	}
	if err := yaml.Unmarshal([]byte("start: sideways\n"), &doc); err == nil {
		t.Error("expected error for unknown foot")
	}
}
