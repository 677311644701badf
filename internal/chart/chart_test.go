package chart

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/stepgen/internal/config"
	"github.com/vovakirdan/stepgen/internal/stepgen"
	"github.com/vovakirdan/stepgen/internal/style"
)

const zaia = "A\n#NOTES:\n     dance-single:\n     Zaia:\n     Challenge:\n     17:\n     useless:\n0000\n;\n"

var (
	singles = style.MustLookup(style.ItgSingles)
	doubles = style.MustLookup(style.ItgDoubles)
)

func toDoubles() []Target {
	return []Target{{Layout: doubles}}
}

func TestGenerateSM(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "one chart",
			input:    zaia,
			expected: "\n#NOTES:\n     dance-double:\n     STEPGEN - Zaia:\n     Challenge:\n     17:\n     :\n00000000\n;\n",
		},
		{
			name: "two charts",
			input: "A\n#NOTES:\n     dance-single:\n     Zaia:\n     Hard:\n     17:\n     useless:\n0000\n;\n" +
				"#NOTES:\n     dance-single:\n     Zaia:\n     Challenge:\n     17:\n     useless:\n0000\n;\n",
			expected: "\n#NOTES:\n     dance-double:\n     STEPGEN - Zaia:\n     Hard:\n     17:\n     :\n00000000\n;\n" +
				"\n#NOTES:\n     dance-double:\n     STEPGEN - Zaia:\n     Challenge:\n     17:\n     :\n00000000\n;\n",
		},
		{
			name:     "other steps-types ignored",
			input:    "#NOTES:\n     pump-single:\n     x:\n     Hard:\n     3:\n     :\n00000\n;\n",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Generate(tc.input, SM, singles, toDoubles(), false, Options{})
			if err != nil {
				t.Fatalf("Generate() failed: %v", err)
			}
			if got := strings.TrimPrefix(out.Contents, tc.input); got != tc.expected {
				t.Errorf("generated:\n%q\nexpected:\n%q", got, tc.expected)
			}
		})
	}
}

func TestGenerateSMErrors(t *testing.T) {
	tests := map[string]string{
		"semicolon in metadata": "A\n#NOTES:\n     dance-single:\n     Zaia:\n     Challenge;\n     17:\n     useless:\n0000\n;",
		"no semicolon":          "A\n#NOTES:\n     dance-single:\n     Zaia:\n     Challenge:\n     17:\n     useless:\n0000\n",
		"bad row":               "A\n#NOTES:\n     dance-single:\n     Zaia:\n     Challenge:\n     17:\n     useless:\n0000,0070;\n\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Generate(input, SM, singles, toDoubles(), false, Options{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGenerateRefusesExistingAutogen(t *testing.T) {
	first, err := Generate(zaia, SM, singles, toDoubles(), false, Options{})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	second, err := Generate(first.Contents, SM, singles, toDoubles(), false, Options{})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if second.Contents != first.Contents {
		t.Error("contents changed although the target already had generated charts")
	}
	if len(second.Outcomes) != 1 || !errors.Is(second.Outcomes[0].Err, ErrAlreadyGenerated) {
		t.Errorf("Outcomes = %+v, expected ErrAlreadyGenerated", second.Outcomes)
	}

	// removing first regenerates the same chart
	third, err := Generate(first.Contents, SM, singles, toDoubles(), true, Options{})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if third.Removed != 1 || third.Generated() != 1 {
		t.Errorf("Removed = %d, Generated = %d", third.Removed, third.Generated())
	}
	if third.Contents != first.Contents {
		t.Errorf("regenerated contents differ:\n%q\n%q", third.Contents, first.Contents)
	}
}

func TestRemoveAutogenRestoresOriginal(t *testing.T) {
	for _, format := range []Format{SM, SSC} {
		t.Run(format.String(), func(t *testing.T) {
			input := randomChart(format, 64, 1)
			out, err := Generate(input, format, singles, []Target{
				{Layout: doubles},
				{Layout: style.MustLookup(style.PumpSingles)},
			}, false, Options{})
			if err != nil {
				t.Fatalf("Generate() failed: %v", err)
			}
			if out.Generated() != 2 {
				t.Fatalf("Generated() = %d, expected 2", out.Generated())
			}

			stripped, n, err := RemoveAutogen(out.Contents, format)
			if err != nil {
				t.Fatalf("RemoveAutogen() failed: %v", err)
			}
			if n != 2 || stripped != input {
				t.Errorf("RemoveAutogen() removed %d, contents:\n%q\nexpected:\n%q", n, stripped, input)
			}
		})
	}
}

func TestGenerateMetadata(t *testing.T) {
	out, err := Generate(zaia, SM, singles, toDoubles(), false, Options{Edits: true, Extra: "v2"})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	charts, err := Parse(out.Contents, SM)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(charts) != 2 {
		t.Fatalf("expected 2 charts, got %d", len(charts))
	}
	gen := charts[1]
	if gen.StepsType != "dance-double" || gen.Description != "STEPGEN v2 - Zaia" || gen.Difficulty != EditDifficulty || gen.Meter != 17 {
		t.Errorf("generated metadata = %+v", gen)
	}
	if !gen.Autogen() || charts[0].Autogen() {
		t.Error("Autogen() misreported")
	}
}

func TestDifficultyFilter(t *testing.T) {
	p := stepgen.Params{MinDifficulty: ptr(18)}
	out, err := Generate(zaia, SM, singles, []Target{{Layout: doubles, Params: p}}, false, Options{})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if out.Contents != zaia {
		t.Error("filtered chart was generated")
	}
	if len(out.Outcomes) != 1 || !errors.Is(out.Outcomes[0].Err, ErrFiltered) {
		t.Errorf("Outcomes = %+v, expected ErrFiltered", out.Outcomes)
	}

	p = stepgen.Params{MinDifficulty: ptr(10), MaxDifficulty: ptr(17)}
	out, err = Generate(zaia, SM, singles, []Target{{Layout: doubles, Params: p}}, false, Options{})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if out.Generated() != 1 {
		t.Errorf("Generated() = %d, expected 1", out.Generated())
	}
}

func TestConvertDeterministic(t *testing.T) {
	charts, err := Parse(randomChart(SM, 200, 7), SM)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	ch := charts[0]
	p := config.BuildParams(config.DefaultTuning(), config.Options{}, doubles)

	a, err := Convert(ch, singles, doubles, p, Options{})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	b, err := Convert(ch, singles, doubles, p, Options{})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	if a.Render(SM) != b.Render(SM) || a.Seed != b.Seed {
		t.Error("identical input converted differently")
	}
	if a.Seed != Seed(ch, style.ItgDoubles) {
		t.Errorf("Seed = %d, expected the derived seed", a.Seed)
	}
	if Seed(ch, style.PumpDoubles) == a.Seed {
		t.Error("seed does not depend on the target layout")
	}

	p.Seed = ptr(uint64(5))
	c, err := Convert(ch, singles, doubles, p, Options{})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	if c.Seed != 5 {
		t.Errorf("explicit seed ignored: %d", c.Seed)
	}
}

func TestConvertRows(t *testing.T) {
	input := "#NOTES:\n dance-single:\n x:\n Hard:\n 9:\n :\n1000\n0110\n0000\n,\n1M0L\n0000\n;\n"
	charts, err := Parse(input, SM)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	brackets := style.MustLookup(style.PumpSinglesBrackets)
	res, err := Convert(charts[0], singles, brackets, stepgen.Params{}, Options{})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}

	wantSteps := []int{1, 2, 0, 0, 2, 0}
	if len(res.Rows) != len(wantSteps) {
		t.Fatalf("got %d rows, expected %d", len(res.Rows), len(wantSteps))
	}
	for i, row := range res.Rows {
		if len(row.Steps) != wantSteps[i] {
			t.Errorf("row %d has %d steps, expected %d", i, len(row.Steps), wantSteps[i])
		}
		if i == 3 {
			if row.Text != "" {
				t.Errorf("row 3 should be a separator, got %q", row.Text)
			}
			continue
		}
		if len(row.Text) != brackets.NumPanels() {
			t.Errorf("row %d = %q, expected %d panels", i, row.Text, brackets.NumPanels())
		}
		lit := strings.Count(row.Text, "1")
		if len(row.Steps) == 0 && lit != 0 {
			t.Errorf("empty row %d lights %q", i, row.Text)
		}
		if len(row.Steps) > 0 && lit == 0 {
			t.Errorf("row %d lights nothing", i)
		}
	}
	// jumps go to both feet
	if j := res.Rows[1].Steps; j[0].Foot == j[1].Foot {
		t.Errorf("jump steps = %+v, expected both feet", j)
	}
	if res.Stats.Jumps != 4 {
		t.Errorf("Stats.Jumps = %d, expected 4", res.Stats.Jumps)
	}

	res, err = Convert(charts[0], singles, doubles, stepgen.Params{RemoveJumps: true}, Options{})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	if n := len(res.Rows[1].Steps); n != 1 {
		t.Errorf("jump row has %d steps with jumps removed", n)
	}
}

func TestConvertErrors(t *testing.T) {
	charts, err := Parse("#NOTES:\n dance-single:\n x:\n Hard:\n 9:\n :\n10000\n;\n", SM)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if _, err := Convert(charts[0], singles, doubles, stepgen.Params{}, Options{}); err == nil {
		t.Error("expected error for row width mismatch")
	}
	if _, err := Convert(charts[0], doubles, singles, stepgen.Params{}, Options{}); err == nil {
		t.Error("expected error for steps-type mismatch")
	}
}

func TestFailedConversionDoesNotAffectOthers(t *testing.T) {
	var stuck stepgen.Params
	stuck.SetLimit(stepgen.MaxDistBetweenSteps, 0)
	stuck.SetLimit(stepgen.MaxRepeated, 1)

	input := randomChart(SM, 32, 3)
	out, err := Generate(input, SM, singles, []Target{
		{Layout: doubles, Params: stuck},
		{Layout: style.MustLookup(style.PumpDoubles)},
	}, false, Options{})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if len(out.Outcomes) != 2 {
		t.Fatalf("Outcomes = %+v", out.Outcomes)
	}
	if !errors.Is(out.Outcomes[0].Err, stepgen.ErrNoValidColumn) {
		t.Errorf("first outcome error = %v, expected ErrNoValidColumn", out.Outcomes[0].Err)
	}
	if out.Outcomes[1].Err != nil || out.Generated() != 1 {
		t.Errorf("second outcome = %+v", out.Outcomes[1])
	}
	if strings.Contains(out.Contents, "dance-double") {
		t.Error("failed conversion was written")
	}
}

func TestPresetsConvertRandomCharts(t *testing.T) {
	input := randomChart(SM, 500, 11)
	charts, err := Parse(input, SM)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	var opts []config.Options
	for crossovers := 0; crossovers <= 2; crossovers++ {
		for _, preserve := range []bool{false, true} {
			opts = append(opts, config.Options{Crossovers: crossovers, PreserveInputRepetitions: preserve})
		}
	}
	opts = append(opts,
		config.Options{Crossovers: 1, MoreEasyCrossovers: true},
		config.Options{Vroom: true},
	)

	for _, id := range []style.ID{style.ItgDoubles, style.PumpSingles, style.PumpDoubles, style.PumpDoublesBrackets} {
		to := style.MustLookup(id)
		for _, o := range opts {
			p := config.BuildParams(config.DefaultTuning(), o, to)
			if _, err := Convert(charts[0], singles, to, p, Options{}); err != nil {
				t.Errorf("%s %+v: %v", id, o, err)
			}
		}
	}
}

func TestParseSSC(t *testing.T) {
	input := "#TITLE:Song;\n#NOTEDATA:;\n#CHARTNAME:Main;\n#STEPSTYPE:dance-single;\n#DESCRIPTION:Zaia;\n" +
		"#DIFFICULTY:Hard;\n#METER:12;\n#RADARVALUES:0,0;\n#NOTES:\n1000\n0001 // end\n,\n0000\n;\n"
	charts, err := Parse(input, SSC)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(charts) != 1 {
		t.Fatalf("expected 1 chart, got %d", len(charts))
	}
	ch := charts[0]
	if ch.StepsType != "dance-single" || ch.Description != "Zaia" || ch.Difficulty != "Hard" || ch.Meter != 12 {
		t.Errorf("metadata = %+v", ch)
	}
	if !reflect.DeepEqual(ch.Extra, []Tag{{Key: "CHARTNAME", Value: "Main"}}) {
		t.Errorf("Extra = %v", ch.Extra)
	}
	if ch.Rows() != 3 || ch.Notes() != 2 {
		t.Errorf("Rows() = %d, Notes() = %d", ch.Rows(), ch.Notes())
	}

	if _, err := Parse("#NOTEDATA:;\n#STEPSTYPE:dance-single;\n", SSC); err == nil {
		t.Error("expected error for notedata without notes")
	}
}

func TestColumns(t *testing.T) {
	tests := []struct {
		row  string
		want []int
		ok   bool
	}{
		{"0000", nil, true},
		{"1000", []int{0}, true},
		{"0204", []int{1, 3}, true},
		{"L3MF", []int{0}, true},
		{"1111", []int{0, 1}, true},
		{"1X00", nil, false},
	}
	for _, tc := range tests {
		got, err := columns(tc.row)
		if (err == nil) != tc.ok {
			t.Errorf("columns(%q) error = %v", tc.row, err)
			continue
		}
		if tc.ok && !reflect.DeepEqual(got, tc.want) {
			t.Errorf("columns(%q) = %v, expected %v", tc.row, got, tc.want)
		}
	}
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "b", "song.SSC"),
		filepath.Join(dir, "a", "song.sm"),
		filepath.Join(dir, "a", "notes.txt"),
	}
	for _, p := range paths {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(zaia), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := FindFiles([]string{dir, paths[1]})
	if err != nil {
		t.Fatalf("FindFiles() failed: %v", err)
	}
	expected := []File{{Path: paths[1], Format: SM}, {Path: paths[0], Format: SSC}}
	if !reflect.DeepEqual(files, expected) {
		t.Errorf("FindFiles() = %v, expected %v", files, expected)
	}

	if _, err := FindFiles([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected error for missing root")
	}
}

// randomChart builds a singles chart of random taps.
func randomChart(format Format, rows int, seed uint64) string {
	rng := rand.New(rand.NewPCG(seed, seed))
	var notes strings.Builder
	for i := 0; i < rows; i++ {
		if i > 0 && i%4 == 0 {
			notes.WriteString(",\n")
		}
		row := []byte("0000")
		row[rng.IntN(4)] = '1'
		notes.Write(row)
		notes.WriteByte('\n')
	}
	notes.WriteString(";\n")

	if format == SSC {
		return "#TITLE:Random;\n#NOTEDATA:;\n#STEPSTYPE:dance-single;\n#DESCRIPTION:rng;\n" +
			"#DIFFICULTY:Hard;\n#METER:9;\n#NOTES:\n" + notes.String()
	}
	return "#TITLE:Random;\n#NOTES:\n     dance-single:\n     rng:\n     Hard:\n     9:\n     :\n" + notes.String()
}

func ptr[T any](v T) *T {
	return &v
}
