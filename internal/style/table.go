package style

import (
	"github.com/vovakirdan/stepgen/internal/geom"
)

// Layout identifiers.
const (
	ItgSingles          ID = "itg-singles"
	ItgDoubles          ID = "itg-doubles"
	ItgTriples          ID = "itg-triples"
	PumpSingles         ID = "pump-singles"
	PumpMiddle          ID = "pump-middle"
	PumpDoubles         ID = "pump-doubles"
	HorizonSingles      ID = "horizon-singles"
	HorizonDoubles      ID = "horizon-doubles"
	PumpSinglesBrackets ID = "pump-singles-brackets"
	PumpDoublesBrackets ID = "pump-doubles-brackets"
	HorizonSinglesQuads ID = "horizon-singles-quads"
)

// padWidth is the horizontal distance between the origins of adjacent pads.
const padWidth = 3

// Single-pad panel positions, in the column order each game writes them.
var (
	// left, down, up, right
	dancePad = []geom.Coord{{X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 2}, {X: 2, Y: 1}}

	// down-left, up-left, center, up-right, down-right
	pumpPad = []geom.Coord{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 0}}

	horizonPad = []geom.Coord{
		{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2},
		{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2},
		{X: 2, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 0},
	}
)

// Heel/toe bracket pairs on one pump pad, as panel indices of pumpPad.
var pumpPadBrackets = [][]int{{0, 2}, {1, 2}, {2, 3}, {2, 4}}

// definition is one row of the layout table.
type definition struct {
	id        ID
	title     string
	stepsType string
	pads      int
	panels    []geom.Coord
	extra     [][]int // multi-panel columns appended after the single-panel ones
	initCols  [2]int  // left, right
}

// definitions is the layout table. Order is irrelevant; List sorts by ID.
var definitions = []definition{
	{
		id: ItgSingles, title: "ITG Singles", stepsType: "dance-single",
		pads: 1, panels: repeatPad(dancePad, 1),
		initCols: [2]int{0, 3},
	},
	{
		id: ItgDoubles, title: "ITG Doubles", stepsType: "dance-double",
		pads: 2, panels: repeatPad(dancePad, 2),
		initCols: [2]int{3, 4},
	},
	{
		id: ItgTriples, title: "ITG Triples", stepsType: "dance-triple",
		pads: 3, panels: repeatPad(dancePad, 3),
		initCols: [2]int{4, 7},
	},
	{
		id: PumpSingles, title: "Pump Singles", stepsType: "pump-single",
		pads: 1, panels: repeatPad(pumpPad, 1),
		initCols: [2]int{0, 4},
	},
	{
		// The six inner panels of a doubles setup, shifted so the leftmost is x=0.
		id: PumpMiddle, title: "Pump Half-Doubles", stepsType: "pump-halfdouble",
		pads: 2, panels: shift(repeatPad(pumpPad, 2)[2:8], -1),
		initCols: [2]int{2, 3},
	},
	{
		id: PumpDoubles, title: "Pump Doubles", stepsType: "pump-double",
		pads: 2, panels: repeatPad(pumpPad, 2),
		initCols: [2]int{4, 5},
	},
	{
		id: HorizonSingles, title: "Horizon Singles", stepsType: "horizon-single",
		pads: 1, panels: repeatPad(horizonPad, 1),
		initCols: [2]int{1, 7},
	},
	{
		id: HorizonDoubles, title: "Horizon Doubles", stepsType: "horizon-double",
		pads: 2, panels: repeatPad(horizonPad, 2),
		initCols: [2]int{7, 10},
	},
	{
		id: PumpSinglesBrackets, title: "Pump Singles (brackets)", stepsType: "pump-single",
		pads: 1, panels: repeatPad(pumpPad, 1),
		extra:    pumpBrackets(1),
		initCols: [2]int{0, 4},
	},
	{
		id: PumpDoublesBrackets, title: "Pump Doubles (brackets)", stepsType: "pump-double",
		pads: 2, panels: repeatPad(pumpPad, 2),
		extra:    pumpBrackets(2),
		initCols: [2]int{4, 5},
	},
	{
		id: HorizonSinglesQuads, title: "Horizon Singles (quads)", stepsType: "horizon-single",
		pads: 1, panels: repeatPad(horizonPad, 1),
		extra:    quads(repeatPad(horizonPad, 1)),
		initCols: [2]int{1, 7},
	},
}

// repeatPad lays n copies of a pad side by side.
func repeatPad(pad []geom.Coord, n int) []geom.Coord {
	out := make([]geom.Coord, 0, len(pad)*n)
	for i := 0; i < n; i++ {
		out = append(out, shift(pad, float64(i*padWidth))...)
	}
	return out
}

func shift(cs []geom.Coord, dx float64) []geom.Coord {
	out := make([]geom.Coord, len(cs))
	for i, c := range cs {
		out[i] = c.Add(geom.C(dx, 0))
	}
	return out
}

// pumpBrackets returns the bracketable panel pairs of n adjacent pump pads,
// including the two pairs straddling each pad boundary.
func pumpBrackets(n int) [][]int {
	var out [][]int
	per := len(pumpPad)
	for pad := 0; pad < n; pad++ {
		base := pad * per
		for _, b := range pumpPadBrackets {
			out = append(out, []int{base + b[0], base + b[1]})
		}
		if pad > 0 {
			prev := base - per
			out = append(out,
				[]int{prev + 3, base + 1}, // up-right | up-left
				[]int{prev + 4, base + 0}, // down-right | down-left
			)
		}
	}
	return out
}

// quads returns every 2x2 block of panels present in a grid layout.
func quads(panels []geom.Coord) [][]int {
	index := make(map[geom.Coord]int, len(panels))
	var maxX, maxY float64
	for i, p := range panels {
		index[p] = i
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}

	var out [][]int
	for y := 0.0; y < maxY; y++ {
		for x := 0.0; x < maxX; x++ {
			block := make([]int, 0, 4)
			for _, c := range []geom.Coord{{X: x, Y: y}, {X: x + 1, Y: y}, {X: x, Y: y + 1}, {X: x + 1, Y: y + 1}} {
				if i, ok := index[c]; ok {
					block = append(block, i)
				}
			}
			if len(block) == 4 {
				out = append(out, block)
			}
		}
	}
	return out
}

// build turns a table row into a Layout.
func build(d definition) *Layout {
	l := &Layout{
		id:        d.id,
		title:     d.title,
		stepsType: d.stepsType,
		pads:      d.pads,
		panels:    d.panels,
		initCols:  d.initCols,
	}

	for i := range d.panels {
		l.columns = append(l.columns, []int{i})
	}
	l.columns = append(l.columns, d.extra...)

	l.coords = make([]geom.Coord, len(l.columns))
	for i, set := range l.columns {
		cs := make([]geom.Coord, len(set))
		for j, p := range set {
			cs[j] = d.panels[p]
		}
		l.coords[i] = geom.Centroid(cs)
	}

	l.minX, l.maxX, l.minY = l.coords[0].X, l.coords[0].X, l.coords[0].Y
	for _, c := range l.coords {
		l.minX = min(l.minX, c.X)
		l.maxX = max(l.maxX, c.X)
		l.minY = min(l.minY, c.Y)
	}
	return l
}
