package stepgen

import (
	"math"

	"github.com/vovakirdan/stepgen/internal/geom"
)

// zone is one leg of doubles drift: linear travel from startX to endX over
// total committed steps.
type zone struct {
	startX    float64
	endX      float64
	total     int
	remaining int
	side      geom.Foot // side of the layout endX sits on
}

// currentX interpolates the zone target by elapsed steps.
func (z *zone) currentX() float64 {
	elapsed := z.total - z.remaining
	return z.startX + (z.endX-z.startX)*float64(elapsed)/float64(z.total)
}

func (z *zone) done() bool {
	return z.remaining <= 0
}

// newZone draws a zone from startX toward the given side of the layout.
func (g *Generator) newZone(startX float64, side geom.Foot) *zone {
	end := g.zoneEnd(side)
	steps := g.zoneSteps(math.Abs(end - startX))
	return &zone{
		startX:    startX,
		endX:      end,
		total:     steps,
		remaining: steps,
		side:      side,
	}
}

// zoneEnd picks the target x near one side of the layout. Layouts too narrow
// to leave a corridor between the two sides always target the center.
func (g *Generator) zoneEnd(side geom.Foot) float64 {
	dm := g.params.Doubles
	var fromSide float64
	if dm.DistFromSide != nil {
		fromSide = *dm.DistFromSide
	} else {
		fromSide = 0.5 + g.rng.Float64()
	}
	lo := fromSide
	hi := g.layout.MaxX() - fromSide
	if hi-lo < 1 {
		return g.layout.CenterX()
	}
	if side == geom.Left {
		return lo
	}
	return hi
}

// zoneSteps returns the step budget for travelling dist units.
func (g *Generator) zoneSteps(dist float64) int {
	dm := g.params.Doubles
	var perDist float64
	if dm.StepsPerDist != nil {
		perDist = *dm.StepsPerDist
	} else {
		perDist = 2 + 3*g.rng.Float64()
	}
	return max(2, int(math.Ceil(dist*perDist)))
}

// tickZone counts down the active zone and draws the next one, toward the
// opposite side, once it is reached.
func (g *Generator) tickZone() {
	if g.zone == nil {
		return
	}
	g.zone.remaining--
	if g.zone.done() {
		g.zone = g.newZone(g.zone.endX, g.zone.side.Other())
	}
}
