// Package geom provides the value types shared by pad layouts and the step
// generator: panel coordinates, the continuity-preserving bearing between two
// panels, and the foot tag.
package geom

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance applied to every distance and angle comparison.
const Epsilon = 1e-5

// Coord is a point on a pad, in panel units of its layout.
// X increases to the player's right, Y increases toward the screen.
type Coord struct {
	X, Y float64
}

// C is a convenience constructor for Coord.
func C(x, y float64) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%g,%g)", c.X, c.Y)
}

// Add returns the component-wise sum of two coordinates.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Sub returns the component-wise difference c - o.
func (c Coord) Sub(o Coord) Coord {
	return Coord{X: c.X - o.X, Y: c.Y - o.Y}
}

// Scale multiplies both components by k.
func (c Coord) Scale(k float64) Coord {
	return Coord{X: c.X * k, Y: c.Y * k}
}

// Dist returns the Euclidean distance to another coordinate.
func (c Coord) Dist(o Coord) float64 {
	dx := c.X - o.X
	dy := c.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DX returns the absolute horizontal distance to another coordinate.
func (c Coord) DX(o Coord) float64 {
	return math.Abs(c.X - o.X)
}

// DY returns the absolute vertical distance to another coordinate.
func (c Coord) DY(o Coord) float64 {
	return math.Abs(c.Y - o.Y)
}

// Angle returns the bearing from c to o, unwrapped so that it is continuous
// with prev: the result is congruent to atan2(dy, dx) modulo 2π and lies in
// (prev-π, prev+π]. A bearing exactly π away from prev resolves to prev+π.
func (c Coord) Angle(o Coord, prev float64) float64 {
	raw := math.Atan2(o.Y-c.Y, o.X-c.X)
	k := math.Floor((prev - raw + math.Pi) / (2 * math.Pi))
	return raw + k*2*math.Pi
}

// Centroid returns the mean of the given coordinates.
// Panics on an empty slice.
func Centroid(cs []Coord) Coord {
	if len(cs) == 0 {
		panic("geom: centroid of no coordinates")
	}
	var sum Coord
	for _, c := range cs {
		sum = sum.Add(c)
	}
	return sum.Scale(1 / float64(len(cs)))
}
