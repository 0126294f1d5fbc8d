// Package gcode maps strokes into a plotter's coordinate space and
// writes and reads the line-oriented motion programs the plotter runs.
package gcode

import (
	"errors"
	"fmt"

	"github.com/VarKun/lineus-plot/paths"
)

// Point is a position in device units.
type Point struct {
	X, Y int
}

// A Stroke is a continuous pen-down path in device units.
type Stroke []Point

// Envelope describes the area a plotter can reach and how it lifts
// its pen. X and Y limits are the addressable range, with Y counted up
// from zero; the device itself centres Y on zero (see YDatum).
type Envelope struct {
	XMin, XMax int
	YMin, YMax int
	ZUp, ZDown int   // pen heights
	Home       Point // where the pen rests before and after a drawing
}

// LineUs is the largest drawing area of a Line-us: 100 units are
// about 5mm, the origin is at the servo shaft and Y runs -1000..1000.
var LineUs = Envelope{
	XMin: 650, XMax: 1775,
	YMin: 0, YMax: 2000,
	ZUp: 1000, ZDown: 0,
	Home: Point{1000, 0},
}

// LineUsSafe is a smaller Line-us area that stays clear of the arm's
// mechanical limits: Y runs -900..900 on the device.
var LineUsSafe = Envelope{
	XMin: 700, XMax: 1700,
	YMin: 0, YMax: 1800,
	ZUp: 1000, ZDown: 0,
	Home: Point{1000, 0},
}

// ErrBadEnvelope is returned by Validate.
var ErrBadEnvelope = errors.New("invalid envelope")

// Envelopes maps preset names to envelopes.
var Envelopes = map[string]Envelope{
	"full": LineUs,
	"safe": LineUsSafe,
}

// Width of the drawing area.
func (e Envelope) Width() int { return e.XMax - e.XMin }

// Height of the drawing area.
func (e Envelope) Height() int { return e.YMax - e.YMin }

// YDatum is added to every mapped Y coordinate. The Line-us firmware
// puts Y=0 on the axis of the arm's servos, halfway up the drawing area,
// so addressable Y values are shifted down by half the height.
func (e Envelope) YDatum() int { return -e.Height() / 2 }

// Bounds returns the rectangle mapped strokes land in, in device
// coordinates.
func (e Envelope) Bounds() paths.Bounds {
	d := e.YDatum()
	return paths.Bounds{
		Min: paths.Vec2{float64(e.XMin), float64(e.YMin + d)},
		Max: paths.Vec2{float64(e.XMax), float64(e.YMax + d)},
	}
}

// Center is the middle of the drawing area in device coordinates, the
// conventional pen position to plan a drawing from.
func (e Envelope) Center() paths.Vec2 {
	return paths.Vec2{
		float64(e.XMin + e.Width()/2),
		float64(e.YMin + e.Height()/2 + e.YDatum()),
	}
}

// Validate checks that the envelope has an area and distinct pen heights.
func (e Envelope) Validate() error {
	if e.XMax <= e.XMin || e.YMax <= e.YMin {
		return fmt.Errorf("%w: empty drawing area x %d..%d y %d..%d", ErrBadEnvelope, e.XMin, e.XMax, e.YMin, e.YMax)
	}
	if e.ZUp == e.ZDown {
		return fmt.Errorf("%w: pen up and down heights are both %d", ErrBadEnvelope, e.ZUp)
	}
	return nil
}
