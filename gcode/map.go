package gcode

import (
	"errors"
	"fmt"
	"math"

	"github.com/VarKun/lineus-plot/paths"
)

// ErrEmptyImage is returned by Map for images without area.
var ErrEmptyImage = errors.New("image has no area")

// Fit returns where a width×height image lands inside the envelope: as
// large as possible without distortion, centred, and flipped so the top
// of the image (y=0) is at the top of the device's Y range. Min is
// above Max on the Y axis, which makes paths.Transform mirror Y.
func Fit(width, height float64, env Envelope) paths.Bounds {
	ew, eh := float64(env.Width()), float64(env.Height())
	scale := math.Min(ew/width, eh/height)
	xOff := (ew - width*scale) / 2
	yOff := (eh - height*scale) / 2
	x0 := float64(env.XMin) + xOff
	y0 := float64(env.YMin+env.YDatum()) + yOff
	return paths.Bounds{
		Min: paths.Vec2{x0, y0 + height*scale},
		Max: paths.Vec2{x0 + width*scale, y0},
	}
}

// Map scales closed outlines traced from a width×height image into the
// envelope, preserving the aspect ratio, and rounds them to device
// units. Every resulting point lies within env.Bounds(). Outlines too
// small to keep 3 distinct device points are dropped.
func Map(ps *paths.Paths, width, height int, env Envelope) ([]Stroke, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	img := &paths.Paths{P: ps.P, Bounds: paths.Bounds{Max: paths.Vec2{float64(width), float64(height)}}}
	return mapBounds(img, env, true)
}

// MapBounds is like Map for open paths, with the drawing's frame given
// by ps.Bounds rather than an image size. Paths that round to a single
// device point are dropped. Points outside the frame map outside the
// envelope; clip first if that matters.
func MapBounds(ps *paths.Paths, env Envelope) ([]Stroke, error) {
	return mapBounds(ps, env, false)
}

func mapBounds(ps *paths.Paths, env Envelope, closed bool) ([]Stroke, error) {
	b := ps.Bounds
	if b.Empty() {
		return nil, fmt.Errorf("%w: bounds %v", ErrEmptyImage, b)
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	img := ps.Clone()
	img.Transform(Fit(b.Width(), b.Height(), env))
	return Round(img, closed), nil
}

// ImagePoint is the inverse of Map for a single point: it returns the
// position in a width×height image that lands on the device point p.
func ImagePoint(p paths.Vec2, width, height int, env Envelope) paths.Vec2 {
	return Unmap(p, paths.Bounds{Max: paths.Vec2{float64(width), float64(height)}}, env)
}

// Unmap is the inverse of MapBounds for a single point, before rounding.
func Unmap(p paths.Vec2, frame paths.Bounds, env Envelope) paths.Vec2 {
	pt := &paths.Paths{
		Bounds: Fit(frame.Width(), frame.Height(), env),
		P:      []paths.Path{{V: []paths.Vec2{p}}},
	}
	pt.Transform(frame)
	return pt.P[0].V[0]
}

// Round converts paths to device strokes, rounding to the nearest unit
// and dropping points that round onto their predecessor. Closed
// outlines also lose a last point equal to their first, and are dropped
// below 3 points; open paths are dropped below 2.
func Round(ps *paths.Paths, closed bool) []Stroke {
	least := 2
	if closed {
		least = 3
	}
	strokes := make([]Stroke, 0, len(ps.P))
	for _, p := range ps.P {
		var s Stroke
		for _, v := range p.V {
			pt := Point{int(math.Round(v[0])), int(math.Round(v[1]))}
			if len(s) > 0 && s[len(s)-1] == pt {
				continue
			}
			s = append(s, pt)
		}
		if closed && len(s) > 1 && s[len(s)-1] == s[0] {
			s = s[:len(s)-1]
		}
		if len(s) >= least {
			strokes = append(strokes, s)
		}
	}
	return strokes
}

// ToPaths converts device strokes back to paths for previews. Y is
// negated so that, as in the source image, it grows downwards.
func ToPaths(strokes []Stroke, env Envelope) *paths.Paths {
	b := env.Bounds()
	ps := &paths.Paths{Bounds: paths.Bounds{
		Min: paths.Vec2{b.Min[0], -b.Max[1]},
		Max: paths.Vec2{b.Max[0], -b.Min[1]},
	}}
	for _, s := range strokes {
		p := paths.Path{V: make([]paths.Vec2, len(s))}
		for i, pt := range s {
			p.V[i] = paths.Vec2{float64(pt.X), float64(-pt.Y)}
		}
		ps.P = append(ps.P, p)
	}
	return ps
}
