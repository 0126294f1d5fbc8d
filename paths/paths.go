// Package paths provides tools for manipulating 2d paths consisting
// of line segments: the strokes a pen plotter draws.
package paths

import "math"

// Vec2 is a 2-dimensional vector.
type Vec2 [2]float64

// A Path is a contiguous series of line segments, from the
// first point in the V slice to the last.
type Path struct {
	V []Vec2
}

// Reversed returns a copy of the path traversed from the last
// point to the first.
func (p Path) Reversed() Path {
	r := make([]Vec2, len(p.V))
	for i, v := range p.V {
		r[len(p.V)-1-i] = v
	}
	return Path{V: r}
}

// Bounds describes an axis-aligned bounding box.
type Bounds struct {
	Min, Max Vec2
}

// Width of the box.
func (b Bounds) Width() float64 { return b.Max[0] - b.Min[0] }

// Height of the box.
func (b Bounds) Height() float64 { return b.Max[1] - b.Min[1] }

// Empty reports whether the box has no area.
func (b Bounds) Empty() bool { return !(b.Width() > 0 && b.Height() > 0) }

// Paths is a set of paths, along with a view bounds.
type Paths struct {
	Bounds Bounds
	P      []Path
}

// Clone returns a deep copy of ps.
func (ps *Paths) Clone() *Paths {
	np := &Paths{Bounds: ps.Bounds, P: make([]Path, len(ps.P))}
	for i, p := range ps.P {
		np.P[i] = Path{V: append([]Vec2(nil), p.V...)}
	}
	return np
}

// Vertices returns the total number of vertices over all paths.
func (ps *Paths) Vertices() int {
	n := 0
	for _, p := range ps.P {
		n += len(p.V)
	}
	return n
}

// extend grows b to include v.
func (b Bounds) extend(v Vec2) Bounds {
	for i := range v {
		b.Min[i] = math.Min(b.Min[i], v[i])
		b.Max[i] = math.Max(b.Max[i], v[i])
	}
	return b
}

// TightenBounds shrinks or grows the bounds to fit the vertices exactly.
// Without vertices the bounds become zero.
func (ps *Paths) TightenBounds() {
	if ps.Vertices() == 0 {
		ps.Bounds = Bounds{}
		return
	}
	inf := math.Inf(1)
	b := Bounds{Min: Vec2{inf, inf}, Max: Vec2{-inf, -inf}}
	for _, p := range ps.P {
		for _, v := range p.V {
			b = b.extend(v)
		}
	}
	ps.Bounds = b
}

// Transform maps every vertex from the current bounds onto nb, scaling
// each axis independently, and makes nb the new bounds. An axis of nb
// with Min above Max is mirrored.
func (ps *Paths) Transform(nb Bounds) {
	ob := ps.Bounds
	var scale, shift Vec2
	for i := range scale {
		scale[i] = (nb.Max[i] - nb.Min[i]) / (ob.Max[i] - ob.Min[i])
		shift[i] = nb.Min[i]
	}
	for _, p := range ps.P {
		for j, v := range p.V {
			for i := range v {
				v[i] = (v[i]-ob.Min[i])*scale[i] + shift[i]
			}
			p.V[j] = v
		}
	}
	ps.Bounds = nb
}

// TravelDistance computes the pen-up distance needed to draw the paths
// in order, starting with the pen at start. Drawing distance is excluded.
func TravelDistance(ps *Paths, start Vec2) float64 {
	d := 0.0
	last := start
	for _, p := range ps.P {
		if len(p.V) == 0 {
			continue
		}
		d += vec2dist(last, p.V[0])
		last = p.V[len(p.V)-1]
	}
	return d
}

func vec2dist(v0, v1 Vec2) float64 {
	dx := v0[0] - v1[0]
	dy := v0[1] - v1[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// move adds a new (initially empty) path starting at x,
// unless the last path already ends at x.
func (ps *Paths) move(x Vec2) {
	if len(ps.P) == 0 {
		ps.P = append(ps.P, Path{V: []Vec2{x}})
		return
	}
	p := &ps.P[len(ps.P)-1]
	if len(p.V) > 0 && p.V[len(p.V)-1] == x {
		return
	}
	ps.P = append(ps.P, Path{V: []Vec2{x}})
}

// line extends the last path with an edge that goes to x.
func (ps *Paths) line(x Vec2) {
	p := &ps.P[len(ps.P)-1]
	p.V = append(p.V, x)
}
