package vectorize

import (
	"errors"
	"math"
	"sort"

	"github.com/unixpickle/model3d/model2d"

	"github.com/VarKun/lineus-plot/paths"
)

// ErrNoStrokes reports that nothing drawable survived vectorization.
// A program without strokes is still valid; callers treat this as a warning.
var ErrNoStrokes = errors.New("no strokes found in image")

// rings finds every outer and hole outline of the ink in b, along pixel
// edges. The nesting of outlines is not kept. Each ring starts at its
// top-left vertex and runs down from there.
func rings(b *Bitmap) [][]paths.Vec2 {
	mesh := b.Mesh()
	var loops [][]model2d.Coord
	if mesh.Manifold() {
		var flatten func(hs []*model2d.MeshHierarchy)
		flatten = func(hs []*model2d.MeshHierarchy) {
			for _, h := range hs {
				loops = append(loops, meshLoops(h.Mesh)...)
				flatten(h.Children)
			}
		}
		flatten(model2d.MeshToHierarchy(mesh))
	} else {
		// Pixels touching only at a corner share a vertex, which the
		// hierarchy can't split.
		loops = meshLoops(mesh)
	}

	var out [][]paths.Vec2
	for _, l := range loops {
		v := make([]paths.Vec2, len(l))
		for i, c := range l {
			v[i] = paths.Vec2{c.X, c.Y}
		}
		if v = compress(v); len(v) >= 3 {
			out = append(out, normalize(v))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i][0], out[j][0]
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return len(out[i]) > len(out[j])
	})
	return out
}

func coordLess(a, b model2d.Coord) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// meshLoops chains the segments of m into closed loops. At a vertex with
// more than one way on, the walk takes the sharpest counterclockwise
// turn.
func meshLoops(m *model2d.Mesh) [][]model2d.Coord {
	var segs [][2]model2d.Coord
	for _, s := range m.SegmentSlice() {
		a, b := s[0], s[1]
		if coordLess(b, a) {
			a, b = b, a
		}
		segs = append(segs, [2]model2d.Coord{a, b})
	}
	sort.Slice(segs, func(i, j int) bool {
		if segs[i][0] != segs[j][0] {
			return coordLess(segs[i][0], segs[j][0])
		}
		return coordLess(segs[i][1], segs[j][1])
	})
	at := map[model2d.Coord][]int{}
	for i, s := range segs {
		at[s[0]] = append(at[s[0]], i)
		at[s[1]] = append(at[s[1]], i)
	}
	used := make([]bool, len(segs))

	var loops [][]model2d.Coord
	for i, s := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		start, p := s[0], s[1]
		loop := []model2d.Coord{start}
		dir := p.Sub(start)
		for p != start {
			loop = append(loop, p)
			next, best := -1, math.Inf(-1)
			for _, j := range at[p] {
				if used[j] {
					continue
				}
				q := segs[j][0]
				if q == p {
					q = segs[j][1]
				}
				d := q.Sub(p)
				if turn := math.Atan2(dir.X*d.Y-dir.Y*d.X, dir.Dot(d)); turn > best {
					next, best = j, turn
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			q := segs[next][0]
			if q == p {
				q = segs[next][1]
			}
			dir = q.Sub(p)
			p = q
		}
		loops = append(loops, loop)
	}
	return loops
}

// compress drops the points in the middle of straight runs of a closed
// chain, keeping only the points where it turns.
func compress(chain []paths.Vec2) []paths.Vec2 {
	n := len(chain)
	if n < 3 {
		return chain
	}
	var r []paths.Vec2
	for i, c := range chain {
		prev := chain[(i+n-1)%n]
		next := chain[(i+1)%n]
		ax, ay := c[0]-prev[0], c[1]-prev[1]
		bx, by := next[0]-c[0], next[1]-c[1]
		if ax*by-ay*bx == 0 && ax*bx+ay*by > 0 {
			continue
		}
		r = append(r, c)
	}
	return r
}

// signedArea is the shoelace area of a closed ring, negative when the
// ring runs down its left side first (y grows downwards).
func signedArea(v []paths.Vec2) float64 {
	a := 0.0
	for i := range v {
		j := (i + 1) % len(v)
		a += v[i][0]*v[j][1] - v[j][0]*v[i][1]
	}
	return a / 2
}

// normalize orients v to a negative signed area and rotates it to start
// at its top-left vertex.
func normalize(v []paths.Vec2) []paths.Vec2 {
	if signedArea(v) > 0 {
		for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
			v[i], v[j] = v[j], v[i]
		}
	}
	first := 0
	for i, c := range v {
		f := v[first]
		if c[1] < f[1] || (c[1] == f[1] && c[0] < f[0]) {
			first = i
		}
	}
	return append(v[first:len(v):len(v)], v[:first]...)
}

// Trace extracts the outlines of the ink in b as closed strokes, ordered
// by their top-left vertex. Outlines enclosing less than p.MinArea are
// dropped as noise, the rest are simplified with tolerance p.Tolerance,
// and anything left with fewer than 3 vertices is dropped.
//
// The result's bounds are the bitmap's rectangle.
func Trace(b *Bitmap, p Profile) *paths.Paths {
	ps := &paths.Paths{Bounds: paths.Bounds{Max: paths.Vec2{float64(b.Width), float64(b.Height)}}}
	for _, ring := range rings(b) {
		if math.Abs(signedArea(ring)) < p.MinArea {
			continue
		}
		ring = paths.SimplifyClosed(ring, p.Tolerance)
		if len(ring) < 3 {
			continue
		}
		ps.P = append(ps.P, paths.Path{V: ring})
	}
	return ps
}
