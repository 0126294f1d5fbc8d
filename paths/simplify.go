package paths

import (
	"math"
)

// vec2linedist returns the distance from v to the segment s-e.
func vec2linedist(v, s, e Vec2) float64 {
	dx, dy := e[0]-s[0], e[1]-s[1]
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return vec2dist(v, s)
	}
	t := ((v[0]-s[0])*dx + (v[1]-s[1])*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return vec2dist(v, Vec2{s[0] + t*dx, s[1] + t*dy})
}

func simplifyPath(v []Vec2, tol float64) []Vec2 {
	if len(v) <= 2 {
		return append([]Vec2(nil), v...)
	}
	worst := 0
	worstD := 0.0
	for i := 1; i < len(v)-1; i++ {
		d := vec2linedist(v[i], v[0], v[len(v)-1])
		if d > worstD {
			worst = i
			worstD = d
		}
	}
	if worstD <= tol {
		return []Vec2{v[0], v[len(v)-1]}
	}
	lefts := simplifyPath(v[:worst+1], tol)
	rights := simplifyPath(v[worst:], tol)
	return append(lefts, rights[1:]...)
}

// SimplifyClosed simplifies a closed ring of vertices (the closing edge
// from the last vertex back to the first is implied). The ring is split
// at the vertex farthest from the first one and each half is simplified
// independently, so the result keeps the first vertex and that far vertex.
func SimplifyClosed(v []Vec2, tol float64) []Vec2 {
	if len(v) < 3 {
		return append([]Vec2(nil), v...)
	}
	far, farD := 0, -1.0
	for i := 1; i < len(v); i++ {
		if d := vec2dist(v[0], v[i]); d > farD {
			far, farD = i, d
		}
	}
	if farD == 0 {
		return []Vec2{v[0]}
	}
	left := simplifyPath(v[:far+1], tol)
	back := append(append([]Vec2(nil), v[far:]...), v[0])
	right := simplifyPath(back, tol)
	r := append(left, right[1:len(right)-1]...)
	return dedupe(r)
}

// dedupe drops vertices equal to their predecessor.
func dedupe(v []Vec2) []Vec2 {
	if len(v) == 0 {
		return v
	}
	r := v[:1]
	for _, x := range v[1:] {
		if x != r[len(r)-1] {
			r = append(r, x)
		}
	}
	return r
}

// Simplify removes points from paths, with the guarantee that
// all removed points are within the given tolerance (distance)
// from the new path.
func (ps *Paths) Simplify(tol float64) {
	for i, p := range ps.P {
		ps.P[i].V = simplifyPath(p.V, tol)
	}
}
