package paths

type outcode uint

const (
	inside outcode = 0
	left   outcode = 1
	right  outcode = 2
	bottom outcode = 4
	top    outcode = 8
)

func (b Bounds) outcode(v Vec2) outcode {
	var c outcode
	if v[0] < b.Min[0] {
		c |= left
	} else if v[0] > b.Max[0] {
		c |= right
	}
	if v[1] < b.Min[1] {
		c |= bottom
	} else if v[1] > b.Max[1] {
		c |= top
	}
	return c
}

// Contains reports whether v is inside b (edges included).
func (b Bounds) Contains(v Vec2) bool {
	return b.outcode(v) == inside
}

// edgePoint moves v0 along v0-v1 onto the edge of b named by c.
func (b Bounds) edgePoint(v0, v1 Vec2, c outcode) Vec2 {
	dx, dy := v1[0]-v0[0], v1[1]-v0[1]
	switch {
	case c&top != 0:
		return Vec2{v0[0] + dx*(b.Max[1]-v0[1])/dy, b.Max[1]}
	case c&bottom != 0:
		return Vec2{v0[0] + dx*(b.Min[1]-v0[1])/dy, b.Min[1]}
	case c&right != 0:
		return Vec2{b.Max[0], v0[1] + dy*(b.Max[0]-v0[0])/dx}
	default:
		return Vec2{b.Min[0], v0[1] + dy*(b.Min[0]-v0[0])/dx}
	}
}

// clipLine is Cohen-Sutherland line clipping, see
// https://en.wikipedia.org/wiki/Cohen%E2%80%93Sutherland_algorithm
// It reports false if no part of the segment is inside b.
func clipLine(v0, v1 Vec2, b Bounds) (Vec2, Vec2, bool) {
	c0, c1 := b.outcode(v0), b.outcode(v1)
	for {
		if c0|c1 == inside {
			return v0, v1, true
		}
		if c0&c1 != 0 {
			return v0, v1, false
		}
		if c0 > c1 {
			v0 = b.edgePoint(v0, v1, c0)
			c0 = b.outcode(v0)
		} else {
			v1 = b.edgePoint(v0, v1, c1)
			c1 = b.outcode(v1)
		}
	}
}

// clipPath cuts p into the parts that lie inside b.
func clipPath(p Path, b Bounds) []Path {
	if len(p.V) == 1 {
		if b.Contains(p.V[0]) {
			return []Path{p}
		}
		return nil
	}
	var parts []Path
	cont := false // whether the last part ends at p.V[i-1]
	for i := 1; i < len(p.V); i++ {
		v0, v1, ok := clipLine(p.V[i-1], p.V[i], b)
		if !ok {
			cont = false
			continue
		}
		if !cont || v0 != p.V[i-1] {
			parts = append(parts, Path{V: []Vec2{v0}})
		}
		last := &parts[len(parts)-1]
		last.V = append(last.V, v1)
		cont = v1 == p.V[i]
	}
	return parts
}

// Clip removes the parts of paths that lie outside the given bounds,
// splitting paths that leave and re-enter. It returns how many paths
// vanished entirely.
func (ps *Paths) Clip(b Bounds) int {
	var np []Path
	dropped := 0
	for _, p := range ps.P {
		parts := clipPath(p, b)
		if len(parts) == 0 {
			dropped++
		}
		np = append(np, parts...)
	}
	ps.P = np
	return dropped
}
