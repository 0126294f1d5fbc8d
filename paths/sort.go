package paths

import "math"

// SortConfig controls how Sort orders paths.
type SortConfig struct {
	Start   Vec2 // where the pen is before the first path
	Split   bool // ok to split continuous paths
	Reverse bool // ok to draw paths in the reverse direction
}

// A piece is a run of vertices start..end (inclusive) of one path.
// end < start means the run is drawn backwards.
type piece struct {
	path       int // which path it's from
	start, end int // start and end index of the run
}

func (pc piece) reversed() piece {
	pc.start, pc.end = pc.end, pc.start
	return pc
}

func (ps *Paths) pieceStart(pc piece) Vec2 { return ps.P[pc.path].V[pc.start] }
func (ps *Paths) pieceEnd(pc piece) Vec2   { return ps.P[pc.path].V[pc.end] }

// nearest scans the pieces not yet drawn for the endpoint closest to pos.
// The comparison is strict, so on ties the first piece found wins, and a
// piece's start wins over its own end.
func (ps *Paths) nearest(pcs []piece, done []bool, pos Vec2, reverse bool) (int, bool) {
	best, rev := -1, false
	bestD := math.Inf(1)
	for i, pc := range pcs {
		if done[i] {
			continue
		}
		if d := vec2dist(pos, ps.pieceStart(pc)); d < bestD {
			best, bestD, rev = i, d, false
		}
		if !reverse {
			continue
		}
		if d := vec2dist(pos, ps.pieceEnd(pc)); d < bestD {
			best, bestD, rev = i, d, true
		}
	}
	return best, rev
}

// Sort reorders the paths to reduce the distance travelled with the
// pen up. It builds the tour greedily: starting at cfg.Start, it always
// draws next the path whose nearest endpoint is closest to the current
// pen position. This is a heuristic, O(n²) in the number of paths; it
// does not look for an optimal tour.
//
// Without Split, the result is a permutation of the input paths, each
// possibly reversed. With Split, each segment is planned on its own and
// segments that end up contiguous are joined into one path.
func (ps *Paths) Sort(cfg *SortConfig) {
	var pcs []piece
	for i, p := range ps.P {
		if len(p.V) == 0 {
			continue
		}
		if cfg.Split && len(p.V) > 1 {
			for j := 0; j < len(p.V)-1; j++ {
				pcs = append(pcs, piece{i, j, j + 1})
			}
		} else {
			pcs = append(pcs, piece{i, 0, len(p.V) - 1})
		}
	}

	done := make([]bool, len(pcs))
	order := make([]piece, 0, len(pcs))
	pos := cfg.Start
	for len(order) < len(pcs) {
		i, rev := ps.nearest(pcs, done, pos, cfg.Reverse)
		done[i] = true
		pc := pcs[i]
		if rev {
			pc = pc.reversed()
		}
		order = append(order, pc)
		pos = ps.pieceEnd(pc)
	}

	np := &Paths{Bounds: ps.Bounds}
	for _, pc := range order {
		d := 1
		if pc.end < pc.start {
			d = -1
		}
		if !cfg.Split {
			p := Path{}
			for i := pc.start; ; i += d {
				p.V = append(p.V, ps.P[pc.path].V[i])
				if i == pc.end {
					break
				}
			}
			np.P = append(np.P, p)
			continue
		}
		np.move(ps.P[pc.path].V[pc.start])
		for i := pc.start; i != pc.end; i += d {
			np.line(ps.P[pc.path].V[i+d])
		}
	}
	*ps = *np
}
