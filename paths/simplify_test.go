package paths

import (
	"reflect"
	"testing"
)

type simplifyTestCase struct {
	desc string
	path Path
	tol  float64
	want []Path
}

// p builds a path from x, y pairs.
func p(t *testing.T, args ...float64) Path {
	t.Helper()
	if len(args)%2 != 0 {
		t.Fatalf("p helper needs an even number of args, got %v", args)
	}
	path := Path{}
	for i := 0; i < len(args); i += 2 {
		path.V = append(path.V, Vec2{args[i], args[i+1]})
	}
	return path
}

func TestSimplify(t *testing.T) {
	cases := []simplifyTestCase{
		{
			desc: "line with slightly displaced midpoint, high tolerance",
			path: p(t, -1, 0, 0, 0.25, 1.0, 0),
			tol:  0.5,
			want: []Path{p(t, -1, 0, 1, 0)},
		},
		{
			desc: "line with slightly displaced midpoint, low tolerance",
			path: p(t, -1, 0, 0, 0.5, 1.0, 0),
			tol:  0.2,
			want: []Path{p(t, -1, 0, 0, 0.5, 1.0, 0)},
		},
		{
			desc: "square with slightly displaced midpoints, high tolerance",
			path: p(t, -1, -1, 0, -1.1, 1, -1, 0.9, 0, 1, 1, 0, 1.1, -1, 1, -0.9, 0, -1, -1),
			tol:  0.2,
			want: []Path{p(t, -1, -1, 1, -1, 1, 1, -1, 1, -1, -1)},
		},
		{
			desc: "point beyond the end of the chord",
			path: p(t, 0, 0, 3, 0, 2, 0),
			tol:  0.5,
			want: []Path{p(t, 0, 0, 3, 0, 2, 0)},
		},
		{
			desc: "two points",
			path: p(t, 0, 0, 5, 5),
			tol:  10,
			want: []Path{p(t, 0, 0, 5, 5)},
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			ps := &Paths{
				Bounds: Bounds{Min: Vec2{-1000, -1000}, Max: Vec2{1000, 1000}},
				P:      []Path{{V: append([]Vec2{}, c.path.V...)}},
			}
			ps.Simplify(c.tol)
			if !reflect.DeepEqual(ps.P, c.want) {
				t.Errorf("Simplify(%v) of %v = %v, want %v", c.tol, c.path, ps.P, c.want)
			}
		})
	}
}

func TestSimplifyClosed(t *testing.T) {
	cases := []struct {
		desc string
		ring Path
		tol  float64
		want Path
	}{
		{
			desc: "square corners survive",
			ring: p(t, 0, 0, 0, 10, 10, 10, 10, 0),
			tol:  3,
			want: p(t, 0, 0, 0, 10, 10, 10, 10, 0),
		},
		{
			desc: "square with midpoints on every edge",
			ring: p(t, 0, 0, 0, 5, 0, 10, 5, 10, 10, 10, 10, 5, 10, 0, 5, 0),
			tol:  1,
			want: p(t, 0, 0, 0, 10, 10, 10, 10, 0),
		},
		{
			desc: "noisy edge flattened",
			ring: p(t, 0, 0, 0, 10, 5, 10.5, 10, 10, 10, 0),
			tol:  1,
			want: p(t, 0, 0, 0, 10, 10, 10, 10, 0),
		},
		{
			desc: "thin sliver collapses",
			ring: p(t, 0, 0, 5, 0.2, 10, 0, 5, -0.2),
			tol:  1,
			want: p(t, 0, 0, 10, 0),
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			got := SimplifyClosed(c.ring.V, c.tol)
			if !reflect.DeepEqual(got, c.want.V) {
				t.Errorf("SimplifyClosed(%v, %v) = %v, want %v", c.ring.V, c.tol, got, c.want.V)
			}
		})
	}
}
