package paths

import (
	"math"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReversed(t *testing.T) {
	in := p(t, 0, 0, 1, 2, 3, 4)
	got := in.Reversed()
	if want := p(t, 3, 4, 1, 2, 0, 0); !reflect.DeepEqual(got, want) {
		t.Errorf("Reversed() = %v, want %v", got, want)
	}
	if in.V[0] != (Vec2{0, 0}) {
		t.Errorf("Reversed modified its receiver: %v", in)
	}
}

func TestCloneAndVertices(t *testing.T) {
	ps := &Paths{
		Bounds: Bounds{Max: Vec2{10, 10}},
		P:      []Path{p(t, 0, 0, 1, 1), p(t, 2, 2, 3, 3, 4, 4)},
	}
	c := ps.Clone()
	if diff := cmp.Diff(ps, c); diff != "" {
		t.Fatalf("Clone mismatch (-want +got):\n%s", diff)
	}
	c.P[0].V[0] = Vec2{9, 9}
	if ps.P[0].V[0] != (Vec2{0, 0}) {
		t.Errorf("Clone shares vertices with the original")
	}
	if got := ps.Vertices(); got != 5 {
		t.Errorf("Vertices() = %d, want 5", got)
	}
}

func TestTightenBounds(t *testing.T) {
	ps := &Paths{P: []Path{p(t, 3, -1, 5, 2), p(t, -4, 0)}}
	ps.TightenBounds()
	want := Bounds{Min: Vec2{-4, -1}, Max: Vec2{5, 2}}
	if ps.Bounds != want {
		t.Errorf("TightenBounds() = %v, want %v", ps.Bounds, want)
	}
	empty := &Paths{Bounds: want}
	empty.TightenBounds()
	if empty.Bounds != (Bounds{}) {
		t.Errorf("TightenBounds() of no paths = %v, want zero", empty.Bounds)
	}
}

func TestTransform(t *testing.T) {
	cases := []struct {
		desc string
		nb   Bounds
		want Path
	}{
		{
			desc: "scale and shift",
			nb:   Bounds{Min: Vec2{100, 100}, Max: Vec2{120, 110}},
			want: p(t, 100, 100, 110, 105, 120, 110),
		},
		{
			desc: "mirror y",
			nb:   Bounds{Min: Vec2{0, 10}, Max: Vec2{10, 0}},
			want: p(t, 0, 10, 5, 5, 10, 0),
		},
	}
	for _, c := range cases {
		ps := &Paths{
			Bounds: Bounds{Max: Vec2{2, 2}},
			P:      []Path{p(t, 0, 0, 1, 1, 2, 2)},
		}
		ps.Transform(c.nb)
		if !reflect.DeepEqual(ps.P[0], c.want) || ps.Bounds != c.nb {
			t.Errorf("%s: got %v with bounds %v, want %v", c.desc, ps.P[0], ps.Bounds, c.want)
		}
	}
}

func TestTravelDistance(t *testing.T) {
	ps := &Paths{P: []Path{p(t, 3, 4, 10, 4), {}, p(t, 10, 0, 20, 0)}}
	// 5 from the origin to the first path, then 4 down to the last one.
	if got := TravelDistance(ps, Vec2{0, 0}); math.Abs(got-9) > 1e-9 {
		t.Errorf("TravelDistance = %g, want 9", got)
	}
	if got := TravelDistance(&Paths{}, Vec2{1, 1}); got != 0 {
		t.Errorf("TravelDistance of no paths = %g, want 0", got)
	}
}
