package imgtogcode

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/VarKun/lineus-plot/gcode"
	"github.com/VarKun/lineus-plot/paths"
	"github.com/VarKun/lineus-plot/vectorize"
)

func writePNG(t *testing.T, name string, w, h int, ink func(x, y int) bool) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.Gray{255}
			if ink(x, y) {
				c = color.Gray{0}
			}
			img.SetGray(x, y, c)
		}
	}
	p := filepath.Join(t.TempDir(), name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return p
}

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func readProgram(t *testing.T, name string) *gcode.Program {
	t.Helper()
	prog, err := gcode.LoadProgram(name)
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	return prog
}

func TestConvertBlank(t *testing.T) {
	in := writePNG(t, "black.png", 100, 100, func(x, y int) bool { return true })
	res, err := Convert(&Config{In: in, Quality: vectorize.Medium, Envelope: gcode.LineUs, Logger: quiet()})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !errors.Is(res.Warning, vectorize.ErrNoStrokes) {
		t.Errorf("Warning = %v, want ErrNoStrokes", res.Warning)
	}
	if res.Out != filepath.Join(filepath.Dir(in), "black.gcode") {
		t.Errorf("Out = %q", res.Out)
	}
	prog := readProgram(t, res.Out)
	if len(prog.Commands) != 2 || res.Commands != 2 || res.Strokes != 0 {
		t.Errorf("got %d commands (%+v), want just the ready and home moves", len(prog.Commands), res)
	}
}

func TestConvertOutline(t *testing.T) {
	// A 4 pixel wide square outline on white.
	in := writePNG(t, "square.png", 120, 120, func(x, y int) bool {
		inOuter := x >= 20 && x < 100 && y >= 20 && y < 100
		inInner := x >= 24 && x < 96 && y >= 24 && y < 96
		return inOuter && !inInner
	})
	for _, q := range vectorize.Qualities {
		t.Run(q.String(), func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "square.gcode")
			res, err := Convert(&Config{
				In: in, Out: out, Quality: q, Envelope: gcode.LineUs, Logger: quiet(),
			})
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if res.Warning != nil || res.Strokes == 0 {
				t.Fatalf("no strokes: %+v", res)
			}
			if want := 2 + res.Vertices + 3*res.Strokes; res.Commands != want {
				t.Errorf("Commands = %d, want %d", res.Commands, want)
			}
			prog := readProgram(t, out)
			if len(prog.Commands) != res.Commands {
				t.Errorf("file has %d commands, result says %d", len(prog.Commands), res.Commands)
			}
			if err := prog.Check(&gcode.LineUs); err != nil {
				t.Errorf("Check: %v", err)
			}
		})
	}
}

func TestSquareToProgram(t *testing.T) {
	env := gcode.LineUs
	bm := vectorize.BitmapFromFunc(100, 100, func(x, y int) bool {
		return x >= 20 && x < 60 && y >= 30 && y < 70
	})
	ps := vectorize.Trace(bm, vectorize.Low.Profile())
	if len(ps.P) != 1 || len(ps.P[0].V) < 4 || len(ps.P[0].V) > 5 {
		t.Fatalf("traced %v, want one stroke of 4 or 5 vertices", ps.P)
	}
	ps.Sort(&paths.SortConfig{Start: gcode.ImagePoint(env.Center(), 100, 100, env), Reverse: true})

	strokes, err := gcode.Map(ps, 100, 100, env)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	b := env.Bounds()
	for _, s := range strokes {
		for _, pt := range s {
			if !b.Contains(paths.Vec2{float64(pt.X), float64(pt.Y)}) {
				t.Errorf("point %v outside %v", pt, b)
			}
		}
	}

	var bb bytes.Buffer
	if _, err := gcode.WriteProgram(&bb, strokes, &gcode.Config{Envelope: env, Close: true}); err != nil {
		t.Fatalf("WriteProgram: %v", err)
	}
	prog, err := gcode.ReadProgram(&bb)
	if err != nil {
		t.Fatalf("ReadProgram: %v", err)
	}
	downs, z := 0, env.ZUp
	for _, c := range prog.Commands {
		m, err := gcode.ParseCommand(c.Text)
		if err != nil {
			t.Fatalf("line %d: %v", c.Line, err)
		}
		if z == env.ZUp && m.Z == env.ZDown {
			downs++
		}
		z = m.Z
	}
	if downs != 1 || z != env.ZUp {
		t.Errorf("pen went down %d times and ended at Z%d, want once and up", downs, z)
	}
}

func TestConvertReversesByDefault(t *testing.T) {
	// A bar left of the centre, whose outline ends nearer the centre
	// than it starts.
	in := writePNG(t, "bar.png", 120, 120, func(x, y int) bool {
		return x >= 4 && x < 40 && y >= 20 && y < 24
	})
	travel := func(noReverse bool) float64 {
		res, err := Convert(&Config{
			In: in, Out: filepath.Join(t.TempDir(), "bar.gcode"), Quality: vectorize.Medium,
			Envelope: gcode.LineUs, NoReverse: noReverse, Logger: quiet(),
		})
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		if res.Strokes != 1 {
			t.Fatalf("got %d strokes, want 1", res.Strokes)
		}
		return res.Travel
	}
	if rev, fwd := travel(false), travel(true); rev >= fwd {
		t.Errorf("travel with reversal %g, without %g; want less with", rev, fwd)
	}
}

func TestConvertPreview(t *testing.T) {
	in := writePNG(t, "bar.png", 60, 40, func(x, y int) bool {
		return x >= 10 && x < 50 && y >= 15 && y < 20
	})
	dir := t.TempDir()
	for _, c := range []struct {
		name   string
		prefix string
	}{
		{"preview.svg", "<svg"},
		{"preview.pdf", "%PDF"},
	} {
		preview := filepath.Join(dir, c.name)
		_, err := Convert(&Config{
			In: in, Out: filepath.Join(dir, "bar.gcode"), Preview: preview,
			Quality: vectorize.High, Envelope: gcode.LineUsSafe, Logger: quiet(),
		})
		if err != nil {
			t.Fatalf("Convert with preview %s: %v", c.name, err)
		}
		b, err := os.ReadFile(preview)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(b, []byte(c.prefix)) {
			t.Errorf("%s starts %q, want %q", c.name, b[:min(len(b), 10)], c.prefix)
		}
	}
	_, err := Convert(&Config{
		In: in, Out: filepath.Join(dir, "bar.gcode"), Preview: filepath.Join(dir, "preview.png"),
		Envelope: gcode.LineUs, Logger: quiet(),
	})
	if err == nil {
		t.Errorf("Convert with a .png preview succeeded")
	}
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Convert(&Config{Envelope: gcode.LineUs}); err == nil {
		t.Errorf("Convert without input succeeded")
	}
	_, err := Convert(&Config{In: filepath.Join(dir, "missing.png"), Envelope: gcode.LineUs, Logger: quiet()})
	if !errors.Is(err, vectorize.ErrImageLoad) {
		t.Errorf("Convert of missing file: err = %v, want ErrImageLoad", err)
	}
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Convert(&Config{In: garbage, Envelope: gcode.LineUs, Logger: quiet()}); !errors.Is(err, vectorize.ErrImageLoad) {
		t.Errorf("Convert of garbage: err = %v, want ErrImageLoad", err)
	}
}

func TestConvertAll(t *testing.T) {
	dot := func(x, y int) bool { return (x-30)*(x-30)+(y-30)*(y-30) < 100 }
	var cfgs []*Config
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		cfgs = append(cfgs, &Config{
			In: writePNG(t, name, 60, 60, dot), Quality: vectorize.Medium, Envelope: gcode.LineUs, Logger: quiet(),
		})
	}
	results, err := ConvertAll(context.Background(), cfgs)
	if err != nil {
		t.Fatalf("ConvertAll: %v", err)
	}
	for i, r := range results {
		if r == nil || r.In != cfgs[i].In {
			t.Errorf("result %d = %+v, want conversion of %s", i, r, cfgs[i].In)
		}
	}

	cfgs = append(cfgs, &Config{In: filepath.Join(t.TempDir(), "missing.png"), Envelope: gcode.LineUs, Logger: quiet()})
	if _, err := ConvertAll(context.Background(), cfgs); !errors.Is(err, vectorize.ErrImageLoad) {
		t.Errorf("ConvertAll with a missing file: err = %v, want ErrImageLoad", err)
	}
}

func TestOutName(t *testing.T) {
	for in, want := range map[string]string{
		"cat.png":          "cat.gcode",
		"dir/photo.v2.jpg": "dir/photo.v2.gcode",
		"noext":            "noext.gcode",
	} {
		if got := OutName(in); got != want {
			t.Errorf("OutName(%q) = %q, want %q", in, got, want)
		}
	}
}
