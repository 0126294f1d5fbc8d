package svgtogcode

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/VarKun/lineus-plot/gcode"
)

const drawing = `<svg width="200" height="100" viewBox="0 0 200 100">
  <polyline points="10,10 60,10 60,60"/>
  <line x1="150" y1="90" x2="190" y2="90"/>
  <g transform="translate(100, 0)">
    <path d="M 0 50 L 20 50 L 20 70 Z"/>
  </g>
  <line x1="300" y1="10" x2="400" y2="10"/>
</svg>`

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "drawing.svg")
	if err := os.WriteFile(in, []byte(drawing), 0o644); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	out := filepath.Join(dir, "drawing.gcode")
	err := Convert(&Config{
		In: in, Out: out, Envelope: gcode.LineUs, Reverse: true,
		Logger: log.New(&logs, "", 0),
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	prog, err := gcode.LoadProgram(out)
	if err != nil {
		t.Fatal(err)
	}
	// Three paths of 3, 2 and 4 vertices survive clipping; open strokes
	// cost n+2 commands each.
	if want := 2 + (3 + 2) + (2 + 2) + (4 + 2); len(prog.Commands) != want {
		t.Errorf("got %d commands, want %d", len(prog.Commands), want)
	}
	if err := prog.Check(&gcode.LineUs); err != nil {
		t.Errorf("Check: %v", err)
	}
	if !bytes.Contains(logs.Bytes(), []byte("1 paths outside the viewport dropped")) {
		t.Errorf("clipping not logged: %q", logs.String())
	}

	preview := filepath.Join(dir, "drawing.pdf")
	if err := Convert(&Config{In: in, Out: preview, Envelope: gcode.LineUs, Logger: log.New(io.Discard, "", 0)}); err != nil {
		t.Fatalf("Convert to pdf: %v", err)
	}
	if b, err := os.ReadFile(preview); err != nil || !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Errorf("preview not written: %v", err)
	}
}

func TestConvertErrors(t *testing.T) {
	if err := Convert(&Config{}); err == nil {
		t.Errorf("Convert without input succeeded")
	}
	if err := Convert(&Config{In: filepath.Join(t.TempDir(), "missing.svg"), Envelope: gcode.LineUs}); err == nil {
		t.Errorf("Convert of a missing file succeeded")
	}
}
