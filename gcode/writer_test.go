package gcode

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestWriteProgram(t *testing.T) {
	var bb bytes.Buffer
	strokes := []Stroke{{{700, 0}, {800, 0}, {800, 100}}}
	n, err := WriteProgram(&bb, strokes, &Config{Envelope: LineUs, Close: true})
	if err != nil {
		t.Fatalf("WriteProgram: %v", err)
	}
	want := `; Line-us drawing program
; Total paths: 1

G01 X1000 Y0 Z1000

; Path 1/1
G01 X700 Y0 Z1000
G01 X700 Y0 Z0
G01 X800 Y0 Z0
G01 X800 Y100 Z0
G01 X700 Y0 Z0
G01 X700 Y0 Z1000

; Return to home
G01 X1000 Y0 Z1000
`
	if got := bb.String(); got != want {
		t.Errorf("program:\n%s\nwant:\n%s", got, want)
	}
	if n != 8 {
		t.Errorf("WriteProgram reported %d commands, want 8", n)
	}
}

func TestWriteProgramLineCount(t *testing.T) {
	mk := func(n int) Stroke {
		var s Stroke
		for i := 0; i < n; i++ {
			s = append(s, Point{700 + 10*i, i * i})
		}
		return s
	}
	cases := []struct {
		desc  string
		sizes []int
		close bool
		want  int
	}{
		{"no strokes", nil, true, 2},
		{"one triangle", []int{3}, true, 2 + 6},
		{"mixed", []int{3, 4, 5, 12}, true, 2 + (3 + 3) + (4 + 3) + (5 + 3) + (12 + 3)},
		{"open strokes", []int{2, 3}, false, 2 + (2 + 2) + (3 + 2)},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			var strokes []Stroke
			for _, n := range c.sizes {
				strokes = append(strokes, mk(n))
			}
			var bb bytes.Buffer
			n, err := WriteProgram(&bb, strokes, &Config{Envelope: LineUs, Close: c.close})
			if err != nil {
				t.Fatalf("WriteProgram: %v", err)
			}
			prog, err := ReadProgram(&bb)
			if err != nil {
				t.Fatalf("ReadProgram: %v", err)
			}
			if len(prog.Commands) != c.want || n != c.want {
				t.Errorf("got %d commands (writer says %d), want %d", len(prog.Commands), n, c.want)
			}
			if err := prog.Check(&LineUs); err != nil {
				t.Errorf("Check: %v", err)
			}
		})
	}
}

func TestWriteProgramEmpty(t *testing.T) {
	var bb bytes.Buffer
	if _, err := WriteProgram(&bb, nil, &Config{Envelope: LineUs, Close: true}); err != nil {
		t.Fatalf("WriteProgram: %v", err)
	}
	out := bb.String()
	if !strings.HasPrefix(out, "; Line-us drawing program\n; Total paths: 0\n") {
		t.Errorf("missing header comments:\n%s", out)
	}
	prog, err := ReadProgram(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReadProgram: %v", err)
	}
	var got []string
	for _, c := range prog.Commands {
		got = append(got, c.Text)
	}
	want := "G01 X1000 Y0 Z1000|G01 X1000 Y0 Z1000"
	if strings.Join(got, "|") != want {
		t.Errorf("commands = %q, want ready and home moves", got)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteProgramError(t *testing.T) {
	strokes := make([]Stroke, 500)
	for i := range strokes {
		strokes[i] = Stroke{{700, 0}, {710, 0}, {710, 10}}
	}
	if _, err := WriteProgram(failWriter{}, strokes, &Config{Envelope: LineUs}); err == nil {
		t.Errorf("WriteProgram to a failing writer succeeded")
	}
}
