package gcode

import (
	"bufio"
	"fmt"
	"io"
)

// Config describes how a Writer formats a program.
type Config struct {
	Envelope Envelope
	Close    bool   // draw each stroke back to its first point
	Title    string // first header comment; empty for the default
}

// A Writer emits a motion program: absolute G01 moves with the pen
// height in Z, one per line. Comment lines start with ';'.
//
// Write errors are sticky; the first one is reported by Flush.
type Writer struct {
	w        *bufio.Writer
	cfg      *Config
	err      error
	total    int // strokes announced by Preamble
	strokes  int // strokes written
	commands int // motion lines written
}

// NewWriter returns a Writer that writes a program to w.
func NewWriter(w io.Writer, cfg *Config) *Writer {
	return &Writer{w: bufio.NewWriter(w), cfg: cfg}
}

func (w *Writer) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// Comment writes a comment line.
func (w *Writer) Comment(format string, args ...interface{}) {
	w.printf("; "+format+"\n", args...)
}

func (w *Writer) move(p Point, z int) {
	w.printf("G01 X%d Y%d Z%d\n", p.X, p.Y, z)
	w.commands++
}

// Move travels to p with the pen up.
func (w *Writer) Move(p Point) { w.move(p, w.cfg.Envelope.ZUp) }

// Line draws to p with the pen down.
func (w *Writer) Line(p Point) { w.move(p, w.cfg.Envelope.ZDown) }

// Preamble writes the header for a program of n strokes and raises the
// pen at the home position.
func (w *Writer) Preamble(n int) {
	w.total = n
	title := w.cfg.Title
	if title == "" {
		title = "Line-us drawing program"
	}
	w.Comment("%s", title)
	w.Comment("Total paths: %d", n)
	w.printf("\n")
	w.Move(w.cfg.Envelope.Home)
	w.printf("\n")
}

// Stroke draws s: travel to its start, lower the pen, draw through every
// vertex (and back to the start if the config says to close strokes),
// then lift the pen where it stopped.
func (w *Writer) Stroke(s Stroke) {
	if len(s) == 0 {
		return
	}
	w.strokes++
	w.Comment("Path %d/%d", w.strokes, w.total)
	w.Move(s[0])
	w.Line(s[0])
	for _, p := range s[1:] {
		w.Line(p)
	}
	end := s[len(s)-1]
	if w.cfg.Close {
		w.Line(s[0])
		end = s[0]
	}
	w.Move(end)
	w.printf("\n")
}

// Postamble returns the pen to the home position.
func (w *Writer) Postamble() {
	w.Comment("Return to home")
	w.Move(w.cfg.Envelope.Home)
}

// Commands returns the number of motion lines written so far.
func (w *Writer) Commands() int { return w.commands }

// Flush writes any buffered data and reports the first error seen.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

// WriteProgram writes a complete program drawing strokes in order and
// returns the number of motion lines.
func WriteProgram(w io.Writer, strokes []Stroke, cfg *Config) (int, error) {
	gw := NewWriter(w, cfg)
	gw.Preamble(len(strokes))
	for _, s := range strokes {
		gw.Stroke(s)
	}
	gw.Postamble()
	if err := gw.Flush(); err != nil {
		return gw.Commands(), fmt.Errorf("failed to write program: %w", err)
	}
	return gw.Commands(), nil
}
