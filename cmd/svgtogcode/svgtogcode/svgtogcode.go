// Package svgtogcode provides the functionality for the
// svgtogcode binary as a library.
package svgtogcode

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/VarKun/lineus-plot/gcode"
	"github.com/VarKun/lineus-plot/paths"
)

type Config struct {
	In  string
	Out string // a .svg or .pdf Out renders the mapped strokes instead

	Envelope gcode.Envelope

	Split   bool
	Reverse bool

	Simplify float64 // tolerance in SVG user units; 0 to keep every vertex

	Logger *log.Logger
}

func Convert(cfg *Config) error {
	if cfg.In == "" {
		return fmt.Errorf("input file must be specified")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	ps, err := func() (*paths.Paths, error) {
		f, err := os.Open(cfg.In)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return paths.FromSVG(f)
	}()
	if err != nil {
		return err
	}
	if ps.Bounds.Empty() {
		ps.TightenBounds()
	}

	if n := ps.Clip(ps.Bounds); n > 0 {
		logger.Printf("%s: %d paths outside the viewport dropped", cfg.In, n)
	}
	if cfg.Simplify > 0 {
		ps.Simplify(cfg.Simplify)
	}

	start := gcode.Unmap(cfg.Envelope.Center(), ps.Bounds, cfg.Envelope)
	ps.Sort(&paths.SortConfig{
		Start:   start,
		Split:   cfg.Split,
		Reverse: cfg.Reverse,
	})

	strokes, err := gcode.MapBounds(ps, cfg.Envelope)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(cfg.Out)) {
	case ".svg", ".pdf":
		return gcode.ToPaths(strokes, cfg.Envelope).WriteFile(cfg.Out)
	}

	gcodeOut, err := os.Create(cfg.Out)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	n, err := gcode.WriteProgram(gcodeOut, strokes, &gcode.Config{
		Envelope: cfg.Envelope,
		Title:    "Line-us drawing program from " + filepath.Base(cfg.In),
	})
	if err != nil {
		gcodeOut.Close()
		return fmt.Errorf("failed to write gcode: %w", err)
	}
	if err := gcodeOut.Close(); err != nil {
		return fmt.Errorf("failed to write gcode: %w", err)
	}
	logger.Printf("%s: %d strokes, %d commands -> %s", cfg.In, len(strokes), n, cfg.Out)
	return nil
}
