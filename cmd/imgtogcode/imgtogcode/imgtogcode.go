// Package imgtogcode provides the functionality for the
// imgtogcode binary as a library.
package imgtogcode

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/VarKun/lineus-plot/gcode"
	"github.com/VarKun/lineus-plot/paths"
	"github.com/VarKun/lineus-plot/vectorize"
)

type Config struct {
	In      string
	Out     string // defaults to In with a .gcode extension
	Preview string // optional .svg or .pdf rendering of the strokes

	Quality   vectorize.Quality
	Envelope  gcode.Envelope
	NoReverse bool // draw every stroke in its traced direction

	Logger *log.Logger
}

// Result describes a converted image.
type Result struct {
	In, Out  string
	Width    int // image size in pixels
	Height   int
	Strokes  int // strokes in the program
	Dropped  int // traced strokes too small to draw at device resolution
	Vertices int // device points over all strokes
	Commands int // motion lines in the program
	Travel   float64 // pen-up travel in image pixels

	// Warning is vectorize.ErrNoStrokes when nothing drawable was found;
	// the program is still written and just moves the pen home.
	Warning error
}

// OutName returns the default program file name for an input image.
func OutName(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".gcode"
}

func writeFile(name string, write func(f *os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Convert turns one image into a motion program: binarize, trace the
// outlines, plan the drawing order, map into the envelope and write.
func Convert(cfg *Config) (*Result, error) {
	if cfg.In == "" {
		return nil, fmt.Errorf("input file must be specified")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	res := &Result{In: cfg.In, Out: cfg.Out}
	if res.Out == "" {
		res.Out = OutName(cfg.In)
	}
	prof := cfg.Quality.Profile()

	img, err := vectorize.Load(cfg.In)
	if err != nil {
		return nil, err
	}
	bm, err := vectorize.Binarize(img, prof)
	if err != nil {
		return nil, err
	}
	res.Width, res.Height = bm.Width, bm.Height

	ps := vectorize.Trace(bm, prof)
	if len(ps.P) == 0 {
		res.Warning = vectorize.ErrNoStrokes
		logger.Printf("warning: %s: %v", cfg.In, vectorize.ErrNoStrokes)
	}

	// Plan from wherever the middle of the envelope falls in the image.
	start := gcode.ImagePoint(cfg.Envelope.Center(), bm.Width, bm.Height, cfg.Envelope)
	ps.Sort(&paths.SortConfig{Start: start, Reverse: !cfg.NoReverse})
	res.Travel = paths.TravelDistance(ps, start)

	strokes, err := gcode.Map(ps, bm.Width, bm.Height, cfg.Envelope)
	if err != nil {
		return nil, err
	}
	res.Strokes = len(strokes)
	if res.Dropped = len(ps.P) - len(strokes); res.Dropped > 0 {
		logger.Printf("%s: %d strokes too small to draw dropped", cfg.In, res.Dropped)
	}
	for _, s := range strokes {
		res.Vertices += len(s)
	}

	err = writeFile(res.Out, func(f *os.File) error {
		n, err := gcode.WriteProgram(f, strokes, &gcode.Config{
			Envelope: cfg.Envelope,
			Close:    true,
		})
		res.Commands = n
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write program: %w", err)
	}

	if cfg.Preview != "" {
		if err := gcode.ToPaths(strokes, cfg.Envelope).WriteFile(cfg.Preview); err != nil {
			return nil, fmt.Errorf("failed to write preview: %w", err)
		}
	}
	logger.Printf("%s: %dx%d, %s quality: %d strokes, %d commands -> %s",
		cfg.In, res.Width, res.Height, cfg.Quality, res.Strokes, res.Commands, res.Out)
	return res, nil
}

// ConvertAll converts several images, up to GOMAXPROCS at a time. Each
// conversion is independent; the first error cancels the ones not yet
// started. Results are in the order of cfgs, nil where the conversion
// failed or never ran.
func ConvertAll(ctx context.Context, cfgs []*Config) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := Convert(cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.In, err)
			}
			results[i] = r
			return nil
		})
	}
	return results, g.Wait()
}
