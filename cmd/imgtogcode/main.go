// Binary imgtogcode converts raster images into Line-us drawing
// programs.
//
//	imgtogcode [flags] image...
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	flag "github.com/spf13/pflag"

	"github.com/VarKun/lineus-plot/cmd/imgtogcode/imgtogcode"
	"github.com/VarKun/lineus-plot/config"
	"github.com/VarKun/lineus-plot/vectorize"
)

// flags
var (
	flagConfig  string
	flagOut     string
	flagPreview string
	flagReverse bool
	flagQuality = vectorize.Medium
)

func init() {
	flag.StringVarP(&flagConfig, "config", "c", "", "config file (yaml, toml or json)")
	flag.StringVarP(&flagOut, "out", "o", "", "program output file (default: input with .gcode extension)")
	flag.StringVar(&flagPreview, "preview", "", "also render the strokes to this .svg or .pdf file")
	flag.BoolVar(&flagReverse, "reverse", true, "allow strokes to be drawn in either direction")
	flag.VarP(&flagQuality, "quality", "q", "vectorization quality: low, medium, high or ultra")
	flag.String("envelope", "full", "drawing area preset: full or safe")
}

func main() {
	fail := func(s string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, s+"\n", args...)
		os.Exit(2)
	}

	flag.Parse()
	if flag.NArg() == 0 {
		fail("usage: imgtogcode [flags] image...")
	}
	if flag.NArg() > 1 && (flagOut != "" || flagPreview != "") {
		fail("-out and -preview need a single input image")
	}

	cfg, err := config.Load(flagConfig, flag.CommandLine)
	if err != nil {
		fail("%v", err)
	}

	var cfgs []*imgtogcode.Config
	for _, in := range flag.Args() {
		cfgs = append(cfgs, &imgtogcode.Config{
			In:        in,
			Out:       flagOut,
			Preview:   flagPreview,
			Quality:   cfg.Quality,
			Envelope:  cfg.Envelope,
			NoReverse: !flagReverse,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := imgtogcode.ConvertAll(ctx, cfgs)
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Warning != nil {
			fmt.Fprintf(os.Stderr, "%s: %v; wrote an empty program\n", r.In, r.Warning)
		}
		fmt.Printf("%s: %d strokes, %d commands, %.0fpx pen-up travel -> %s\n",
			r.In, r.Strokes, r.Commands, r.Travel, r.Out)
	}
	if err != nil {
		stop()
		fail("%v", err)
	}
}
