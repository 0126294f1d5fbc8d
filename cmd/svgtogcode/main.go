// Binary svgtogcode converts line drawings in SVG files into Line-us
// drawing programs.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/VarKun/lineus-plot/cmd/svgtogcode/svgtogcode"
	"github.com/VarKun/lineus-plot/config"
)

// flags
var (
	flagConfig   string
	flagIn       string
	flagOut      string
	flagSplit    bool
	flagReverse  bool
	flagSimplify float64
)

func init() {
	flag.StringVarP(&flagConfig, "config", "c", "", "config file (yaml, toml or json)")
	flag.StringVar(&flagIn, "in", "", "svg input file")
	flag.StringVar(&flagOut, "out", "out.gcode", "gcode output file (.svg or .pdf for a preview)")
	flag.BoolVar(&flagSplit, "split", false, "allow paths to be split when ordering them")
	flag.BoolVar(&flagReverse, "reverse", true, "allow paths to be drawn in either direction")
	flag.Float64Var(&flagSimplify, "simplify", 0, "drop vertices closer than this to the line (svg units)")
	flag.String("envelope", "full", "drawing area preset: full or safe")
}

func main() {
	fail := func(s string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, s+"\n", args...)
		os.Exit(2)
	}

	flag.Parse()
	if flagIn == "" {
		fail("must specify -in <svg file>")
	}
	cfg, err := config.Load(flagConfig, flag.CommandLine)
	if err != nil {
		fail("%v", err)
	}
	err = svgtogcode.Convert(&svgtogcode.Config{
		In:       flagIn,
		Out:      flagOut,
		Envelope: cfg.Envelope,
		Split:    flagSplit,
		Reverse:  flagReverse,
		Simplify: flagSimplify,
	})
	if err != nil {
		fail("%v", err)
	}
}
