// Binary sendgcode streams a drawing program to a Line-us plotter,
// one command at a time, and reports how much of it was acknowledged.
//
//	sendgcode [flags] program.gcode
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/VarKun/lineus-plot/config"
	"github.com/VarKun/lineus-plot/gcode"
	"github.com/VarKun/lineus-plot/lineus"
)

// flags
var (
	flagConfig          string
	flagDiscover        bool
	flagDiscoverTimeout time.Duration
	flagCheck           bool
	flagQuiet           bool
)

func init() {
	flag.StringVarP(&flagConfig, "config", "c", "", "config file (yaml, toml or json)")
	flag.String("host", "line-us.local", "plotter host name or address")
	flag.Int("port", 1337, "plotter port")
	flag.Duration("delay", lineus.DefaultDelay, "pause after each acknowledged command")
	flag.Duration("greet-timeout", lineus.DefaultGreetTimeout, "how long to wait for the plotter's greeting")
	flag.Duration("ack-timeout", 0, "how long to wait for each response (0 waits forever)")
	flag.String("mdns-service", lineus.DefaultService, "mDNS service type for -discover")
	flag.String("envelope", "full", "drawing area preset used by -check: full or safe")
	flag.BoolVar(&flagDiscover, "discover", false, "find the plotter with mDNS instead of using -host")
	flag.DurationVar(&flagDiscoverTimeout, "discover-timeout", 3*time.Second, "how long to browse for plotters")
	flag.BoolVar(&flagCheck, "check", true, "check every command is well formed and inside the envelope before sending")
	flag.BoolVarP(&flagQuiet, "quiet", "q", false, "don't show per-line progress")
}

func main() {
	fail := func(s string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, s+"\n", args...)
		os.Exit(2)
	}

	flag.Parse()
	if flag.NArg() != 1 {
		fail("usage: sendgcode [flags] program.gcode")
	}
	cfg, err := config.Load(flagConfig, flag.CommandLine)
	if err != nil {
		fail("%v", err)
	}
	prog, err := gcode.LoadProgram(flag.Arg(0))
	if err != nil {
		fail("%v", err)
	}
	if flagCheck {
		if err := prog.Check(&cfg.Envelope); err != nil {
			fail("%s: %v", flag.Arg(0), err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev := cfg.Device
	if flagDiscover {
		addrs, err := lineus.Discover(ctx, cfg.MDNSService, flagDiscoverTimeout)
		if err != nil {
			fail("%v", err)
		}
		if len(addrs) == 0 {
			fail("no plotter found advertising %s", cfg.MDNSService)
		}
		log.Printf("found %d plotter(s), using %s", len(addrs), addrs[0])
		dev.Addr = addrs[0]
	}
	if !flagQuiet {
		dev.Progress = func(sent, total int) {
			fmt.Fprintf(os.Stderr, "\r%d/%d commands sent", sent, total)
		}
	}

	sum, err := lineus.Send(ctx, &dev, prog)
	if !flagQuiet && sum.Sent > 0 {
		fmt.Fprintln(os.Stderr)
	}
	for _, n := range sum.Nacks {
		fmt.Printf("line %d %q: %s\n", n.Line, n.Command, n.Response)
	}
	fmt.Println(sum)
	if err != nil {
		stop()
		fail("%v", err)
	}
}
