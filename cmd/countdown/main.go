// Command countdown shows a shared Timely countdown in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/timely/internal/client"
	"github.com/erazemk/timely/internal/countdown"
	"github.com/erazemk/timely/internal/display"
	"github.com/erazemk/timely/internal/model"
	"github.com/erazemk/timely/internal/service"
	"github.com/erazemk/timely/internal/tui"
)

const usage = `Usage: countdown [flags] <id | share link>

Flags:
  -s, -server <url>   Timely server for bare IDs (default: http://localhost:8080)
  -p, -plain          print one line per second instead of the full-screen view
  -h, -help           show this help and exit
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("countdown", flag.ContinueOnError)
	fs.SetOutput(out)

	var server string
	var plain bool
	fs.StringVar(&server, "server", "http://localhost:8080", "")
	fs.StringVar(&server, "s", "http://localhost:8080", "")
	fs.BoolVar(&plain, "plain", false, "")
	fs.BoolVar(&plain, "p", false, "")
	fs.Usage = func() { fmt.Fprint(out, usage) }

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one countdown id or share link")
	}

	linkServer, id, err := client.ParseRef(fs.Arg(0))
	if err != nil {
		return err
	}
	if linkServer != "" {
		server = linkServer
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.New(server).Get(ctx, id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fmt.Errorf("countdown %s not found", id)
	case err != nil:
		return err
	}

	if plain {
		return runPlain(ctx, c, out)
	}
	return tui.Run(ctx, c, time.Local)
}

// runPlain prints the remaining time once per second until the countdown is
// over or ctx is cancelled.
func runPlain(ctx context.Context, c *model.Countdown, out io.Writer) error {
	target, err := countdown.Target(c, time.Local)
	if err != nil {
		return fmt.Errorf("resolving target: %w", err)
	}

	fmt.Fprintf(out, "%s (%s)\n%s\n", c.Label, c.Type, countdown.FormatTarget(c.Date, c.Time))
	loop := &display.Loop{
		Target: target,
		Render: func(r countdown.Remaining) { fmt.Fprintln(out, r.String()) },
	}
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
