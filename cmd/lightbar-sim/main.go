// lightbar-sim runs the light bar logic against a terminal: the strip is
// drawn as colored blocks and the keyboard stands in for the button.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/atomic"

	"lightbar-service/internal/config"
	"lightbar-service/internal/core"
	"lightbar-service/internal/logger"
	"lightbar-service/internal/messaging"
	"lightbar-service/internal/settings"
	"lightbar-service/internal/simulator"
)

const statusRefresh = 100 * time.Millisecond

func main() {
	app := cli.NewApp()
	app.Name = "lightbar-sim"
	app.Usage = "run the light bar in a terminal"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a YAML settings file (strip layout and timings)",
		},
		cli.StringFlag{
			Name:  "redis",
			Usage: "Redis address; the record is kept in memory when empty",
		},
		cli.StringFlag{
			Name:  "colors",
			Usage: "Comma separated palette indices to start with, e.g. 0,3,10",
		},
		cli.StringFlag{
			Name:  "log",
			Usage: "Log level (0=NONE .. 4=DEBUG, or the level name)",
			Value: "info",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "Write logs to this file; logs are discarded otherwise",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "lightbar-sim: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	s, err := settings.Load(c.String("config"))
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(c.String("log"))
	if err != nil {
		return err
	}
	colors, err := config.ParseColorList(c.String("colors"))
	if err != nil {
		return err
	}

	// The terminal belongs to the strip, so logs go elsewhere.
	var out io.Writer = io.Discard
	if path := c.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	l := logger.NewLogger(log.New(out, "", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix), level)

	var msg core.MessagingClient
	if addr := c.String("redis"); addr != "" {
		msg = messaging.NewRedisClientAddr(addr, l.WithTag("redis"))
	} else {
		msg = messaging.NewLocalClient(l.WithTag("local"))
	}

	term, err := simulator.NewScreen(l.WithTag("terminal"))
	if err != nil {
		return err
	}

	opts := core.DefaultOptions()
	opts.Layout = s.Layout()
	opts.Timing = s.Timing()
	opts.TickInterval = s.Service.TickInterval
	opts.AutosaveDelay = s.Service.AutosaveDelay
	system := core.NewLightSystem(term, msg, opts, l)

	// Config takes the loop lock, which ShowPixels already runs under, so
	// the status line reads a cached copy.
	var status atomic.String
	term.SetStatus(status.Load)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := system.Start(ctx); err != nil {
		system.Shutdown()
		return fmt.Errorf("failed to start system: %w", err)
	}
	if c.IsSet("colors") {
		if err := system.SetColors(colors...); err != nil {
			system.Shutdown()
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-term.Quit():
			cancel()
		case <-ctx.Done():
		}
	}()
	go func() {
		ticker := time.NewTicker(statusRefresh)
		defer ticker.Stop()
		for {
			status.Store(fmt.Sprintf("%s  [%s]", system.Config(), system.State()))
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	if err := system.Run(ctx); err != nil {
		l.Errorf("Dispatcher loop failed: %v", err)
	}
	cancel()
	system.Shutdown()
	return nil
}
