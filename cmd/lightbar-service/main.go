package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"lightbar-service/internal/core"
	"lightbar-service/internal/hardware"
	"lightbar-service/internal/logger"
	"lightbar-service/internal/messaging"
	"lightbar-service/internal/settings"
)

var version = "dev"

func main() {
	app := cli.NewApp()
	app.Name = "lightbar-service"
	app.Usage = "drive the light bar from its push button"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a YAML settings file",
		},
		cli.StringFlag{
			Name:  "log",
			Usage: "Service log level (0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG, or the level name)",
		},
		cli.StringFlag{
			Name:  "redis-host",
			Usage: "Redis host",
		},
		cli.IntFlag{
			Name:  "redis-port",
			Usage: "Redis port",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "lightbar-service: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	s, err := settings.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("log") {
		s.Service.LogLevel = c.String("log")
	}
	if c.IsSet("redis-host") {
		s.Redis.Host = c.String("redis-host")
	}
	if c.IsSet("redis-port") {
		s.Redis.Port = c.Int("redis-port")
	}
	if err := s.Validate(); err != nil {
		return err
	}

	level, err := logger.ParseLevel(s.Service.LogLevel)
	if err != nil {
		return err
	}

	var stdLogger *log.Logger
	if os.Getenv("INVOCATION_ID") != "" {
		// Running under systemd, use minimal format
		stdLogger = log.New(os.Stdout, "", 0)
	} else {
		stdLogger = log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)
	}
	l := logger.NewLogger(stdLogger, level)

	l.Infof("Starting lightbar service %s", version)

	opts := core.DefaultOptions()
	opts.Layout = s.Layout()
	opts.Timing = s.Timing()
	opts.TickInterval = s.Service.TickInterval
	opts.AutosaveDelay = s.Service.AutosaveDelay

	io := hardware.NewLinuxHardwareIO(s.Hardware(), l.WithTag("hardware"))
	redis := messaging.NewRedisClient(s.Redis.Host, s.Redis.Port, l.WithTag("redis"))
	system := core.NewLightSystem(io, redis, opts, l)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := system.Start(ctx); err != nil {
		system.Shutdown()
		return fmt.Errorf("failed to start system: %w", err)
	}
	l.Infof("System started successfully")

	if err := system.Run(ctx); err != nil {
		l.Errorf("Dispatcher loop failed: %v", err)
	}

	l.Infof("Shutting down...")
	system.Shutdown()
	l.Infof("Shutdown complete")
	return nil
}
