package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ezBadminton/ttrank/internal/config"
	"github.com/ezBadminton/ttrank/internal/logging"
	"github.com/ezBadminton/ttrank/internal/metrics"
	"github.com/ezBadminton/ttrank/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdin, os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Holds what the commands share once the config is loaded
type commandEnv struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Manager
	service *service.Service
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	rt := &commandEnv{stdin: stdin, stdout: stdout, stderr: stderr}

	return &cli.App{
		Name:      "ttrank",
		Usage:     "rank round robin table tennis groups",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Before: rt.setup,
		After: func(*cli.Context) error {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			rt.rankCommand(),
			rt.serveCommand(),
			rt.convertCommand(),
		},
	}
}

func (rt *commandEnv) setup(c *cli.Context) error {
	cfg, err := config.Load(c.Context, c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	logger, err := logging.NewWithWriter(rt.stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	rt.cfg = cfg
	rt.logger = logger
	rt.metrics = metrics.NewManager()
	rt.service = service.New(cfg, logger, rt.metrics)
	return nil
}
