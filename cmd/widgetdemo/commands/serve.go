package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/livefir/widgetdemo/internal/config"
	"github.com/livefir/widgetdemo/internal/panel"
	"github.com/livefir/widgetdemo/internal/server"
)

// Serve starts the showcase server and blocks until interrupted.
func Serve(args []string) error {
	cfg, err := loadServeConfig(args)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, panel.Options{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Widget showcase starting on %s (Ctrl+C to stop)\n", cfg.Addr)
	return srv.Run(ctx)
}

// loadServeConfig loads the config file and applies command-line overrides,
// which win over both the file and the environment.
func loadServeConfig(args []string) (*config.Config, error) {
	opts, err := parseArgs(args)
	if err != nil {
		return nil, err
	}
	if len(opts.rest) > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", opts.rest[0])
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if opts.dev {
		cfg.DevMode = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
