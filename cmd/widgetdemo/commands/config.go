package commands

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/livefir/widgetdemo/internal/config"
)

// Config handles configuration management commands
func Config(args []string, w io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("command required: init, show")
	}

	command := args[0]

	switch command {
	case "init":
		return configInit(args[1:], w)
	case "show":
		return configShow(args[1:], w)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// configInit writes a default config file
func configInit(args []string, w io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	path := opts.configPath
	if path == "" {
		path = config.FileName
	}
	if err := config.Init(path); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// configShow prints the effective configuration
func configShow(args []string, w io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
