package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/livefir/widgetdemo/cmd/widgetdemo/internal/ui"
	"github.com/livefir/widgetdemo/internal/config"
)

// Panels prints the panel listing.
func Panels(args []string, w io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fmt.Fprintln(w, ui.RenderPanels(cfg))
	return nil
}

// pickFunc runs the interactive picker. Tests replace it.
var pickFunc = func(cfg *config.Config) ([]string, error) {
	return ui.Pick(cfg)
}

// Pick lets the user choose the expanded panels and saves them to the
// config file.
func Pick(args []string, w io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	path := opts.configPath
	if path == "" {
		path = config.FileName
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	selected, err := pickFunc(cfg)
	if errors.Is(err, ui.ErrCancelled) {
		fmt.Fprintln(w, "No changes saved.")
		return nil
	}
	if err != nil {
		return err
	}

	cfg.ExpandedPanels = selected
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(w, "Saved %d expanded panel(s) to %s\n", len(selected), path)
	return nil
}
