// Package panel holds the demo panels of the widget showcase: one store per
// panel plus the page chrome, and the templates that draw them.
package panel

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/livefir/widgetdemo"
	"github.com/livefir/widgetdemo/internal/chart"
	"github.com/livefir/widgetdemo/internal/config"
	"github.com/livefir/widgetdemo/internal/frame"
)

//go:embed templates/*.tmpl
var templates embed.FS

// EntryTemplate is the template executed on every redraw.
const EntryTemplate = "page"

var validate = validator.New()

// Options configures the page.
type Options struct {
	Config *config.Config

	// Registry overrides the chart renderers. Nil means chart.Default()
	// minus the kinds disabled in Config.
	Registry *chart.Registry

	// Seed for the sample data. Zero draws a new seed for every session.
	Seed uint64

	// Extra template options, applied after the ones derived from Config.
	TemplateOptions []widgetdemo.Option
}

// Store names, also the action prefixes.
const (
	StorePage        = "page"
	StoreBasics      = "basics"
	StoreLayout      = "layout"
	StoreData        = "data"
	StoreCharts      = "charts"
	StoreInteractive = "interactive"
	StoreStyling     = "styling"
	StoreGuide       = "guide"
)

// NewPage parses the templates and returns them with the prototype stores.
// The host clones the stores for every session.
func NewPage(opts Options) (*widgetdemo.Template, widgetdemo.Stores, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	registry := opts.Registry
	if registry == nil {
		registry = chart.Default()
		for _, kind := range registry.Kinds() {
			if cfg.ChartDisabled(string(kind)) {
				registry.Unregister(kind)
			}
		}
	}

	tmplOpts := []widgetdemo.Option{widgetdemo.WithDevMode(cfg.DevMode)}
	if cfg.WebSocketDisabled {
		tmplOpts = append(tmplOpts, widgetdemo.WithWebSocketDisabled())
	}
	tmplOpts = append(tmplOpts, opts.TemplateOptions...)

	tmpl, err := widgetdemo.New(EntryTemplate, tmplOpts...).
		Funcs(funcs).
		ParseFS(templates, "templates/*.tmpl")
	if err != nil {
		return nil, nil, err
	}

	stores := widgetdemo.Stores{
		StorePage:        &Chrome{Config: cfg},
		StoreBasics:      &Basics{},
		StoreLayout:      &Layout{Registry: registry, Seed: opts.Seed},
		StoreData:        &Data{Seed: opts.Seed},
		StoreCharts:      &Charts{Registry: registry, Seed: opts.Seed},
		StoreInteractive: &Interactive{Steps: cfg.Progress.Steps, Interval: cfg.Progress.Interval, MaxUpload: cfg.Upload.MaxBytes},
		StoreStyling:     &Styling{Config: cfg},
		StoreGuide:       &Guide{},
	}
	return tmpl, stores, nil
}

var funcs = template.FuncMap{
	"cell": func(v frame.Value) string { return v.String() },
	"numeric": func(v frame.Value) bool {
		_, ok := v.Float()
		return ok
	},
	"add":   func(a, b int) int { return a + b },
	"bytes": formatBytes,
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return strconv.FormatInt(n, 10) + " B"
}

// intField reads a whole number sent as a JSON number or a string.
func intField(ctx *widgetdemo.ActionContext, key string) (int, error) {
	switch v := ctx.Data.Get(key).(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, widgetdemo.FieldError{Field: key, Message: fmt.Sprintf("%s must be a whole number", key)}
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, widgetdemo.FieldError{Field: key, Message: fmt.Sprintf("%s must be a whole number", key)}
		}
		return n, nil
	case nil:
		return 0, widgetdemo.FieldError{Field: key, Message: fmt.Sprintf("%s is required", key)}
	}
	return 0, widgetdemo.FieldError{Field: key, Message: fmt.Sprintf("%s must be a whole number", key)}
}
