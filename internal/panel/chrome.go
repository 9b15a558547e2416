package panel

import (
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/livefir/widgetdemo"
	"github.com/livefir/widgetdemo/internal/config"
)

// Chrome is the page around the panels: title, sidebar, which panels are
// open and the colour theme.
type Chrome struct {
	Config *config.Config `json:"-"`

	Title         string
	Subtitle      string
	Intro         string
	SidebarHeader string
	SidebarInfo   string

	expanded map[string]bool
	dark     bool
}

type toggleInput struct {
	Panel string `json:"panel" validate:"required"`
	Open  bool   `json:"open"`
}

// Init implements widgetdemo.StoreInitializer
func (c *Chrome) Init() error {
	if c.Config == nil {
		c.Config = config.DefaultConfig()
	}
	c.Title = "Widget Showcase for Beginners"
	c.Subtitle = "Learn the widgets by trying them out"
	c.Intro = "Open each section below to see a widget, change its value and watch the page redraw."
	c.SidebarHeader = "Demo guide"
	c.SidebarInfo = "Click a section header to expand it, then play with the widgets inside to see what each one does."

	c.expanded = make(map[string]bool, len(config.Panels))
	for _, name := range config.Panels {
		c.expanded[name] = c.Config.Expanded(name)
	}
	return nil
}

func (c *Chrome) Change(ctx *widgetdemo.ActionContext) error {
	switch ctx.Action {
	case "toggle":
		var input toggleInput
		if err := ctx.BindAndValidate(&input, validate); err != nil {
			return err
		}
		if !config.IsPanel(input.Panel) {
			return fmt.Errorf("unknown panel %q", input.Panel)
		}
		c.expanded[input.Panel] = input.Open

	case "theme":
		c.dark = ctx.GetBool("dark")

	default:
		log.Printf("Unknown page action: %s", ctx.Action)
	}
	return nil
}

// Open reports whether a panel is expanded.
func (c *Chrome) Open(name string) bool {
	return c.expanded[name]
}

// Panels lists the panel names in page order.
func (c *Chrome) Panels() []string {
	return config.Panels
}

// Dark reports whether the dark theme is active.
func (c *Chrome) Dark() bool {
	return c.dark
}

// Theme returns the active theme. The configured theme is the light one.
func (c *Chrome) Theme() config.Theme {
	if c.dark {
		return config.DarkTheme()
	}
	return c.Config.Theme
}

// ThemeStyle renders the theme as CSS custom properties.
func (c *Chrome) ThemeStyle() template.CSS {
	t := c.Theme()
	var b strings.Builder
	fmt.Fprintf(&b, "--primary-color:%s;", t.PrimaryColor)
	fmt.Fprintf(&b, "--background-color:%s;", t.BackgroundColor)
	fmt.Fprintf(&b, "--secondary-background-color:%s;", t.SecondaryBackgroundColor)
	fmt.Fprintf(&b, "--text-color:%s;", t.TextColor)
	fmt.Fprintf(&b, "--font:%s;", fontFamily(t.Font))
	return template.CSS(b.String())
}

func fontFamily(name string) string {
	switch strings.ToLower(name) {
	case "serif":
		return "Georgia, serif"
	case "monospace":
		return "Menlo, Consolas, monospace"
	}
	return "-apple-system, \"Segoe UI\", Roboto, sans-serif"
}
