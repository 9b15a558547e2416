package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/livefir/widgetdemo/internal/config"
)

// Panel describes one page panel for the terminal.
type Panel struct {
	Name        string
	Title       string
	Description string
}

var descriptions = map[string]Panel{
	"basics":      {Title: "Basic Widgets", Description: "Text input, button, checkbox, slider and select box"},
	"layout":      {Title: "Layout Options", Description: "Columns, tabs and content inside an expander"},
	"data":        {Title: "Data Display", Description: "Sortable dataframe, static table, JSON viewer and metrics"},
	"charts":      {Title: "Charts and Plots", Description: "Line, bar, area and scatter charts"},
	"interactive": {Title: "Interactive Elements", Description: "Progress bar, file uploader and camera input"},
	"styling":     {Title: "Styling and Themes", Description: "Theme configuration and a styled button"},
	"guide":       {Title: "How to Use This Demo", Description: "Walkthrough of the showcase"},
}

// Panels returns the page panels in display order.
func Panels() []Panel {
	out := make([]Panel, 0, len(config.Panels))
	for _, name := range config.Panels {
		p := descriptions[name]
		p.Name = name
		if p.Title == "" {
			p.Title = name
		}
		out = append(out, p)
	}
	return out
}

// RenderPanels is the styled listing printed by `widgetdemo panels`.
func RenderPanels(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Widget Showcase panels"))
	b.WriteString("\n\n")

	width := 0
	for _, p := range Panels() {
		width = max(width, lipgloss.Width(p.Name))
	}

	for _, p := range Panels() {
		state := closedStyle.Render("collapsed")
		if cfg.Expanded(p.Name) {
			state = openStyle.Render("expanded ")
		}
		name := nameStyle.Render(fmt.Sprintf("%-*s", width, p.Name))
		fmt.Fprintf(&b, "%s  %s  %s\n", state, name, p.Title)
		fmt.Fprintf(&b, "%s  %s\n", strings.Repeat(" ", len("collapsed")+width+2), descStyle.Render(p.Description))
	}
	return listBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
