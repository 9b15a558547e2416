package panel

import (
	"log"

	"github.com/livefir/widgetdemo"
	"github.com/livefir/widgetdemo/internal/config"
)

// Styling demonstrates custom CSS and theme configuration.
type Styling struct {
	Config *config.Config `json:"-"`

	ThemeSnippet string

	// Clicked is true only for the redraw right after the style test button.
	Clicked bool
}

// Init implements widgetdemo.StoreInitializer
func (s *Styling) Init() error {
	theme := config.DefaultTheme()
	if s.Config != nil {
		theme = s.Config.Theme
	}
	snippet, err := config.ThemeYAML(theme)
	if err != nil {
		return err
	}
	s.ThemeSnippet = "# " + config.FileName + "\n" + snippet
	return nil
}

// BeforeRedraw implements widgetdemo.RedrawAware
func (s *Styling) BeforeRedraw() {
	s.Clicked = false
}

func (s *Styling) Change(ctx *widgetdemo.ActionContext) error {
	switch ctx.Action {
	case "click":
		s.Clicked = true
	default:
		log.Printf("Unknown styling action: %s", ctx.Action)
	}
	return nil
}
