package panel

import (
	"log"

	"github.com/livefir/widgetdemo"
)

const guideExample = `# Example: a button that shows a message

{{if .basics.Clicked}}
  <div class="alert success">Button was clicked!</div>
{{end}}
<button lvt-click="basics.click">Click me</button>

# The store flips Clicked in Change("click")
# and resets it in BeforeRedraw, so the message
# only lives for one redraw.
`

// Guide explains how to use the demo. It has no state.
type Guide struct{}

func (g *Guide) Change(ctx *widgetdemo.ActionContext) error {
	log.Printf("Unknown guide action: %s", ctx.Action)
	return nil
}

// Steps are the numbered usage steps.
func (g *Guide) Steps() []string {
	return []string{
		"Find the section you want to learn about and click its header to expand it.",
		"Change a widget: type in the text box, move the slider or press a button.",
		"Watch the page redraw from top to bottom with the new values.",
		"Try different combinations and look at the source of each panel to see how it is built.",
	}
}

// Example is the code sample shown under the steps.
func (g *Guide) Example() string {
	return guideExample
}

// Warning is shown at the end of the guide.
func (g *Guide) Warning() string {
	return "Widget values live in your session only. Reloading with a new session resets every panel to its defaults."
}
