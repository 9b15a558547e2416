package panel

import (
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/livefir/widgetdemo"
	"github.com/livefir/widgetdemo/internal/chart"
	"github.com/livefir/widgetdemo/internal/frame"
)

const (
	dateLayout = "2006-01-02"

	// LogoURL is the picture on the first tab.
	LogoURL   = "https://go.dev/images/go-logo-blue.svg"
	LogoWidth = 200

	ExpanderCode = "print('Hello, Content inside Expander!')"
)

// Tabs are the layout panel tab labels.
var Tabs = []string{"Tab 1", "Tab 2", "Chart tab"}

// Layout demonstrates columns, tabs and content inside an expander.
type Layout struct {
	Registry *chart.Registry `json:"-"`
	Seed     uint64

	Number int
	Tab    int
	Date   string

	TabChart    template.HTML
	TabChartErr string
}

type dateInput struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Init implements widgetdemo.StoreInitializer
func (l *Layout) Init() error {
	l.Number = 10
	l.Tab = 0
	l.Date = time.Now().Format(dateLayout)

	src := frame.NewSource(l.Seed)
	svg, err := l.Registry.SVG(chart.Spec{
		Kind:   chart.Line,
		Frame:  frame.Random(src, 10, "X", "Y"),
		Width:  560,
		Height: 240,
	})
	if err != nil {
		l.TabChartErr = fmt.Sprintf("Could not draw the chart: %v", err)
		return nil
	}
	l.TabChart = svg
	return nil
}

func (l *Layout) Change(ctx *widgetdemo.ActionContext) error {
	switch ctx.Action {
	case "number":
		n, err := intField(ctx, "number")
		if err != nil {
			return err
		}
		l.Number = n

	case "tab":
		tab, err := intField(ctx, "tab")
		if err != nil {
			return err
		}
		if tab < 0 || tab >= len(Tabs) {
			return widgetdemo.FieldError{Field: "tab", Message: fmt.Sprintf("no tab %d", tab)}
		}
		l.Tab = tab

	case "date":
		var input dateInput
		if err := ctx.BindAndValidate(&input, validate); err != nil {
			return err
		}
		l.Date = input.Date

	default:
		log.Printf("Unknown layout action: %s", ctx.Action)
	}
	return nil
}

// Tabs returns the tab labels.
func (l *Layout) Tabs() []string {
	return Tabs
}

// Metric is the metric in the right column.
func (l *Layout) Metric() Metric {
	return NewMetric("Metric", "42", "2%")
}

// Logo is the picture shown on the first tab.
func (l *Layout) Logo() string { return LogoURL }

// LogoSize is the rendered logo width in pixels.
func (l *Layout) LogoSize() int { return LogoWidth }

// Code is the snippet in the content-in-expander example.
func (l *Layout) Code() string { return ExpanderCode }
