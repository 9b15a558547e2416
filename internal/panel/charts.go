package panel

import (
	"errors"
	"fmt"
	"html/template"
	"log"

	"github.com/livefir/widgetdemo"
	"github.com/livefir/widgetdemo/internal/chart"
	"github.com/livefir/widgetdemo/internal/frame"
)

// ScatterUnavailable is shown when no scatter renderer is registered.
const ScatterUnavailable = "Interactive chart library not available. Enable the scatter renderer (remove \"scatter\" from charts.disabled) to show the interactive scatter plot."

// ChartView is one drawn chart or the reason it could not be drawn.
type ChartView struct {
	Title       string
	SVG         template.HTML
	Err         string
	Unavailable string
}

// Charts demonstrates line, bar, area and scatter charts.
type Charts struct {
	Registry *chart.Registry `json:"-"`
	Seed     uint64

	Line    ChartView
	Bar     ChartView
	Area    ChartView
	Scatter ChartView
}

// Init implements widgetdemo.StoreInitializer
func (c *Charts) Init() error {
	src := frame.NewSource(c.Seed)

	c.Line = c.draw("Line chart", chart.Spec{Kind: chart.Line, Frame: frame.Random(src, 20, "A", "B", "C")})

	bars, err := barFrame()
	if err != nil {
		return err
	}
	c.Bar = c.draw("Bar chart", chart.Spec{Kind: chart.Bar, Frame: bars})

	c.Area = c.draw("Area chart", chart.Spec{Kind: chart.Area, Frame: frame.Uniform(src, 10, 1, "X", "Y", "Z")})

	points, err := frame.Random(src, 100, "x", "y", "category").Cut("category", 3, []string{"G1", "G2", "G3"})
	if err != nil {
		c.Scatter = ChartView{Title: "Interactive scatter", Err: chartError(err)}
		return nil
	}
	c.Scatter = c.draw("Interactive scatter", chart.Spec{
		Kind:    chart.Scatter,
		Frame:   points,
		X:       "x",
		Y:       "y",
		Color:   "category",
		DotArea: 60,
	})
	return nil
}

func barFrame() (*frame.Frame, error) {
	f, err := frame.FromColumns([]string{"Category", "Value"},
		[]frame.Value{frame.String("A"), frame.String("B"), frame.String("C"), frame.String("D")},
		[]frame.Value{frame.Int(10), frame.Int(25), frame.Int(15), frame.Int(30)},
	)
	if err != nil {
		return nil, err
	}
	return f.SetIndex("Category")
}

func (c *Charts) draw(title string, spec chart.Spec) ChartView {
	view := ChartView{Title: title}
	if !c.Registry.Available(spec.Kind) {
		if spec.Kind == chart.Scatter {
			view.Unavailable = ScatterUnavailable
		} else {
			view.Unavailable = fmt.Sprintf("No renderer for %s charts.", spec.Kind)
		}
		return view
	}

	svg, err := c.Registry.SVG(spec)
	if err != nil {
		view.Err = chartError(err)
		return view
	}
	view.SVG = svg
	return view
}

func chartError(err error) string {
	if errors.Is(err, chart.ErrUnavailable) {
		return ScatterUnavailable
	}
	return fmt.Sprintf("Error while drawing the chart: %v", err)
}

func (c *Charts) Change(ctx *widgetdemo.ActionContext) error {
	switch ctx.Action {
	case "refresh":
		return c.Init()
	default:
		log.Printf("Unknown charts action: %s", ctx.Action)
	}
	return nil
}
