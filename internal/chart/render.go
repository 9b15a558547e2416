package chart

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"sort"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/livefir/widgetdemo/internal/frame"
)

// seriesStyle returns the line style of the i-th column
func seriesStyle(i int, filled bool) gochart.Style {
	col := gochart.GetDefaultColor(i)
	st := gochart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
	if filled {
		st.FillColor = col.WithAlpha(72)
	}
	return st
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color, width float64) gochart.Style {
	return gochart.Style{
		StrokeWidth: gochart.Disabled,
		DotWidth:    width,
		DotColor:    col.WithAlpha(200),
	}
}

func positions(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// columnSeries draws one continuous series per column against the row position
func columnSeries(f *frame.Frame, filled bool) ([]gochart.Series, error) {
	xs := positions(f.Len())
	var series []gochart.Series
	for i, name := range f.Columns() {
		ys, err := f.Floats(name)
		if err != nil {
			return nil, err
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   seriesStyle(i, filled),
		})
	}
	return series, nil
}

func renderSeries(w io.Writer, spec Spec, series []gochart.Series) error {
	width, height := spec.size()
	ch := gochart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 16, Right: 16, Bottom: 12}},
		Series:     series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	if err := ch.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("%s chart: %w", spec.Kind, err)
	}
	return nil
}

func renderLine(w io.Writer, spec Spec) error {
	series, err := columnSeries(spec.Frame, false)
	if err != nil {
		return err
	}
	return renderSeries(w, spec, series)
}

func renderArea(w io.Writer, spec Spec) error {
	series, err := columnSeries(spec.Frame, true)
	if err != nil {
		return err
	}
	return renderSeries(w, spec, series)
}

// renderBar draws the first column of an indexed frame, one bar per label
func renderBar(w io.Writer, spec Spec) error {
	f := spec.Frame
	if len(f.Columns()) == 0 {
		return fmt.Errorf("bar chart: frame has no value column")
	}
	values, err := f.Floats(f.Columns()[0])
	if err != nil {
		return err
	}

	labels := f.Labels()
	bars := make([]gochart.Value, len(values))
	for i, v := range values {
		bars[i] = gochart.Value{
			Label: labels[i],
			Value: v,
			Style: gochart.Style{
				FillColor:   gochart.GetDefaultColor(0),
				StrokeColor: gochart.GetDefaultColor(0),
			},
		}
	}

	width, height := spec.size()
	bc := gochart.BarChart{
		Title:    spec.Title,
		Width:    width,
		Height:   height,
		BarWidth: width / (2*len(bars) + 1),
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		Bars: bars,
	}
	if err := bc.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	return nil
}

// hoverPoint is one drawn scatter point in SVG pixel coordinates.
type hoverPoint struct {
	x, y  int
	label string
}

// hoverSeries records where go-chart places each point so a tooltip layer
// can be laid over the drawn dots.
type hoverSeries struct {
	gochart.ContinuousSeries
	category string
	points   []hoverPoint
}

func (s *hoverSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, defaults gochart.Style) {
	s.ContinuousSeries.Render(r, canvasBox, xrange, yrange, defaults)

	s.points = s.points[:0]
	for i := range s.XValues {
		x, y := s.XValues[i], s.YValues[i]
		s.points = append(s.points, hoverPoint{
			x:     canvasBox.Left + xrange.Translate(x),
			y:     canvasBox.Bottom - yrange.Translate(y),
			label: fmt.Sprintf("x: %.4f, y: %.4f, category: %s", x, y, s.category),
		})
	}
}

// renderScatter draws X against Y with one coloured series per category.
// Every point carries a <title> tooltip with its values.
func renderScatter(w io.Writer, spec Spec) error {
	f := spec.Frame
	xs, err := f.Floats(spec.X)
	if err != nil {
		return err
	}
	ys, err := f.Floats(spec.Y)
	if err != nil {
		return err
	}
	cats, err := f.Column(spec.Color)
	if err != nil {
		return err
	}

	area := spec.DotArea
	if area <= 0 {
		area = 60
	}
	dot := math.Sqrt(area / math.Pi)

	groups := make(map[string]*hoverSeries)
	for i, c := range cats {
		key := c.String()
		s, ok := groups[key]
		if !ok {
			s = &hoverSeries{ContinuousSeries: gochart.ContinuousSeries{Name: key}, category: key}
			groups[key] = s
		}
		s.XValues = append(s.XValues, xs[i])
		s.YValues = append(s.YValues, ys[i])
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	series := make([]gochart.Series, 0, len(names))
	for i, name := range names {
		s := groups[name]
		s.Style = pointStyle(gochart.GetDefaultColor(i), dot)
		series = append(series, s)
	}

	var buf bytes.Buffer
	if err := renderSeries(&buf, spec, series); err != nil {
		return err
	}

	svg := buf.Bytes()
	end := bytes.LastIndex(svg, []byte("</svg>"))
	if end < 0 {
		return fmt.Errorf("scatter chart: renderer produced no svg element")
	}

	var layer bytes.Buffer
	layer.WriteString(`<g class="chart-tooltips">`)
	for _, name := range names {
		for _, p := range groups[name].points {
			fmt.Fprintf(&layer, `<circle cx="%d" cy="%d" r="%.1f" fill="transparent" pointer-events="all"><title>%s</title></circle>`,
				p.x, p.y, dot+2, html.EscapeString(p.label))
		}
	}
	layer.WriteString(`</g>`)

	if _, err := w.Write(svg[:end]); err != nil {
		return err
	}
	if _, err := w.Write(layer.Bytes()); err != nil {
		return err
	}
	_, err = w.Write(svg[end:])
	return err
}
