package panel

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Metric is a headline number with an optional change.
type Metric struct {
	Label string
	Value string
	Delta string
}

// NewMetric builds a metric from already formatted strings.
func NewMetric(label, value, delta string) Metric {
	return Metric{Label: label, Value: value, Delta: delta}
}

// CountMetric formats whole numbers with thousands separators, "1,234" and "+50".
func CountMetric(label string, value, delta int) Metric {
	return Metric{
		Label: label,
		Value: printer.Sprintf("%d", value),
		Delta: printer.Sprintf("%+d", delta),
	}
}

// Direction is "up", "down" or "" depending on the sign of the delta.
func (m Metric) Direction() string {
	d := strings.TrimSpace(m.Delta)
	end := strings.IndexFunc(d, func(r rune) bool {
		return !strings.ContainsRune("+-0123456789.,", r)
	})
	if end >= 0 {
		d = d[:end]
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(d, ",", ""), 64)
	switch {
	case err != nil, v == 0:
		return ""
	case v < 0:
		return "down"
	}
	return "up"
}

// Arrow is the glyph shown next to the delta.
func (m Metric) Arrow() string {
	switch m.Direction() {
	case "up":
		return "↑"
	case "down":
		return "↓"
	}
	return ""
}
