package panel

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/livefir/widgetdemo"
	"github.com/livefir/widgetdemo/internal/frame"
)

// DataframeHeight is the height of the scrollable dataframe in pixels.
const DataframeHeight = 200

type sampleItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type sampleData struct {
	Items []sampleItem `json:"items"`
	Count int          `json:"count"`
}

// sampleDocument is shown in the JSON view. Structs keep the key order.
type sampleDocument struct {
	Data   sampleData `json:"data"`
	Status string     `json:"status"`
}

// Data demonstrates the dataframe, static table, metrics and JSON views.
type Data struct {
	Seed uint64

	JSON string

	people     *frame.Frame
	sortColumn string
	sortDesc   bool
	jsonOpen   bool
}

type sortInput struct {
	Column string `json:"column" validate:"required"`
}

// Init implements widgetdemo.StoreInitializer
func (d *Data) Init() error {
	people, err := samplePeople(frame.NewSource(d.Seed))
	if err != nil {
		return err
	}
	d.people = people

	doc := sampleDocument{
		Data: sampleData{
			Items: []sampleItem{
				{ID: 1, Name: "apple", Price: 100},
				{ID: 2, Name: "banana", Price: 150},
			},
			Count: 2,
		},
		Status: "success",
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sample document: %w", err)
	}
	d.JSON = string(out)
	return nil
}

func samplePeople(src frame.Source) (*frame.Frame, error) {
	names := []string{"Tanaka", "Suzuki", "Sato", "Takahashi", "Ito"}
	ages := []int{25, 30, 22, 28, 33}
	cities := []string{"Tokyo", "Osaka", "Fukuoka", "Sapporo", "Nagoya"}

	nameCol := make([]frame.Value, len(names))
	ageCol := make([]frame.Value, len(names))
	cityCol := make([]frame.Value, len(names))
	ratingCol := make([]frame.Value, len(names))
	for i := range names {
		nameCol[i] = frame.String(names[i])
		ageCol[i] = frame.Int(ages[i])
		cityCol[i] = frame.String(cities[i])
		ratingCol[i] = frame.Float(src.Float64() * 5)
	}
	return frame.FromColumns([]string{"Name", "Age", "City", "Rating"}, nameCol, ageCol, cityCol, ratingCol)
}

func (d *Data) Change(ctx *widgetdemo.ActionContext) error {
	switch ctx.Action {
	case "sort":
		var input sortInput
		if err := ctx.BindAndValidate(&input, validate); err != nil {
			return err
		}
		if _, err := d.people.Column(input.Column); err != nil {
			return widgetdemo.NewFieldError("sort", err)
		}
		if d.sortColumn == input.Column {
			d.sortDesc = !d.sortDesc
		} else {
			d.sortColumn = input.Column
			d.sortDesc = false
		}

	case "json":
		d.jsonOpen = ctx.GetBool("open")

	default:
		log.Printf("Unknown data action: %s", ctx.Action)
	}
	return nil
}

// Frame returns the dataframe in its current sort order.
func (d *Data) Frame() *frame.Frame {
	if d.sortColumn == "" {
		return d.people
	}
	sorted, err := d.people.SortBy(d.sortColumn, d.sortDesc)
	if err != nil {
		return d.people
	}
	return sorted
}

// Table is the static table, the first three rows in original order.
func (d *Data) Table() *frame.Frame {
	return d.people.Head(3)
}

// SortColumn returns the column the dataframe is sorted by, if any.
func (d *Data) SortColumn() string { return d.sortColumn }

// SortDescending reports the sort direction.
func (d *Data) SortDescending() bool { return d.sortDesc }

// JSONOpen reports whether the JSON view is expanded.
func (d *Data) JSONOpen() bool { return d.jsonOpen }

// Height is the dataframe height in pixels.
func (d *Data) Height() int { return DataframeHeight }

// Metrics returns the three sample metrics.
func (d *Data) Metrics() []Metric {
	return []Metric{
		NewMetric("Temperature", printer.Sprintf("%d°C", 23), printer.Sprintf("%+.1f°C", 1.5)),
		NewMetric("Humidity", printer.Sprintf("%d%%", 45), printer.Sprintf("%+d%%", -5)),
		CountMetric("Active users", 1234, 50),
	}
}
