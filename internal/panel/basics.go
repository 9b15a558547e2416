package panel

import (
	"log"

	"github.com/livefir/widgetdemo"
)

// Languages are the choices of the language select box.
var Languages = []string{"Python", "JavaScript", "Java", "C++", "Go", "Rust"}

// Basics demonstrates text input, button, checkbox, slider and select box.
type Basics struct {
	Name       string
	ShowHidden bool
	Age        int
	Language   string

	// Clicked is true only for the redraw right after the button click.
	Clicked bool
}

type nameInput struct {
	Name string `json:"name" validate:"max=64"`
}

type ageInput struct {
	Age int `validate:"min=0,max=100"`
}

type languageInput struct {
	Language string `json:"language" validate:"required,oneof=Python JavaScript Java C++ Go Rust"`
}

// Init implements widgetdemo.StoreInitializer
func (b *Basics) Init() error {
	b.Name = "Guest"
	b.Age = 25
	b.Language = Languages[0]
	return nil
}

// BeforeRedraw implements widgetdemo.RedrawAware
func (b *Basics) BeforeRedraw() {
	b.Clicked = false
}

func (b *Basics) Change(ctx *widgetdemo.ActionContext) error {
	switch ctx.Action {
	case "name":
		var input nameInput
		if err := ctx.BindAndValidate(&input, validate); err != nil {
			return err
		}
		b.Name = input.Name

	case "click":
		b.Clicked = true

	case "hidden":
		b.ShowHidden = ctx.GetBool("hidden")

	case "age":
		age, err := intField(ctx, "age")
		if err != nil {
			return err
		}
		if err := validate.Struct(ageInput{Age: age}); err != nil {
			return widgetdemo.ValidationToMultiError(err)
		}
		b.Age = age

	case "language":
		var input languageInput
		if err := ctx.BindAndValidate(&input, validate); err != nil {
			return err
		}
		b.Language = input.Language

	default:
		log.Printf("Unknown basics action: %s", ctx.Action)
	}
	return nil
}

// Celebrate reports whether the page should play balloons.
func (b *Basics) Celebrate() bool {
	return b.Clicked
}

// Languages returns the select box options.
func (b *Basics) Languages() []string {
	return Languages
}
