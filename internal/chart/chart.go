// Package chart renders sample frames to inline SVG with go-chart.
//
// Renderers are looked up in a Registry, so a page can ask whether a chart
// kind is available and show a notice instead of failing when it is not.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"sort"
	"sync"

	"github.com/livefir/widgetdemo/internal/frame"
)

// Kind names a chart type.
type Kind string

const (
	Line    Kind = "line"
	Bar     Kind = "bar"
	Area    Kind = "area"
	Scatter Kind = "scatter"
)

// ErrUnavailable is returned when no renderer is registered for a kind.
var ErrUnavailable = errors.New("chart renderer not available")

// Spec describes one chart.
type Spec struct {
	Kind   Kind
	Title  string
	Frame  *frame.Frame
	Width  int
	Height int

	// Scatter only: the x, y and category columns, and the dot area in px².
	X, Y, Color string
	DotArea     float64
}

func (s Spec) size() (int, int) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 320
	}
	return w, h
}

// Renderer draws a spec as SVG.
type Renderer interface {
	Render(w io.Writer, spec Spec) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, spec Spec) error

func (f RendererFunc) Render(w io.Writer, spec Spec) error {
	return f(w, spec)
}

// Registry maps chart kinds to renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[Kind]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[Kind]Renderer)}
}

// Default returns a registry with every built-in renderer.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Line, RendererFunc(renderLine))
	r.Register(Bar, RendererFunc(renderBar))
	r.Register(Area, RendererFunc(renderArea))
	r.Register(Scatter, RendererFunc(renderScatter))
	return r
}

// Register sets the renderer for kind, replacing any previous one.
func (r *Registry) Register(kind Kind, renderer Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[kind] = renderer
}

// Unregister removes the renderer for kind.
func (r *Registry) Unregister(kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.renderers, kind)
}

// Available reports whether kind can be rendered.
func (r *Registry) Available(kind Kind) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[kind]
	return ok
}

// Kinds lists the registered kinds in name order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Kind, 0, len(r.renderers))
	for k := range r.renderers {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Render writes the SVG for spec into w.
func (r *Registry) Render(w io.Writer, spec Spec) error {
	if r == nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, spec.Kind)
	}
	r.mu.RLock()
	renderer, ok := r.renderers[spec.Kind]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnavailable, spec.Kind)
	}
	if spec.Frame == nil || spec.Frame.Len() == 0 {
		return fmt.Errorf("%s chart: no data", spec.Kind)
	}
	return renderer.Render(w, spec)
}

// SVG renders spec and returns it ready to be embedded in a page.
func (r *Registry) SVG(spec Spec) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, spec); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
