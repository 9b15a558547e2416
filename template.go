package widgetdemo

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Config holds template configuration options
type Config struct {
	Upgrader          *websocket.Upgrader
	SessionStore      SessionStore
	WebSocketDisabled bool
	MinifyDisabled    bool
	DevMode           bool // Development mode: no minification, verbose client logging
}

// Template is a page template that is re-executed top to bottom on every
// redraw. It wraps html/template and adds the lvt context and minification.
type Template struct {
	name   string
	tmpl   *template.Template
	funcs  template.FuncMap
	config Config
}

// Option is a functional option for configuring a Template
type Option func(*Config)

// WithUpgrader sets a custom WebSocket upgrader
func WithUpgrader(upgrader *websocket.Upgrader) Option {
	return func(c *Config) {
		c.Upgrader = upgrader
	}
}

// WithSessionStore sets a custom session store for HTTP requests
func WithSessionStore(store SessionStore) Option {
	return func(c *Config) {
		c.SessionStore = store
	}
}

// WithWebSocketDisabled disables WebSocket support, forcing HTTP-only mode
func WithWebSocketDisabled() Option {
	return func(c *Config) {
		c.WebSocketDisabled = true
	}
}

// WithMinifyDisabled turns off HTML minification of rendered pages
func WithMinifyDisabled() Option {
	return func(c *Config) {
		c.MinifyDisabled = true
	}
}

// WithDevMode enables development mode
func WithDevMode(enabled bool) Option {
	return func(c *Config) {
		c.DevMode = enabled
	}
}

// New creates a new template. name is the template executed on every redraw.
func New(name string, opts ...Option) *Template {
	config := Config{
		Upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		SessionStore: NewMemorySessionStore(),
	}

	for _, opt := range opts {
		opt(&config)
	}

	if config.DevMode {
		log.Printf("widgetdemo.New(%q): DevMode=true", name)
	}

	return &Template{
		name:   name,
		funcs:  template.FuncMap{},
		config: config,
	}
}

// Name returns the name of the entry template
func (t *Template) Name() string {
	return t.name
}

// Funcs adds functions to the template's function map. It must be called
// before parsing.
func (t *Template) Funcs(funcs template.FuncMap) *Template {
	for k, v := range funcs {
		t.funcs[k] = v
	}
	return t
}

// Parse parses text as the body of the entry template.
func (t *Template) Parse(text string) (*Template, error) {
	tmpl, err := template.New(t.name).Funcs(t.funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("template parse error: %w", err)
	}
	t.tmpl = tmpl
	return t, nil
}

// ParseFS parses the templates matched by patterns in fsys. One of them
// must define (or be named after) the entry template.
func (t *Template) ParseFS(fsys fs.FS, patterns ...string) (*Template, error) {
	tmpl, err := template.New(t.name).Funcs(t.funcs).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("template parse error: %w", err)
	}
	if tmpl.Lookup(t.name) == nil {
		return nil, fmt.Errorf("template parse error: entry template %q not found", t.name)
	}
	t.tmpl = tmpl
	return t, nil
}

// Render executes the entry template against data and returns the page.
func (t *Template) Render(data interface{}, errors map[string]string) ([]byte, error) {
	return t.RenderAction("", data, errors)
}

// RenderAction is Render for the redraw that follows action. Templates see
// it as .lvt.Action; it is empty for the first render and server pushes.
func (t *Template) RenderAction(action string, data interface{}, errors map[string]string) ([]byte, error) {
	if t.tmpl == nil {
		return nil, fmt.Errorf("template %q has not been parsed", t.name)
	}
	entry := t.tmpl.Lookup(t.name)
	if entry == nil {
		return nil, fmt.Errorf("entry template %q not found", t.name)
	}

	lvtContext := &TemplateContext{
		errors:     errors,
		Action:     action,
		DevMode:    t.config.DevMode,
		WebSocket:  !t.config.WebSocketDisabled,
		ClientPath: ClientLibraryPath,
	}

	out, err := executeTemplateWithContext(entry, data, lvtContext)
	if err != nil {
		return nil, fmt.Errorf("template execution failed: %w", err)
	}

	if t.config.MinifyDisabled || t.config.DevMode {
		return out, nil
	}
	return minifyHTML(out), nil
}

// Execute renders the page into w.
func (t *Template) Execute(w io.Writer, data interface{}, errors map[string]string) error {
	out, err := t.Render(data, errors)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
