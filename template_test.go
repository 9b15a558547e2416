package widgetdemo

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"testing/fstest"
)

const greetingPage = `<!DOCTYPE html>
<html>
<body>
    <div   id="root"   data-websocket="{{if .lvt.WebSocket}}enabled{{else}}disabled{{end}}">
        <p id="greeting">Hello,   {{upper .Name}}!</p>
        {{with .lvt.Error "name"}}<span class="error">{{.}}</span>{{end}}
        {{with .lvt.GeneralError}}<div id="general">{{.}}</div>{{end}}
    </div>
</body>
</html>`

type greeting struct {
	Name string
}

func (g *greeting) Change(ctx *ActionContext) error { return nil }

func parseGreeting(t *testing.T, opts ...Option) *Template {
	t.Helper()
	tmpl, err := New("greeting", opts...).
		Funcs(template.FuncMap{"upper": strings.ToUpper}).
		Parse(greetingPage)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tmpl
}

func TestTemplateRender(t *testing.T) {
	tmpl := parseGreeting(t)

	out, err := tmpl.Render(&greeting{Name: "ada"}, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	page := string(out)

	if !strings.Contains(page, "Hello, ADA!") {
		t.Errorf("page does not contain the greeting:\n%s", page)
	}
	if !strings.Contains(page, `data-websocket="enabled"`) {
		t.Errorf("page should enable the WebSocket:\n%s", page)
	}
	if strings.Contains(page, "class=\"error\"") {
		t.Error("page should have no errors")
	}
}

func TestTemplateRenderErrors(t *testing.T) {
	tmpl := parseGreeting(t, WithMinifyDisabled())

	out, err := tmpl.Render(&greeting{Name: "x"}, map[string]string{
		"name":            "Name is required",
		GeneralErrorField: "something broke",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	page := string(out)
	if !strings.Contains(page, `<span class="error">Name is required</span>`) {
		t.Errorf("field error not rendered:\n%s", page)
	}
	if !strings.Contains(page, `<div id="general">something broke</div>`) {
		t.Errorf("general error not rendered:\n%s", page)
	}
}

func TestTemplateMinify(t *testing.T) {
	minified, err := parseGreeting(t).Render(&greeting{Name: "a"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := parseGreeting(t, WithMinifyDisabled()).Render(&greeting{Name: "a"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(minified) >= len(raw) {
		t.Errorf("minified page (%d bytes) is not smaller than raw (%d bytes)", len(minified), len(raw))
	}
	if !bytes.Contains(raw, []byte("Hello,   A!")) {
		t.Error("raw page should keep its whitespace")
	}

	dev, err := parseGreeting(t, WithDevMode(true)).Render(&greeting{Name: "a"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dev, raw) {
		t.Error("dev mode should not minify")
	}
}

func TestTemplateWebSocketDisabled(t *testing.T) {
	out, err := parseGreeting(t, WithWebSocketDisabled()).Render(&greeting{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `data-websocket="disabled"`) {
		t.Errorf("page should disable the WebSocket:\n%s", out)
	}
}

func TestTemplateRenderAction(t *testing.T) {
	tmpl, err := New("page").Parse(`[{{.lvt.Action}}]`)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		action string
		want   string
	}{
		{"after an action", "basics.click", "[basics.click]"},
		{"server push", "", "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tmpl.RenderAction(tt.action, &greeting{}, nil)
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tt.want {
				t.Errorf("RenderAction() = %q, want %q", out, tt.want)
			}
		})
	}

	out, err := tmpl.Render(&greeting{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "[]" {
		t.Errorf("Render() = %q, want no action", out)
	}
}

func TestTemplateMapData(t *testing.T) {
	tmpl, err := New("page").Parse(`{{.basics.Name}}|{{.layout.Name}}`)
	if err != nil {
		t.Fatal(err)
	}
	out, err := tmpl.Render(map[string]interface{}{
		"basics": &greeting{Name: "one"},
		"layout": &greeting{Name: "two"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "one|two" {
		t.Errorf("Render() = %q, want %q", out, "one|two")
	}
}

func TestTemplateParseFS(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/page.tmpl":  {Data: []byte(`{{define "page"}}<main>{{template "panel" .}}</main>{{end}}`)},
		"templates/panel.tmpl": {Data: []byte(`{{define "panel"}}<p>{{.Name}}</p>{{end}}`)},
	}

	tmpl, err := New("page", WithMinifyDisabled()).ParseFS(fsys, "templates/*.tmpl")
	if err != nil {
		t.Fatalf("ParseFS() error = %v", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, &greeting{Name: "hi"}, nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if buf.String() != "<main><p>hi</p></main>" {
		t.Errorf("Execute() = %q", buf.String())
	}

	if _, err := New("missing").ParseFS(fsys, "templates/*.tmpl"); err == nil {
		t.Error("ParseFS() should fail when the entry template is not defined")
	}
}

func TestTemplateErrors(t *testing.T) {
	if _, err := New("bad").Parse(`{{.Name`); err == nil {
		t.Error("Parse() should reject a malformed template")
	}

	if _, err := New("unparsed").Render(nil, nil); err == nil {
		t.Error("Render() before Parse() should fail")
	}

	tmpl, err := New("fails").Parse(`{{.Missing.Field}}`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpl.Render(&greeting{}, nil); err == nil {
		t.Error("Render() should report execution errors")
	}
}

func TestTemplateContextAllErrors(t *testing.T) {
	ctx := &TemplateContext{errors: map[string]string{"b": "2", "a": "1"}}
	all := ctx.AllErrors()
	if len(all) != 2 || all[0].Field != "a" || all[1].Field != "b" {
		t.Errorf("AllErrors() = %v, want sorted by field", all)
	}
	if !ctx.HasError("a") || ctx.HasError("c") || !ctx.HasAnyError() {
		t.Error("HasError/HasAnyError disagree with the error map")
	}
}
