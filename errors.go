package widgetdemo

import (
	"bytes"
	"html/template"
	"reflect"
	"sort"
	"strings"
)

// GeneralErrorField holds errors that are not tied to a widget.
const GeneralErrorField = "_general"

// TemplateContext provides utility functions for templates via the lvt namespace
type TemplateContext struct {
	errors     map[string]string
	Action     string // Action that caused this redraw, empty for pushes
	DevMode    bool   // Development mode: verbose client logging, no minification
	WebSocket  bool   // Whether the client should try a WebSocket connection
	ClientPath string // Path of the embedded client script
}

// Error returns the error message for a field
func (t *TemplateContext) Error(field string) string {
	if t.errors == nil {
		return ""
	}
	return t.errors[field]
}

// HasError checks if a field has an error
func (t *TemplateContext) HasError(field string) bool {
	if t.errors == nil {
		return false
	}
	_, exists := t.errors[field]
	return exists
}

// HasAnyError checks if any errors exist
func (t *TemplateContext) HasAnyError() bool {
	return len(t.errors) > 0
}

// GeneralError returns the error that is not bound to a field, if any
func (t *TemplateContext) GeneralError() string {
	return t.Error(GeneralErrorField)
}

// AllErrors returns all errors sorted by field name
func (t *TemplateContext) AllErrors() []FieldError {
	fields := make([]string, 0, len(t.errors))
	for f := range t.errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make([]FieldError, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldError{Field: f, Message: t.errors[f]})
	}
	return out
}

// executeTemplateWithContext adds lvt context to template execution by augmenting the data
func executeTemplateWithContext(tmpl *template.Template, data interface{}, lvtContext *TemplateContext) ([]byte, error) {
	templateData := make(map[string]interface{})
	templateData["lvt"] = lvtContext

	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() == reflect.Struct {
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}

			fieldName := field.Name
			if jsonTag := field.Tag.Get("json"); jsonTag != "" {
				if commaIdx := strings.Index(jsonTag, ","); commaIdx > 0 {
					fieldName = jsonTag[:commaIdx]
				} else if jsonTag != "-" {
					fieldName = jsonTag
				}
			}
			templateData[fieldName] = val.Field(i).Interface()
			templateData[field.Name] = val.Field(i).Interface()
		}
	} else if val.Kind() == reflect.Map {
		for _, key := range val.MapKeys() {
			templateData[key.String()] = val.MapIndex(key).Interface()
		}
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, templateData)
	return buf.Bytes(), err
}
