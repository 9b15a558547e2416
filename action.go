package widgetdemo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

// message represents an action message from the client (internal protocol)
type message struct {
	Action string                 `json:"action"` // Action name with panel prefix, e.g. "basics.click"
	Data   map[string]interface{} `json:"data"`   // Widget values, data-* attributes, file payloads
}

// ActionData wraps action data with utilities for binding and validation
type ActionData struct {
	raw   map[string]interface{}
	bytes []byte // Cached JSON for efficient binding
}

// newActionData creates ActionData from a map (internal use only)
func newActionData(data map[string]interface{}) *ActionData {
	if data == nil {
		data = make(map[string]interface{})
	}
	return &ActionData{raw: data}
}

// Bind unmarshals the data into a struct
func (a *ActionData) Bind(v interface{}) error {
	if a.bytes == nil {
		var err error
		a.bytes, err = json.Marshal(a.raw)
		if err != nil {
			return fmt.Errorf("failed to marshal data: %w", err)
		}
	}

	return json.Unmarshal(a.bytes, v)
}

// BindAndValidate binds data to struct and validates it in one step
func (a *ActionData) BindAndValidate(v interface{}, validate *validator.Validate) error {
	if err := a.Bind(v); err != nil {
		return err
	}

	if err := validate.Struct(v); err != nil {
		return ValidationToMultiError(err)
	}

	return nil
}

// GetString extracts a string value
func (a *ActionData) GetString(key string) string {
	switch v := a.raw[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// GetInt extracts an int value. JSON numbers arrive as float64, while
// data-* attributes arrive as strings.
func (a *ActionData) GetInt(key string) int {
	switch v := a.raw[key].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n
		}
	}
	return 0
}

// GetFloat extracts a float64 value
func (a *ActionData) GetFloat(key string) float64 {
	switch v := a.raw[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f
		}
	}
	return 0
}

// GetBool extracts a bool value
func (a *ActionData) GetBool(key string) bool {
	switch v := a.raw[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// GetBytes decodes a base64 payload. Data URLs ("data:image/png;base64,...")
// are accepted and their header is dropped.
func (a *ActionData) GetBytes(key string) ([]byte, error) {
	s := a.GetString(key)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL in %q", key)
		}
		s = s[idx+1:]
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return b, nil
}

// Has checks if a key exists
func (a *ActionData) Has(key string) bool {
	_, exists := a.raw[key]
	return exists
}

// Get returns the raw value for a key
func (a *ActionData) Get(key string) interface{} {
	return a.raw[key]
}

// ActionContext provides context for a Change action
type ActionContext struct {
	Action string
	Data   *ActionData

	ctx context.Context
}

// NewActionContext builds an action as the handler would deliver it. It is
// mostly useful to drive a Store directly in tests.
func NewActionContext(ctx context.Context, action string, data map[string]interface{}) *ActionContext {
	return &ActionContext{
		Action: action,
		Data:   newActionData(data),
		ctx:    ctx,
	}
}

// Context returns the lifetime context of the connection that sent the
// action. For plain HTTP actions it is the request context.
func (c *ActionContext) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Bind is a convenience method that delegates to Data.Bind
func (c *ActionContext) Bind(v interface{}) error {
	return c.Data.Bind(v)
}

// BindAndValidate is a convenience method
func (c *ActionContext) BindAndValidate(v interface{}, validate *validator.Validate) error {
	return c.Data.BindAndValidate(v, validate)
}

// GetString is a convenience method
func (c *ActionContext) GetString(key string) string {
	return c.Data.GetString(key)
}

// GetInt is a convenience method
func (c *ActionContext) GetInt(key string) int {
	return c.Data.GetInt(key)
}

// GetFloat is a convenience method
func (c *ActionContext) GetFloat(key string) float64 {
	return c.Data.GetFloat(key)
}

// GetBool is a convenience method
func (c *ActionContext) GetBool(key string) bool {
	return c.Data.GetBool(key)
}

// Has is a convenience method
func (c *ActionContext) Has(key string) bool {
	return c.Data.Has(key)
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewFieldError creates a field-specific error
func NewFieldError(field string, err error) FieldError {
	return FieldError{Field: field, Message: err.Error()}
}

// MultiError is a collection of field errors (implements error interface)
type MultiError []FieldError

func (m MultiError) Error() string {
	if len(m) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidationToMultiError converts go-playground/validator errors to MultiError
func ValidationToMultiError(err error) MultiError {
	var fieldErrors MultiError

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fieldErrors
	}

	for _, e := range validationErrs {
		fieldName := strings.ToLower(e.Field())

		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", e.Field())
		case "min", "gte":
			if isNumericKind(e) {
				message = fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
			} else {
				message = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			}
		case "max", "lte":
			if isNumericKind(e) {
				message = fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
			} else {
				message = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
			}
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a date (%s)", e.Field(), e.Param())
		default:
			message = fmt.Sprintf("%s is invalid", e.Field())
		}

		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldName,
			Message: message,
		})
	}

	return fieldErrors
}

func isNumericKind(e validator.FieldError) bool {
	switch e.Value().(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// Store is any type that can handle state changes
type Store interface {
	Change(ctx *ActionContext) error
}

// StoreInitializer is an optional interface that stores can implement
// to perform initialization after being cloned for a new session.
type StoreInitializer interface {
	Init() error
}

// RedrawAware is implemented by stores holding values that only live for a
// single redraw, like a button that was just clicked. BeforeRedraw runs on
// every store of a session before any user action is applied.
type RedrawAware interface {
	BeforeRedraw()
}

// Stores is a map of named stores
type Stores map[string]Store

// parseAction splits "basics.click" into ("basics", "click")
// For single store actions like "click", returns ("", "click")
func parseAction(action string) (store string, actualAction string) {
	parts := strings.SplitN(action, ".", 2)

	if len(parts) == 2 {
		return parts[0], parts[1]
	}

	return "", parts[0]
}

// parseActionFromHTTP parses an action message from HTTP POST request body (internal protocol)
func parseActionFromHTTP(w http.ResponseWriter, r *http.Request, maxBytes int64) (message, error) {
	var msg message
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(body).Decode(&msg); err != nil {
		return message{}, fmt.Errorf("failed to parse action: %w", err)
	}

	if msg.Data == nil {
		msg.Data = make(map[string]interface{})
	}

	return msg, nil
}

// parseActionFromWebSocket parses an action message from WebSocket message bytes (internal protocol)
func parseActionFromWebSocket(data []byte) (message, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return message{}, fmt.Errorf("failed to parse action: %w", err)
	}

	if msg.Data == nil {
		msg.Data = make(map[string]interface{})
	}

	return msg, nil
}

// writeUpdateWebSocket writes a redraw to the WebSocket connection (internal protocol)
func writeUpdateWebSocket(conn *websocket.Conn, update []byte) error {
	return conn.WriteMessage(websocket.TextMessage, update)
}
