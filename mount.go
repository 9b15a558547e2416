package widgetdemo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/livefir/widgetdemo/internal/metrics"
)

// Broadcaster allows stores to push redraws to connected clients without user interaction
type Broadcaster interface {
	Send() error // Re-renders the page and sends it to this connection
}

// BroadcastAware is implemented by stores that need server-initiated redraws,
// such as a progress indicator advancing on its own.
type BroadcastAware interface {
	OnConnect(ctx context.Context, b Broadcaster) error
	OnDisconnect()
}

// UpdateResponse wraps a redrawn page with metadata for form lifecycle
type UpdateResponse struct {
	HTML string            `json:"html"`
	Meta *ResponseMetadata `json:"meta,omitempty"`
}

// ResponseMetadata contains information about the action that generated the redraw
type ResponseMetadata struct {
	Success bool              `json:"success"` // true if no validation errors
	Errors  map[string]string `json:"errors"`  // field errors
	Action  string            `json:"action,omitempty"`
}

// broadcaster implements the Broadcaster interface for a single WebSocket connection.
// All writes to the connection go through it, gorilla connections allow a single writer.
type broadcaster struct {
	conn    *websocket.Conn
	state   *connState
	handler *liveHandler
	mu      sync.Mutex
}

func (b *broadcaster) Send() error {
	return b.send("")
}

// send renders and writes under one lock so redraws reach the client in the
// order they were rendered.
func (b *broadcaster) send(action string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	responseBytes, err := b.handler.redraw(b.state, action)
	if err != nil {
		return err
	}
	return writeUpdateWebSocket(b.conn, responseBytes)
}

// MountConfig configures the mount handler
type MountConfig struct {
	Template          *Template
	Stores            Stores
	IsSingleStore     bool
	Upgrader          *websocket.Upgrader
	SessionStore      SessionStore
	WebSocketDisabled bool
	ActionRate        rate.Limit // Actions per second per connection, 0 disables throttling
	ActionBurst       int
	MaxActionBytes    int64 // Upper bound on an action body, uploads included
	Collector         *metrics.Collector
	Verbose           bool
}

// MountOption is a functional option for configuring Mount/MountStores
type MountOption func(*MountConfig)

// WithActionRate limits how many actions a single connection may send per second.
func WithActionRate(perSecond float64, burst int) MountOption {
	return func(c *MountConfig) {
		c.ActionRate = rate.Limit(perSecond)
		c.ActionBurst = burst
	}
}

// WithMaxActionBytes bounds the size of one action message.
func WithMaxActionBytes(n int64) MountOption {
	return func(c *MountConfig) {
		c.MaxActionBytes = n
	}
}

// WithCollector records sessions, redraws and actions into c.
func WithCollector(c *metrics.Collector) MountOption {
	return func(mc *MountConfig) {
		mc.Collector = c
	}
}

// WithVerbose logs every action.
func WithVerbose(enabled bool) MountOption {
	return func(c *MountConfig) {
		c.Verbose = enabled
	}
}

const defaultMaxActionBytes = 8 << 20

func newMountConfig(tmpl *Template, stores Stores, single bool) MountConfig {
	return MountConfig{
		Template:          tmpl,
		Stores:            stores,
		IsSingleStore:     single,
		Upgrader:          tmpl.config.Upgrader,
		SessionStore:      tmpl.config.SessionStore,
		WebSocketDisabled: tmpl.config.WebSocketDisabled,
		MaxActionBytes:    defaultMaxActionBytes,
	}
}

// Mount creates an http.Handler that redraws the page after every action.
// For a single store, actions are plain names like "click".
func Mount(tmpl *Template, store Store, opts ...MountOption) http.Handler {
	config := newMountConfig(tmpl, Stores{"": store}, true)
	for _, opt := range opts {
		opt(&config)
	}
	return &liveHandler{config: config}
}

// MountStores creates an http.Handler for multiple named stores.
// Actions are prefixed with the store name, e.g. "basics.click".
func MountStores(tmpl *Template, stores Stores, opts ...MountOption) http.Handler {
	if len(stores) == 0 {
		panic("MountStores requires at least one store")
	}

	config := newMountConfig(tmpl, stores, false)
	for _, opt := range opts {
		opt(&config)
	}
	return &liveHandler{config: config}
}

// liveHandler handles both WebSocket and HTTP requests
type liveHandler struct {
	config MountConfig
}

// connState is the per-session (HTTP) or per-connection (WebSocket) state.
// mu serializes actions and redraws.
type connState struct {
	mu      sync.Mutex
	stores  Stores
	errors  map[string]string
	limiter *rate.Limiter
}

func (c *connState) setError(field, message string) {
	c.errors[field] = message
}

func (c *connState) clearErrors() {
	c.errors = make(map[string]string)
}

func (c *connState) copyErrors() map[string]string {
	result := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		result[k] = v
	}
	return result
}

func (h *liveHandler) newConnState() *connState {
	state := &connState{
		stores: h.cloneStores(),
		errors: make(map[string]string),
	}
	if h.config.ActionRate > 0 {
		state.limiter = rate.NewLimiter(h.config.ActionRate, h.config.ActionBurst)
	}
	return state
}

func (h *liveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.config.WebSocketDisabled {
		w.Header().Set("X-Widgetdemo-WebSocket", "disabled")
	} else {
		w.Header().Set("X-Widgetdemo-WebSocket", "enabled")
	}

	if websocket.IsWebSocketUpgrade(r) {
		if h.config.WebSocketDisabled {
			http.Error(w, "WebSocket is disabled on this endpoint", http.StatusBadRequest)
			return
		}
		h.handleWebSocket(w, r)
	} else {
		h.handleHTTP(w, r)
	}
}

func (h *liveHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.config.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.config.MaxActionBytes)

	if h.config.Verbose {
		log.Printf("Client connected from %s", conn.RemoteAddr())
	}
	if c := h.config.Collector; c != nil {
		c.IncrementConnectionOpened()
		defer c.IncrementConnectionClosed()
	}

	state := h.newConnState()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bc := &broadcaster{
		conn:    conn,
		state:   state,
		handler: h,
	}

	for _, store := range state.stores {
		if aware, ok := store.(BroadcastAware); ok {
			if err := aware.OnConnect(ctx, bc); err != nil {
				log.Printf("OnConnect failed for store: %v", err)
			}
			defer aware.OnDisconnect()
		}
	}

	if err := bc.send(""); err != nil {
		log.Printf("Failed to send initial page: %v", err)
		return
	}

	// message loop
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		msg, err := parseActionFromWebSocket(data)
		if err != nil {
			log.Printf("Failed to parse message: %v", err)
			continue
		}

		if state.limiter != nil && !state.limiter.Allow() {
			if c := h.config.Collector; c != nil {
				c.IncrementThrottled()
			}
			log.Printf("Dropping throttled action %q", msg.Action)
			continue
		}

		if err := h.handleAction(ctx, msg, state); err != nil {
			log.Printf("Action error: %v", err)
			continue
		}

		if err := bc.send(msg.Action); err != nil {
			log.Printf("WebSocket write failed: %v", err)
			break
		}
	}

	if h.config.Verbose {
		log.Printf("Client disconnected")
	}
}

func (h *liveHandler) handleHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		return
	}

	sessionID := getSessionID(r)
	var state *connState
	if sessionData := h.config.SessionStore.Get(sessionID); sessionData != nil {
		state = sessionData.(*connState)
	} else {
		state = h.newConnState()
		h.config.SessionStore.Set(sessionID, state)
		if c := h.config.Collector; c != nil {
			c.IncrementSessionCreated()
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	if r.Method == http.MethodGet {
		state.mu.Lock()
		page, err := h.render(state, "")
		state.mu.Unlock()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	msg, err := parseActionFromHTTP(w, r, h.config.MaxActionBytes)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if state.limiter != nil && !state.limiter.Allow() {
		if c := h.config.Collector; c != nil {
			c.IncrementThrottled()
		}
		http.Error(w, "Too many actions", http.StatusTooManyRequests)
		return
	}

	if err := h.handleAction(r.Context(), msg, state); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	responseBytes, err := h.redraw(state, msg.Action)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(responseBytes)
}

// render re-executes the page against the session's stores. Callers hold state.mu.
func (h *liveHandler) render(state *connState, action string) ([]byte, error) {
	page, err := h.config.Template.RenderAction(action, h.getTemplateData(state.stores), state.copyErrors())
	if c := h.config.Collector; c != nil {
		if err != nil {
			c.IncrementRenderError()
		} else {
			c.IncrementRedraw()
		}
	}
	return page, err
}

// redraw renders the page and wraps it into the JSON envelope sent to clients.
func (h *liveHandler) redraw(state *connState, action string) ([]byte, error) {
	state.mu.Lock()
	page, err := h.render(state, action)
	errs := state.copyErrors()
	state.mu.Unlock()
	if err != nil {
		return nil, err
	}

	response := UpdateResponse{
		HTML: string(page),
		Meta: &ResponseMetadata{
			Success: len(errs) == 0,
			Errors:  errs,
			Action:  action,
		},
	}

	responseBytes, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return responseBytes, nil
}

// handleAction routes the action to the correct store and captures errors.
// A returned error means the action could not be routed at all; errors from
// the store itself become field errors shown on the next redraw.
func (h *liveHandler) handleAction(ctx context.Context, msg message, state *connState) error {
	state.mu.Lock()
	defer state.mu.Unlock()

	state.clearErrors()

	storeName, action := parseAction(msg.Action)

	var store Store
	if h.config.IsSingleStore {
		if storeName != "" {
			return fmt.Errorf(
				"unexpected store prefix '%s' in single-store mode\n"+
					"Use action '%s' instead of '%s'",
				storeName, action, msg.Action)
		}
		store = state.stores[""]
	} else {
		if storeName == "" {
			return fmt.Errorf(
				"action '%s' missing store prefix in multi-store mode\n"+
					"Available stores: %v\n"+
					"Use format: 'storeName.action' (e.g., 'basics.click')",
				msg.Action, h.getStoreNames())
		}

		store = h.findStore(state.stores, storeName)
		if store == nil {
			return fmt.Errorf(
				"unknown store: '%s' in action '%s'\n"+
					"Available stores: %v",
				storeName, msg.Action, h.getStoreNames())
		}
	}

	// Every interaction re-runs the whole page, so single-redraw values reset.
	for _, s := range state.stores {
		if aware, ok := s.(RedrawAware); ok {
			aware.BeforeRedraw()
		}
	}

	if h.config.Verbose {
		log.Printf("Action %s", msg.Action)
	}

	actx := &ActionContext{
		Action: action,
		Data:   newActionData(msg.Data),
		ctx:    ctx,
	}

	err := store.Change(actx)
	if c := h.config.Collector; c != nil {
		c.IncrementAction()
		if err != nil {
			c.IncrementActionError()
		}
	}

	if err != nil {
		switch e := err.(type) {
		case FieldError:
			state.setError(e.Field, e.Message)
		case MultiError:
			for _, fieldErr := range e {
				state.setError(fieldErr.Field, fieldErr.Message)
			}
		default:
			state.setError(GeneralErrorField, err.Error())
		}
	}

	return nil
}

// findStore finds a store by name using case-insensitive matching
func (h *liveHandler) findStore(stores Stores, name string) Store {
	normalized := strings.ToLower(name)

	for storeName, store := range stores {
		if strings.ToLower(storeName) == normalized {
			return store
		}
	}

	return nil
}

// getTemplateData returns the data structure for template rendering
func (h *liveHandler) getTemplateData(stores Stores) interface{} {
	if h.config.IsSingleStore {
		return stores[""]
	}

	data := make(map[string]interface{})
	for name, store := range stores {
		data[name] = store
	}
	return data
}

// cloneStores creates new instances of all stores
func (h *liveHandler) cloneStores() Stores {
	cloned := make(Stores)
	for name, store := range h.config.Stores {
		cloned[name] = cloneStore(store)
	}
	return cloned
}

// cloneStore creates a new instance of a store. Exported fields are copied
// from the prototype, and Init() builds whatever is per session.
func cloneStore(store Store) Store {
	storeType := reflect.TypeOf(store)
	if storeType.Kind() == reflect.Ptr {
		storeType = storeType.Elem()
	}

	newStore := reflect.New(storeType).Interface().(Store)
	copyStruct(newStore, store)

	if initializer, ok := newStore.(StoreInitializer); ok {
		if err := initializer.Init(); err != nil {
			log.Printf("Warning: Store initialization failed: %v", err)
		}
	}

	return newStore
}

// copyStruct copies exported field values from src to dst
func copyStruct(dst, src interface{}) {
	srcVal := reflect.ValueOf(src)
	dstVal := reflect.ValueOf(dst)

	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}
	if dstVal.Kind() == reflect.Ptr {
		dstVal = dstVal.Elem()
	}

	for i := 0; i < srcVal.NumField(); i++ {
		dstField := dstVal.Field(i)
		if dstField.CanSet() {
			dstField.Set(srcVal.Field(i))
		}
	}
}

// getStoreNames returns the names of all stores
func (h *liveHandler) getStoreNames() []string {
	names := make([]string, 0, len(h.config.Stores))
	for name := range h.config.Stores {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// getSessionID extracts session ID from cookie or header
func getSessionID(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if sessionID := r.Header.Get("X-Widgetdemo-Session"); sessionID != "" {
		return sessionID
	}

	return newSessionID()
}
