package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector provides simple built-in metrics collection with no external dependencies
type Collector struct {
	applicationMetrics *ApplicationMetrics
	operationCounters  map[string]*int64
	mu                 sync.RWMutex
	startTime          time.Time
}

// ApplicationMetrics tracks host-level activity
type ApplicationMetrics struct {
	// Sessions and live connections
	SessionsCreated          int64 `json:"sessions_created"`
	ActiveConnections        int64 `json:"active_connections"`
	MaxConcurrentConnections int64 `json:"max_concurrent_connections"`

	// Redraws
	Redraws      int64 `json:"redraws"`
	RenderErrors int64 `json:"render_errors"`

	// Actions
	Actions          int64 `json:"actions"`
	ActionErrors     int64 `json:"action_errors"`
	ThrottledActions int64 `json:"throttled_actions"`

	// Uptime
	StartTime time.Time     `json:"start_time"`
	Uptime    time.Duration `json:"uptime"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		applicationMetrics: &ApplicationMetrics{
			StartTime: time.Now(),
		},
		operationCounters: make(map[string]*int64),
		startTime:         time.Now(),
	}
}

// IncrementSessionCreated records a new HTTP session
func (c *Collector) IncrementSessionCreated() {
	atomic.AddInt64(&c.applicationMetrics.SessionsCreated, 1)
}

// IncrementConnectionOpened records a new live connection
func (c *Collector) IncrementConnectionOpened() {
	currentActive := atomic.AddInt64(&c.applicationMetrics.ActiveConnections, 1)

	for {
		max := atomic.LoadInt64(&c.applicationMetrics.MaxConcurrentConnections)
		if currentActive <= max {
			break
		}
		if atomic.CompareAndSwapInt64(&c.applicationMetrics.MaxConcurrentConnections, max, currentActive) {
			break
		}
	}
}

// IncrementConnectionClosed records a closed live connection
func (c *Collector) IncrementConnectionClosed() {
	atomic.AddInt64(&c.applicationMetrics.ActiveConnections, -1)
}

// IncrementRedraw records a successful page re-execution
func (c *Collector) IncrementRedraw() {
	atomic.AddInt64(&c.applicationMetrics.Redraws, 1)
}

// IncrementRenderError records a failed page re-execution
func (c *Collector) IncrementRenderError() {
	atomic.AddInt64(&c.applicationMetrics.RenderErrors, 1)
}

// IncrementAction records an applied action
func (c *Collector) IncrementAction() {
	atomic.AddInt64(&c.applicationMetrics.Actions, 1)
}

// IncrementActionError records an action whose store returned an error
func (c *Collector) IncrementActionError() {
	atomic.AddInt64(&c.applicationMetrics.ActionErrors, 1)
}

// IncrementThrottled records an action dropped by the rate limiter
func (c *Collector) IncrementThrottled() {
	atomic.AddInt64(&c.applicationMetrics.ThrottledActions, 1)
}

// IncrementCustomCounter increments a custom named counter
func (c *Collector) IncrementCustomCounter(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, exists := c.operationCounters[name]; exists {
		atomic.AddInt64(counter, 1)
	} else {
		var newCounter int64 = 1
		c.operationCounters[name] = &newCounter
	}
}

// GetMetrics returns current application metrics
func (c *Collector) GetMetrics() ApplicationMetrics {
	c.mu.RLock()
	start := c.startTime
	c.mu.RUnlock()

	return ApplicationMetrics{
		SessionsCreated:          atomic.LoadInt64(&c.applicationMetrics.SessionsCreated),
		ActiveConnections:        atomic.LoadInt64(&c.applicationMetrics.ActiveConnections),
		MaxConcurrentConnections: atomic.LoadInt64(&c.applicationMetrics.MaxConcurrentConnections),
		Redraws:                  atomic.LoadInt64(&c.applicationMetrics.Redraws),
		RenderErrors:             atomic.LoadInt64(&c.applicationMetrics.RenderErrors),
		Actions:                  atomic.LoadInt64(&c.applicationMetrics.Actions),
		ActionErrors:             atomic.LoadInt64(&c.applicationMetrics.ActionErrors),
		ThrottledActions:         atomic.LoadInt64(&c.applicationMetrics.ThrottledActions),
		StartTime:                start,
		Uptime:                   time.Since(start),
	}
}

// GetCustomCounters returns all custom counters
func (c *Collector) GetCustomCounters() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]int64)
	for name, counter := range c.operationCounters {
		result[name] = atomic.LoadInt64(counter)
	}
	return result
}

// Reset resets all metrics to zero
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	atomic.StoreInt64(&c.applicationMetrics.SessionsCreated, 0)
	atomic.StoreInt64(&c.applicationMetrics.ActiveConnections, 0)
	atomic.StoreInt64(&c.applicationMetrics.MaxConcurrentConnections, 0)
	atomic.StoreInt64(&c.applicationMetrics.Redraws, 0)
	atomic.StoreInt64(&c.applicationMetrics.RenderErrors, 0)
	atomic.StoreInt64(&c.applicationMetrics.Actions, 0)
	atomic.StoreInt64(&c.applicationMetrics.ActionErrors, 0)
	atomic.StoreInt64(&c.applicationMetrics.ThrottledActions, 0)

	c.operationCounters = make(map[string]*int64)

	c.startTime = time.Now()
}

// GetErrorRate returns the share of actions that failed, in percent
func (c *Collector) GetErrorRate() float64 {
	actions := atomic.LoadInt64(&c.applicationMetrics.Actions)
	errors := atomic.LoadInt64(&c.applicationMetrics.ActionErrors)

	if actions == 0 {
		return 0.0
	}

	return float64(errors) / float64(actions) * 100.0
}

// Snapshot is the JSON document served on the metrics endpoint
type Snapshot struct {
	ApplicationMetrics
	ErrorRate      float64          `json:"error_rate"`
	CustomCounters map[string]int64 `json:"custom_counters"`
}

// Snapshot returns all metrics in one value
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		ApplicationMetrics: c.GetMetrics(),
		ErrorRate:          c.GetErrorRate(),
		CustomCounters:     c.GetCustomCounters(),
	}
}
