// Package progress runs a fixed number of timed steps and reports each one,
// used to animate a progress bar.
package progress

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	DefaultSteps    = 100
	DefaultInterval = 20 * time.Millisecond
)

// ErrRunning is returned by Start when a run is already in progress.
var ErrRunning = errors.New("progress simulation already running")

// Simulation counts from 0 to Steps, sleeping Interval before each step.
type Simulation struct {
	Steps    int
	Interval time.Duration

	mu      sync.Mutex
	value   int
	running bool
	done    bool
}

// New returns a simulation, falling back to the defaults for non-positive values.
func New(steps int, interval time.Duration) *Simulation {
	if steps <= 0 {
		steps = DefaultSteps
	}
	if interval < 0 {
		interval = DefaultInterval
	}
	return &Simulation{Steps: steps, Interval: interval}
}

// State is a snapshot of a simulation.
type State struct {
	Value   int
	Max     int
	Running bool
	Done    bool
}

// Percent returns the value as a share of Max, 0-100.
func (s State) Percent() int {
	if s.Max == 0 {
		return 0
	}
	return s.Value * 100 / s.Max
}

// State returns the current snapshot.
func (s *Simulation) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Value: s.value, Max: s.Steps, Running: s.running, Done: s.done}
}

// Start marks the simulation running and resets it to zero.
func (s *Simulation) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrRunning
	}
	s.running = true
	s.done = false
	s.value = 0
	return nil
}

// Reset clears a finished run.
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		s.value = 0
		s.done = false
	}
}

// Run performs the steps of a run begun with Start. onStep is called after
// every step with the new value, outside the lock. onDone is called once the
// last step is done, while the simulation still reports Running. Run returns
// ctx.Err() if the context ends first; the value then stays where it stopped.
func (s *Simulation) Run(ctx context.Context, onStep func(value int), onDone func()) error {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	var timer *time.Timer
	if s.Interval > 0 {
		timer = time.NewTimer(s.Interval)
		defer timer.Stop()
	}

	for i := 0; i < s.Steps; i++ {
		if timer != nil {
			if i > 0 {
				timer.Reset(s.Interval)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.Lock()
		s.value = i + 1
		if s.value == s.Steps {
			s.done = true
		}
		value := s.value
		s.mu.Unlock()

		if onStep != nil {
			onStep(value)
		}
	}
	if onDone != nil {
		onDone()
	}
	return nil
}
