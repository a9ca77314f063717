// Package testhelpers provides shared test utilities for the safety
// service.
package testhelpers

import (
	"context"
	"sync"
	"time"

	"github.com/jonesrussell/companion-safety/internal/domain"
	"github.com/jonesrussell/companion-safety/internal/events"
)

// StubResolver returns a fixed location and counts calls.
type StubResolver struct {
	mu       sync.Mutex
	Location domain.Location
	Calls    int
}

// Resolve returns the configured location.
func (r *StubResolver) Resolve(_ context.Context) domain.Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	return r.Location
}

// CallCount returns how many times Resolve ran.
func (r *StubResolver) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Calls
}

// RecordingEmitter captures emitted events for assertions.
type RecordingEmitter struct {
	mu     sync.Mutex
	Events []events.Event
}

// Emit appends the event.
func (e *RecordingEmitter) Emit(_ context.Context, event events.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Events = append(e.Events, event)
}

// Names returns the emitted event names in order.
func (e *RecordingEmitter) Names() []events.Name {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]events.Name, len(e.Events))
	for i, event := range e.Events {
		names[i] = event.Name
	}
	return names
}

// Has reports whether an event with the given name was emitted.
func (e *RecordingEmitter) Has(name events.Name) bool {
	for _, n := range e.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// FakeClock is a controllable time source.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock starts a clock at the given instant.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StaticHasher hashes by prefixing, keeping test state readable.
type StaticHasher struct{}

// Hash returns a deterministic readable token.
func (StaticHasher) Hash(userID string) string {
	return "hashed:" + userID
}
