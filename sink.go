package venue

import (
	"sync"

	"github.com/openvenue/venue-core/record"
)

// EventSink receives settlement events fanned out by the Relay.
//
// Implementations must either process events synchronously before returning
// or copy them; the relay reuses its buffer slots after Publish returns.
type EventSink interface {
	Publish(...record.Event)
}

// MemoryEventSink stores events in memory, useful for testing.
type MemoryEventSink struct {
	mu     sync.RWMutex
	events []record.Event
}

// NewMemoryEventSink creates a new MemoryEventSink.
func NewMemoryEventSink() *MemoryEventSink {
	return &MemoryEventSink{}
}

// Publish appends events to the in-memory slice.
func (m *MemoryEventSink) Publish(events ...record.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
}

// Count returns the number of events stored.
func (m *MemoryEventSink) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

// Get returns the event at the specified index.
func (m *MemoryEventSink) Get(index int) record.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events[index]
}

// Events returns a copy of all events stored.
func (m *MemoryEventSink) Events() []record.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]record.Event, len(m.events))
	copy(out, m.events)
	return out
}

// DiscardEventSink drops all events, useful for benchmarking.
type DiscardEventSink struct{}

// Publish does nothing.
func (DiscardEventSink) Publish(...record.Event) {}
