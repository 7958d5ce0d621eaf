package kernel

import (
	"context"
	"sync"

	"github.com/webdesk/webdesk/internal/shared/events"
)

// Module is one unit of optional platform capability. Dispatch is an
// explicit method-table lookup inside Call, never reflection: each module
// switches on the function name and rejects unknown ones with
// ErrUnknownFunction.
type Module interface {
	// Meta returns the immutable module metadata.
	Meta() Meta
	// Ready reports whether the module finished its own initialization.
	// Independent of dependency availability.
	Ready() bool
	// Events returns the module's bus. Emitted topics are re-broadcast on
	// the kernel under the same name.
	Events() *events.Bus
	// EventNames returns the declared event set, "ready" and "log"
	// included.
	EventNames() []string
	// EnsureDependencies probes the environment the module wraps.
	// Resolving means the capability is usable; an error marks the module
	// registered but unavailable.
	EnsureDependencies(ctx context.Context) error
	// Call invokes a named function with keyword arguments.
	Call(ctx context.Context, function string, args map[string]interface{}) (map[string]interface{}, error)
}

// Meta is the immutable identity of a module.
type Meta struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Date    string `json:"date"`
	Author  string `json:"author"`
}

// Pre-declared event names every module starts with.
const (
	EventReady = "ready"
	EventLog   = "log"
)

// BaseModule carries the metadata, readiness latch, and event registration
// shared by every module implementation. Embed it and implement
// EnsureDependencies and Call.
type BaseModule struct {
	meta Meta
	bus  *events.Bus

	mu     sync.Mutex
	ready  bool
	names  []string
	byName map[string]struct{}
}

// NewBaseModule creates the shared module core with "ready" and "log"
// pre-declared.
func NewBaseModule(meta Meta) *BaseModule {
	b := &BaseModule{
		meta:   meta,
		bus:    events.NewBus(),
		byName: make(map[string]struct{}),
	}
	b.names = []string{EventReady, EventLog}
	for _, n := range b.names {
		b.byName[n] = struct{}{}
	}
	return b
}

// Meta returns the immutable metadata.
func (b *BaseModule) Meta() Meta { return b.meta }

// Events returns the module bus.
func (b *BaseModule) Events() *events.Bus { return b.bus }

// Ready reports whether SetReady has been called.
func (b *BaseModule) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// SetReady latches the ready flag. Only the first call emits the ready
// event; later calls are ignored.
func (b *BaseModule) SetReady() {
	b.mu.Lock()
	if b.ready {
		b.mu.Unlock()
		return
	}
	b.ready = true
	b.mu.Unlock()
	b.bus.Emit(EventReady, events.Detail{"module": b.meta.Name})
}

// RegisterEvent declares an additional event name, unique within the
// module.
func (b *BaseModule) RegisterEvent(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.byName[name]; dup {
		return ErrEventRegistered
	}
	b.byName[name] = struct{}{}
	b.names = append(b.names, name)
	return nil
}

// EventNames returns the declared event names in registration order.
func (b *BaseModule) EventNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Log emits a log event on the module bus.
func (b *BaseModule) Log(message string) {
	b.bus.Emit(EventLog, events.Detail{"module": b.meta.Name, "message": message})
}
