package kernel

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/webdesk/webdesk/internal/infrastructure/logging"
	"github.com/webdesk/webdesk/internal/infrastructure/monitoring"
	"github.com/webdesk/webdesk/internal/shared/events"
	"github.com/webdesk/webdesk/internal/shared/id"
)

// registration is one kernel registry entry. The key map and the name map
// are always inserted and deleted together.
type registration struct {
	key       id.ModuleKey
	name      string
	module    Module
	available bool
	cancels   []func()
}

// Kernel is the registry of platform capability modules. Modules register
// under an opaque unique key; a name index supports human-readable lookup.
// A module whose dependency probe fails stays registered but unavailable,
// and every call into it fails fast.
type Kernel struct {
	mu    sync.RWMutex
	byKey map[id.ModuleKey]*registration
	keys  map[string]id.ModuleKey

	ready bool
	bus   *events.Bus

	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New constructs a kernel and registers the supplied modules. Dependency
// probes run concurrently; the kernel becomes ready once every registration
// attempt has completed, regardless of how many probes failed. Individual
// failures are logged and swallowed here; the module is simply
// unavailable.
func New(ctx context.Context, log *logging.Logger, modules ...Module) *Kernel {
	if log == nil {
		log = logging.NewNop()
	}
	k := &Kernel{
		byKey: make(map[id.ModuleKey]*registration),
		keys:  make(map[string]id.ModuleKey),
		bus:   events.NewBus(),
		log:   log,
	}

	var wg sync.WaitGroup
	for _, m := range modules {
		wg.Add(1)
		go func(m Module) {
			defer wg.Done()
			if err := k.RegisterModule(ctx, m); err != nil {
				k.log.Warn("module registration degraded",
					zap.String("module", m.Meta().Name),
					zap.Error(err),
				)
			}
		}(m)
	}
	wg.Wait()

	k.mu.Lock()
	k.ready = true
	k.mu.Unlock()
	k.bus.Emit(EventReady, nil)
	return k
}

// WithMetrics attaches a metrics collector.
func (k *Kernel) WithMetrics(metrics *monitoring.Metrics) *Kernel {
	k.metrics = metrics
	return k
}

// Events returns the kernel bus. Module events are re-broadcast here under
// their original topic, annotated with the module name.
func (k *Kernel) Events() *events.Bus { return k.bus }

// Ready reports whether construction-time registration has completed.
func (k *Kernel) Ready() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.ready
}

// RegisterModule adds a module to the registry. A duplicate name is
// rejected before any probing. The dependency probe's outcome decides
// availability but never registration: a failing module is kept, marked
// unavailable, and the probe error is returned to the caller.
func (k *Kernel) RegisterModule(ctx context.Context, m Module) error {
	name := m.Meta().Name
	if name == "" {
		return fmt.Errorf("kernel: module name must not be empty")
	}

	k.mu.Lock()
	if _, dup := k.keys[name]; dup {
		k.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrModuleRegistered, name)
	}
	key := id.NewModuleKey()
	reg := &registration{key: key, name: name, module: m}
	k.keys[name] = key
	k.byKey[key] = reg
	k.mu.Unlock()

	probeErr := m.EnsureDependencies(ctx)

	k.mu.Lock()
	reg.available = probeErr == nil
	for _, topic := range m.EventNames() {
		topic := topic
		cancel := m.Events().Subscribe(topic, func(ev events.Event) {
			detail := events.Detail{"module": name}
			for key, v := range ev.Detail {
				detail[key] = v
			}
			k.bus.Emit(topic, detail)
		})
		reg.cancels = append(reg.cancels, cancel)
	}
	k.mu.Unlock()

	if k.metrics != nil {
		k.metrics.ModulesRegistered.Inc()
	}

	if probeErr != nil {
		k.log.Warn("module dependencies unavailable",
			zap.String("module", name),
			zap.Error(probeErr),
		)
		return fmt.Errorf("kernel: module %q dependencies: %w", name, probeErr)
	}
	k.log.Info("module registered",
		zap.String("module", name),
		zap.String("key", key.String()),
		zap.String("version", m.Meta().Version),
	)
	return nil
}

// UnregisterModule removes both the name and key associations atomically
// and detaches the module's event forwarding.
func (k *Kernel) UnregisterModule(name string) error {
	k.mu.Lock()
	key, ok := k.keys[name]
	if !ok {
		k.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrModuleNotRegistered, name)
	}
	reg := k.byKey[key]
	delete(k.keys, name)
	delete(k.byKey, key)
	k.mu.Unlock()

	for _, cancel := range reg.cancels {
		cancel()
	}
	if k.metrics != nil {
		k.metrics.ModulesRegistered.Dec()
	}
	k.log.Info("module unregistered", zap.String("module", name))
	return nil
}

// CheckModuleIsRegistered reports whether the name is known.
func (k *Kernel) CheckModuleIsRegistered(name string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	_, ok := k.keys[name]
	return ok
}

// CheckModuleIsAvailable reports whether the module is registered and its
// dependency probe succeeded.
func (k *Kernel) CheckModuleIsAvailable(name string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	reg := k.lookupLocked(name)
	return reg != nil && reg.available
}

// CheckModuleIsReady reports whether the module finished its own
// initialization, independent of availability.
func (k *Kernel) CheckModuleIsReady(name string) bool {
	k.mu.RLock()
	reg := k.lookupLocked(name)
	k.mu.RUnlock()
	return reg != nil && reg.module.Ready()
}

// CallModuleFunction dispatches a named function on a registered, available
// module. Failures inside the module are re-wrapped with module and
// function context; a panicking module is contained the same way.
func (k *Kernel) CallModuleFunction(ctx context.Context, name, function string, args map[string]interface{}) (result map[string]interface{}, err error) {
	k.mu.RLock()
	reg := k.lookupLocked(name)
	k.mu.RUnlock()

	if reg == nil {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotRegistered, name)
	}
	if !reg.available {
		return nil, &ModuleError{Module: name, Function: function, Err: ErrModuleNotAvailable}
	}

	if k.metrics != nil {
		k.metrics.ModuleCalls.WithLabelValues(name, function).Inc()
	}

	defer func() {
		if r := recover(); r != nil {
			err = &ModuleError{Module: name, Function: function, Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil && k.metrics != nil {
			k.metrics.ModuleErrors.WithLabelValues(name, function).Inc()
		}
	}()

	result, callErr := reg.module.Call(ctx, function, args)
	if callErr != nil {
		return nil, &ModuleError{Module: name, Function: function, Err: callErr}
	}
	return result, nil
}

// ModuleInfo is the serializable view of a registration.
type ModuleInfo struct {
	Key       string   `json:"key"`
	Meta      Meta     `json:"meta"`
	Available bool     `json:"available"`
	Ready     bool     `json:"ready"`
	Events    []string `json:"events"`
}

// Modules returns a snapshot of every registration.
func (k *Kernel) Modules() []ModuleInfo {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make([]ModuleInfo, 0, len(k.byKey))
	for _, reg := range k.byKey {
		out = append(out, ModuleInfo{
			Key:       reg.key.String(),
			Meta:      reg.module.Meta(),
			Available: reg.available,
			Ready:     reg.module.Ready(),
			Events:    reg.module.EventNames(),
		})
	}
	return out
}

func (k *Kernel) lookupLocked(name string) *registration {
	key, ok := k.keys[name]
	if !ok {
		return nil
	}
	return k.byKey[key]
}
