package window

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

// Manager-level event topics, in addition to re-broadcasts of every window
// event annotated with the window reference.
const (
	EventAdd    = "add"
	EventRemove = "remove"
)

// Manager owns the ordered collection of all windows. Index 0 is the
// topmost, active window. A window belongs to at most one manager at a
// time and appears at most once in the sequence.
type Manager struct {
	mu      sync.RWMutex
	windows []*Window
	cancels map[id.WindowHandle]func()

	bus     *events.Bus
	screen  Screen
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewManager creates an empty window manager for the given screen.
func NewManager(screen Screen, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{
		cancels: make(map[id.WindowHandle]func()),
		bus:     events.NewBus(),
		screen:  screen,
		log:     log,
	}
}

// WithMetrics attaches a metrics collector.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Events returns the manager's broadcast bus.
func (m *Manager) Events() *events.Bus { return m.bus }

// Screen returns the desktop work area.
func (m *Manager) Screen() Screen { return m.screen }

// CreateWindow builds a window of the variant named by opts.Type, assigns a
// fresh handle, and registers it at the front of the z-order.
func (m *Manager) CreateWindow(opts Options) (*Window, error) {
	w, err := newWindow(id.NewWindowHandle(), opts)
	if err != nil {
		return nil, err
	}
	if opts.Pos == PositionCenter {
		w.Center(m.screen)
	}
	if err := m.addWindow(w); err != nil {
		return nil, err
	}

	m.log.Debug("window created",
		zap.String("handle", w.Handle().String()),
		zap.String("name", w.Name()),
		zap.String("variant", string(w.Variant())),
	)
	if m.metrics != nil {
		m.metrics.WindowsCreated.Inc()
		m.metrics.WindowsOpen.Inc()
	}
	m.bus.Emit(EventAdd, events.Detail{"window": w, "handle": w.Handle().String()})
	return w, nil
}

// addWindow inserts a window at the front and wires the event forwarding
// that keeps the z-order in step with window-local events.
func (m *Manager) addWindow(w *Window) error {
	m.mu.Lock()
	if m.indexOfLocked(w) >= 0 {
		m.mu.Unlock()
		return ErrAlreadyManaged
	}
	if _, dup := m.cancels[w.Handle()]; dup {
		m.mu.Unlock()
		return fmt.Errorf("%w: duplicate handle %s", ErrAlreadyManaged, w.Handle())
	}
	m.windows = append([]*Window{w}, m.windows...)
	m.mu.Unlock()

	cancel := w.Events().SubscribeAll(func(ev events.Event) {
		m.dispatch(w, ev)
	})

	m.mu.Lock()
	m.cancels[w.Handle()] = cancel
	m.mu.Unlock()
	return nil
}

// dispatch handles one window-local event: adjust ordering where the topic
// demands it, re-broadcast annotated with the window, then detach closed
// windows.
func (m *Manager) dispatch(w *Window, ev events.Event) {
	switch ev.Topic {
	case EventShow, EventFocus, EventBringToFront:
		m.moveToFront(w)
	case EventSendToBack:
		m.moveToBack(w)
	case EventActivate:
		m.promote(w)
	}

	detail := events.Detail{"window": w, "handle": w.Handle().String()}
	for k, v := range ev.Detail {
		detail[k] = v
	}
	m.bus.Emit(ev.Topic, detail)

	if ev.Topic == EventClose {
		m.detach(w)
	}
}

// promote makes w the active window: the previous front window is
// deactivated first, then w moves to index 0 and its active element regains
// focus. Already-active windows are left untouched.
func (m *Manager) promote(w *Window) {
	m.mu.Lock()
	idx := m.indexOfLocked(w)
	if idx <= 0 {
		m.mu.Unlock()
		return
	}
	prev := m.windows[0]
	copy(m.windows[1:idx+1], m.windows[:idx])
	m.windows[0] = w
	m.mu.Unlock()

	prev.Deactivate()
	if el := w.ActiveElement(); el != "" {
		w.Focus()
	}
}

func (m *Manager) moveToFront(w *Window) {
	m.mu.Lock()
	idx := m.indexOfLocked(w)
	if idx > 0 {
		copy(m.windows[1:idx+1], m.windows[:idx])
		m.windows[0] = w
	}
	m.mu.Unlock()
}

func (m *Manager) moveToBack(w *Window) {
	m.mu.Lock()
	idx := m.indexOfLocked(w)
	last := len(m.windows) - 1
	if idx >= 0 && idx < last {
		copy(m.windows[idx:last], m.windows[idx+1:])
		m.windows[last] = w
	}
	m.mu.Unlock()
}

// detach removes a closed window from the collection. Guarded by
// membership so a double close cannot remove twice.
func (m *Manager) detach(w *Window) {
	m.mu.Lock()
	idx := m.indexOfLocked(w)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	m.windows = append(m.windows[:idx], m.windows[idx+1:]...)
	cancel := m.cancels[w.Handle()]
	delete(m.cancels, w.Handle())
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.log.Debug("window removed", zap.String("handle", w.Handle().String()))
	if m.metrics != nil {
		m.metrics.WindowsOpen.Dec()
	}
	m.bus.Emit(EventRemove, events.Detail{"window": w, "handle": w.Handle().String()})
}

func (m *Manager) indexOfLocked(w *Window) int {
	for i, cand := range m.windows {
		if cand == w {
			return i
		}
	}
	return -1
}

// Contains reports whether w is in the manager's collection.
func (m *Manager) Contains(w *Window) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexOfLocked(w) >= 0
}

// ActiveWindow returns the topmost window, or nil when the collection is
// empty.
func (m *Manager) ActiveWindow() *Window {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.windows) == 0 {
		return nil
	}
	return m.windows[0]
}

// Windows returns the z-ordered window sequence, front first.
func (m *Manager) Windows() []*Window {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Window, len(m.windows))
	copy(out, m.windows)
	return out
}

// Len returns the number of managed windows.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.windows)
}

// Activate makes w the active window. Rejected when w is not managed.
func (m *Manager) Activate(w *Window) error {
	if !m.Contains(w) {
		return ErrNotManaged
	}
	w.Activate()
	return nil
}

// BringToFront repositions w to index 0. Rejected when w is not managed.
func (m *Manager) BringToFront(w *Window) error {
	if !m.Contains(w) {
		return ErrNotManaged
	}
	w.BringToFront()
	return nil
}

// SendToBack repositions w to the end of the sequence. Rejected when w is
// not managed.
func (m *Manager) SendToBack(w *Window) error {
	if !m.Contains(w) {
		return ErrNotManaged
	}
	w.SendToBack()
	return nil
}

// CloseWindow closes w through its close query.
func (m *Manager) CloseWindow(ctx context.Context, w *Window) error {
	if !m.Contains(w) {
		return ErrNotManaged
	}
	return w.Close(ctx)
}

// DestroyWindow removes w unconditionally, bypassing its close query.
func (m *Manager) DestroyWindow(w *Window) error {
	if !m.Contains(w) {
		return ErrNotManaged
	}
	w.Destroy()
	return nil
}

// FindWindow looks a window up by handle. Pure lookup, no side effects.
func (m *Manager) FindWindow(handle id.WindowHandle) (*Window, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.windows {
		if w.Handle() == handle {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: handle %s", ErrNotFound, handle)
}

// FindWindowByName looks a window up by name.
func (m *Manager) FindWindowByName(name string) (*Window, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.windows {
		if w.Name() == name {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: name %q", ErrNotFound, name)
}

// FindWindowByClassname looks a window up by class name.
func (m *Manager) FindWindowByClassname(className string) (*Window, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.windows {
		if w.ClassName() == className {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: className %q", ErrNotFound, className)
}
