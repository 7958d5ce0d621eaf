// Package permission gates window access to kernel module functions.
package permission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/webdesk/webdesk/internal/infrastructure/logging"
	"github.com/webdesk/webdesk/internal/shared/events"
	"github.com/webdesk/webdesk/internal/shared/id"
)

var (
	// ErrDenied means the grant was refused, either by an earlier revocation
	// or by the request callback.
	ErrDenied = errors.New("permission denied")

	// ErrNoRequester means no callback is installed to decide new requests.
	ErrNoRequester = errors.New("no permission requester installed")
)

// Event topics published on the manager bus.
const (
	EventGrant  = "grant"
	EventRevoke = "revoke"
)

// Requester decides an unanswered permission request, typically by
// prompting the user. Returning false denies without error.
type Requester func(ctx context.Context, handle id.WindowHandle, module, function string) (bool, error)

// AllowAll is a Requester that grants every request.
func AllowAll() Requester {
	return func(context.Context, id.WindowHandle, string, string) (bool, error) {
		return true, nil
	}
}

// DenyAll is a Requester that refuses every request. Access then happens
// only through explicit Allow grants.
func DenyAll() Requester {
	return func(context.Context, id.WindowHandle, string, string) (bool, error) {
		return false, nil
	}
}

// Grant records one decision about one window calling one module function.
type Grant struct {
	Handle    id.WindowHandle `json:"handle"`
	Module    string          `json:"module"`
	Function  string          `json:"function"`
	Granted   bool            `json:"granted"`
	GrantedAt time.Time       `json:"grantedAt,omitempty"`
	RevokedAt time.Time       `json:"revokedAt,omitempty"`
}

// Manager is the ACL for kernel access. Decisions are keyed by window
// handle, module name and function name; an unasked combination is decided
// by the installed Requester and the answer is remembered.
type Manager struct {
	mu     sync.RWMutex
	grants map[id.WindowHandle]map[string]map[string]*Grant

	requester Requester
	bus       *events.Bus
	log       *logging.Logger
}

// NewManager creates an empty permission manager. With no requester
// installed every unanswered request fails with ErrNoRequester.
func NewManager(log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{
		grants: make(map[id.WindowHandle]map[string]map[string]*Grant),
		bus:    events.NewBus(),
		log:    log,
	}
}

// Events returns the manager bus.
func (m *Manager) Events() *events.Bus { return m.bus }

// SetRequester installs the callback that decides new requests.
func (m *Manager) SetRequester(r Requester) {
	m.mu.Lock()
	m.requester = r
	m.mu.Unlock()
}

// Check reports the recorded decision, or false when none exists. It never
// triggers the requester.
func (m *Manager) Check(handle id.WindowHandle, module, function string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g := m.lookup(handle, module, function)
	return g != nil && g.Granted
}

// Request returns the recorded decision, or asks the requester and records
// the answer. A denial is remembered too: the requester runs at most once
// per combination until the grant is revoked or reset.
func (m *Manager) Request(ctx context.Context, handle id.WindowHandle, module, function string) (bool, error) {
	m.mu.RLock()
	g := m.lookup(handle, module, function)
	requester := m.requester
	m.mu.RUnlock()

	if g != nil {
		if g.Granted {
			return true, nil
		}
		return false, fmt.Errorf("%w: %s.%s", ErrDenied, module, function)
	}
	if requester == nil {
		return false, ErrNoRequester
	}

	granted, err := requester(ctx, handle, module, function)
	if err != nil {
		return false, err
	}
	m.record(handle, module, function, granted)
	if granted {
		return true, nil
	}
	return false, fmt.Errorf("%w: %s.%s", ErrDenied, module, function)
}

// Allow records an affirmative grant without consulting the requester.
func (m *Manager) Allow(handle id.WindowHandle, module, function string) {
	m.record(handle, module, function, true)
}

// Deny records a negative grant without consulting the requester.
func (m *Manager) Deny(handle id.WindowHandle, module, function string) {
	m.record(handle, module, function, false)
}

// Revoke turns an existing grant negative and stamps the revocation time.
// Revoking an unknown combination is a no-op.
func (m *Manager) Revoke(handle id.WindowHandle, module, function string) {
	m.mu.Lock()
	g := m.lookup(handle, module, function)
	if g == nil || !g.Granted {
		m.mu.Unlock()
		return
	}
	g.Granted = false
	g.RevokedAt = time.Now()
	m.mu.Unlock()

	m.bus.Emit(EventRevoke, events.Detail{
		"handle": handle.String(), "module": module, "function": function,
	})
	m.log.Info("permission revoked",
		zap.String("handle", handle.String()),
		zap.String("module", module),
		zap.String("function", function))
}

// RevokeAll revokes every active grant held by a window, typically on
// window close.
func (m *Manager) RevokeAll(handle id.WindowHandle) {
	now := time.Now()
	var revoked []*Grant
	m.mu.Lock()
	for _, funcs := range m.grants[handle] {
		for _, g := range funcs {
			if g.Granted {
				g.Granted = false
				g.RevokedAt = now
				revoked = append(revoked, g)
			}
		}
	}
	m.mu.Unlock()

	for _, g := range revoked {
		m.bus.Emit(EventRevoke, events.Detail{
			"handle": handle.String(), "module": g.Module, "function": g.Function,
		})
	}
	if len(revoked) > 0 {
		m.log.Info("all permissions revoked",
			zap.String("handle", handle.String()),
			zap.Int("count", len(revoked)))
	}
}

// Forget drops every record for a window, granted or denied, so future
// requests go back through the requester.
func (m *Manager) Forget(handle id.WindowHandle) {
	m.mu.Lock()
	delete(m.grants, handle)
	m.mu.Unlock()
}

// Grants returns a snapshot of every record for a window.
func (m *Manager) Grants(handle id.WindowHandle) []Grant {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Grant
	for _, funcs := range m.grants[handle] {
		for _, g := range funcs {
			out = append(out, *g)
		}
	}
	return out
}

func (m *Manager) record(handle id.WindowHandle, module, function string, granted bool) {
	m.mu.Lock()
	mods, ok := m.grants[handle]
	if !ok {
		mods = make(map[string]map[string]*Grant)
		m.grants[handle] = mods
	}
	funcs, ok := mods[module]
	if !ok {
		funcs = make(map[string]*Grant)
		mods[module] = funcs
	}
	g, ok := funcs[function]
	if !ok {
		g = &Grant{Handle: handle, Module: module, Function: function}
		funcs[function] = g
	}
	g.Granted = granted
	if granted {
		g.GrantedAt = time.Now()
		g.RevokedAt = time.Time{}
	} else {
		g.RevokedAt = time.Now()
	}
	m.mu.Unlock()

	topic := EventGrant
	if !granted {
		topic = EventRevoke
	}
	m.bus.Emit(topic, events.Detail{
		"handle": handle.String(), "module": module, "function": function,
	})
	m.log.Debug("permission recorded",
		zap.String("handle", handle.String()),
		zap.String("module", module),
		zap.String("function", function),
		zap.Bool("granted", granted))
}

// lookup must run under mu.
func (m *Manager) lookup(handle id.WindowHandle, module, function string) *Grant {
	if mods, ok := m.grants[handle]; ok {
		if funcs, ok := mods[module]; ok {
			return funcs[function]
		}
	}
	return nil
}
