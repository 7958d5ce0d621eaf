// Package theme manages named desktop themes.
//
// A theme is a flat map of style variable names to values, served to
// clients that translate them into CSS custom properties. One theme is
// current at any time; applying another publishes a change event carrying
// the full variable set.
package theme

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/webdesk/webdesk/internal/infrastructure/logging"
	"github.com/webdesk/webdesk/internal/shared/events"
)

// EventChange is published when the current theme switches or a theme's
// variables change.
const EventChange = "change"

var (
	ErrThemeExists   = errors.New("theme already defined")
	ErrThemeNotFound = errors.New("theme not found")
	ErrThemeInUse    = errors.New("theme is current")
	ErrInvalidTheme  = errors.New("invalid theme")
)

// Theme is a named set of style variables.
type Theme struct {
	Name      string            `json:"name"`
	Variables map[string]string `json:"variables"`
}

func (t Theme) clone() Theme {
	vars := make(map[string]string, len(t.Variables))
	for k, v := range t.Variables {
		vars[k] = v
	}
	return Theme{Name: t.Name, Variables: vars}
}

// Manager holds the defined themes and the current selection.
type Manager struct {
	mu      sync.RWMutex
	themes  map[string]Theme
	current string

	bus *events.Bus
	log *logging.Logger
}

// NewManager creates a manager with no themes defined.
func NewManager(log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{themes: make(map[string]Theme), bus: events.NewBus(), log: log}
}

// Events returns the manager bus.
func (m *Manager) Events() *events.Bus { return m.bus }

// Define registers a new theme. The first defined theme becomes current.
func (m *Manager) Define(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTheme)
	}
	m.mu.Lock()
	if _, ok := m.themes[t.Name]; ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrThemeExists, t.Name)
	}
	m.themes[t.Name] = t.clone()
	first := m.current == ""
	if first {
		m.current = t.Name
	}
	m.mu.Unlock()

	if first {
		m.bus.Emit(EventChange, events.Detail{"action": "apply", "theme": t.Name})
	}
	return nil
}

// Redefine replaces an existing theme's variables. Redefining the current
// theme re-publishes it.
func (m *Manager) Redefine(t Theme) error {
	m.mu.Lock()
	if _, ok := m.themes[t.Name]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrThemeNotFound, t.Name)
	}
	m.themes[t.Name] = t.clone()
	isCurrent := m.current == t.Name
	m.mu.Unlock()

	if isCurrent {
		m.bus.Emit(EventChange, events.Detail{"action": "apply", "theme": t.Name})
	}
	return nil
}

// Remove deletes a theme. The current theme cannot be removed.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.themes[name]; !ok {
		return fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	if m.current == name {
		return fmt.Errorf("%w: %s", ErrThemeInUse, name)
	}
	delete(m.themes, name)
	return nil
}

// Apply makes a defined theme current and publishes the change.
func (m *Manager) Apply(name string) error {
	m.mu.Lock()
	if _, ok := m.themes[name]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	m.current = name
	m.mu.Unlock()

	m.bus.Emit(EventChange, events.Detail{"action": "apply", "theme": name})
	m.log.Info("theme applied", zap.String("theme", name))
	return nil
}

// Current returns a copy of the active theme.
func (m *Manager) Current() (Theme, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == "" {
		return Theme{}, fmt.Errorf("%w: no theme applied", ErrThemeNotFound)
	}
	return m.themes[m.current].clone(), nil
}

// Theme returns a copy of a defined theme.
func (m *Manager) Theme(name string) (Theme, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	return t.clone(), nil
}

// Names lists the defined theme names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.themes))
	for name := range m.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// seedFile is the TOML shape of a theme seed: one table per theme, each a
// flat map of variable names to string values.
type seedFile map[string]map[string]string

// LoadSeed defines every theme in a TOML file. Themes already defined with
// the same name are an error.
func (m *Manager) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read themes: %w", err)
	}
	if err := m.LoadSeedBytes(data); err != nil {
		return err
	}
	m.log.Info("themes seeded", zap.String("file", path))
	return nil
}

// LoadSeedBytes defines every theme in TOML content.
func (m *Manager) LoadSeedBytes(data []byte) error {
	var seed seedFile
	if err := toml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse themes: %w", err)
	}
	names := make([]string, 0, len(seed))
	for name := range seed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := m.Define(Theme{Name: name, Variables: seed[name]}); err != nil {
			return err
		}
	}
	return nil
}
