// Package register stores desktop settings in a registry-style key tree.
//
// Keys are addressed by backslash-separated paths such as
// `Software\WebDesk\Desktop`; each key holds named, typed values and any
// number of subkeys. The tree can be seeded from a TOML file whose tables
// become keys and whose primitive entries become values.
package register

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/webdesk/webdesk/internal/infrastructure/logging"
	"github.com/webdesk/webdesk/internal/shared/events"
)

// Separator splits key paths.
const Separator = `\`

// EventChange is published on every mutation of the tree.
const EventChange = "change"

var (
	ErrInvalidPath  = errors.New("invalid key path")
	ErrKeyNotFound  = errors.New("key not found")
	ErrValueNotType = errors.New("value has a different type")
	ErrValueMissing = errors.New("value not found")
)

// Kind discriminates the stored value types.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	}
	return "unknown"
}

// Value is one typed entry under a key.
type Value struct {
	Kind  Kind        `json:"kind"`
	Value interface{} `json:"value"`
}

type key struct {
	subkeys map[string]*key
	values  map[string]Value
}

func newKey() *key {
	return &key{subkeys: make(map[string]*key), values: make(map[string]Value)}
}

// Manager owns the tree. All path operations are case-sensitive.
type Manager struct {
	mu   sync.RWMutex
	root *key

	bus *events.Bus
	log *logging.Logger
}

// NewManager creates an empty settings tree.
func NewManager(log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{root: newKey(), bus: events.NewBus(), log: log}
}

// Events returns the manager bus.
func (m *Manager) Events() *events.Bus { return m.bus }

func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	parts := strings.Split(path, Separator)
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return parts, nil
}

// CreateKey creates a key and any missing ancestors. Creating an existing
// key is a no-op.
func (m *Manager) CreateKey(path string) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	k := m.root
	created := false
	for _, part := range parts {
		sub, ok := k.subkeys[part]
		if !ok {
			sub = newKey()
			k.subkeys[part] = sub
			created = true
		}
		k = sub
	}
	m.mu.Unlock()
	if created {
		m.bus.Emit(EventChange, events.Detail{"action": "createKey", "path": path})
	}
	return nil
}

// DeleteKey removes a key and its whole subtree.
func (m *Manager) DeleteKey(path string) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return fmt.Errorf("%w: cannot delete the root", ErrInvalidPath)
	}
	m.mu.Lock()
	parent, err := m.resolve(parts[:len(parts)-1])
	if err != nil {
		m.mu.Unlock()
		return err
	}
	leaf := parts[len(parts)-1]
	if _, ok := parent.subkeys[leaf]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrKeyNotFound, path)
	}
	delete(parent.subkeys, leaf)
	m.mu.Unlock()
	m.bus.Emit(EventChange, events.Detail{"action": "deleteKey", "path": path})
	return nil
}

// HasKey reports whether a key exists.
func (m *Manager) HasKey(path string) bool {
	parts, err := splitPath(path)
	if err != nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err = m.resolve(parts)
	return err == nil
}

// Subkeys lists the direct child key names, sorted.
func (m *Manager) Subkeys(path string) ([]string, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	k, err := m.resolve(parts)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(k.subkeys))
	for name := range k.subkeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Values returns a snapshot of the named values under a key.
func (m *Manager) Values(path string) (map[string]Value, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	k, err := m.resolve(parts)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Value, len(k.values))
	for name, v := range k.values {
		out[name] = v
	}
	return out, nil
}

// SetString stores a string value, creating the key path as needed.
func (m *Manager) SetString(path, name, v string) error {
	return m.set(path, name, Value{Kind: KindString, Value: v})
}

// SetInt stores an integer value.
func (m *Manager) SetInt(path, name string, v int64) error {
	return m.set(path, name, Value{Kind: KindInt, Value: v})
}

// SetBool stores a boolean value.
func (m *Manager) SetBool(path, name string, v bool) error {
	return m.set(path, name, Value{Kind: KindBool, Value: v})
}

// SetFloat stores a float value.
func (m *Manager) SetFloat(path, name string, v float64) error {
	return m.set(path, name, Value{Kind: KindFloat, Value: v})
}

func (m *Manager) set(path, name string, v Value) error {
	if name == "" {
		return fmt.Errorf("%w: empty value name", ErrInvalidPath)
	}
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	k := m.root
	for _, part := range parts {
		sub, ok := k.subkeys[part]
		if !ok {
			sub = newKey()
			k.subkeys[part] = sub
		}
		k = sub
	}
	k.values[name] = v
	m.mu.Unlock()
	m.bus.Emit(EventChange, events.Detail{
		"action": "setValue", "path": path, "name": name, "kind": v.Kind.String(),
	})
	return nil
}

// GetString reads a string value.
func (m *Manager) GetString(path, name string) (string, error) {
	v, err := m.get(path, name, KindString)
	if err != nil {
		return "", err
	}
	return v.Value.(string), nil
}

// GetInt reads an integer value.
func (m *Manager) GetInt(path, name string) (int64, error) {
	v, err := m.get(path, name, KindInt)
	if err != nil {
		return 0, err
	}
	return v.Value.(int64), nil
}

// GetBool reads a boolean value.
func (m *Manager) GetBool(path, name string) (bool, error) {
	v, err := m.get(path, name, KindBool)
	if err != nil {
		return false, err
	}
	return v.Value.(bool), nil
}

// GetFloat reads a float value.
func (m *Manager) GetFloat(path, name string) (float64, error) {
	v, err := m.get(path, name, KindFloat)
	if err != nil {
		return 0, err
	}
	return v.Value.(float64), nil
}

func (m *Manager) get(path, name string, kind Kind) (Value, error) {
	parts, err := splitPath(path)
	if err != nil {
		return Value{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	k, err := m.resolve(parts)
	if err != nil {
		return Value{}, err
	}
	v, ok := k.values[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s\\%s", ErrValueMissing, path, name)
	}
	if v.Kind != kind {
		return Value{}, fmt.Errorf("%w: %s\\%s is %s, want %s", ErrValueNotType, path, name, v.Kind, kind)
	}
	return v, nil
}

// DeleteValue removes a named value from a key.
func (m *Manager) DeleteValue(path, name string) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	k, err := m.resolve(parts)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if _, ok := k.values[name]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s\\%s", ErrValueMissing, path, name)
	}
	delete(k.values, name)
	m.mu.Unlock()
	m.bus.Emit(EventChange, events.Detail{"action": "deleteValue", "path": path, "name": name})
	return nil
}

// resolve must run under mu.
func (m *Manager) resolve(parts []string) (*key, error) {
	k := m.root
	for i, part := range parts {
		sub, ok := k.subkeys[part]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, strings.Join(parts[:i+1], Separator))
		}
		k = sub
	}
	return k, nil
}

// LoadSeed merges a TOML file into the tree: tables become keys, primitive
// entries become values. Existing values are overwritten.
func (m *Manager) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	if err := m.LoadSeedBytes(data); err != nil {
		return err
	}
	m.log.Info("settings seeded", zap.String("file", path))
	return nil
}

// LoadSeedBytes merges TOML content into the tree.
func (m *Manager) LoadSeedBytes(data []byte) error {
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}
	return m.merge("", doc)
}

func (m *Manager) merge(path string, table map[string]interface{}) error {
	for name, raw := range table {
		switch v := raw.(type) {
		case map[string]interface{}:
			sub := name
			if path != "" {
				sub = path + Separator + name
			}
			if err := m.CreateKey(sub); err != nil {
				return err
			}
			if err := m.merge(sub, v); err != nil {
				return err
			}
		case string:
			if err := m.SetString(path, name, v); err != nil {
				return err
			}
		case int64:
			if err := m.SetInt(path, name, v); err != nil {
				return err
			}
		case bool:
			if err := m.SetBool(path, name, v); err != nil {
				return err
			}
		case float64:
			if err := m.SetFloat(path, name, v); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unsupported seed value %T at %s\\%s", ErrInvalidPath, raw, path, name)
		}
	}
	return nil
}
