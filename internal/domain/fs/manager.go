package fs

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/webdesk/webdesk/internal/infrastructure/logging"
	"github.com/webdesk/webdesk/internal/infrastructure/monitoring"
	"github.com/webdesk/webdesk/internal/shared/events"
)

// Manager owns the mounted disks, one per drive letter. Letters are
// case-normalized to upper; a second mount on a taken letter is rejected.
type Manager struct {
	mu      sync.RWMutex
	disks   map[string]*Disk
	cancels map[string]func()

	bus     *events.Bus
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewManager creates an empty filesystem manager.
func NewManager(log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{
		disks:   make(map[string]*Disk),
		cancels: make(map[string]func()),
		bus:     events.NewBus(),
		log:     log,
	}
}

// WithMetrics attaches a metrics collector.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Events returns the manager bus. Every mounted disk's change events are
// re-broadcast here annotated with the disk letter.
func (m *Manager) Events() *events.Bus { return m.bus }

// CreateDisk creates and mounts a new disk in one step.
func (m *Manager) CreateDisk(letter, label string) (*Disk, error) {
	d, err := NewDisk(letter, label)
	if err != nil {
		return nil, err
	}
	if err := m.AddDisk(d); err != nil {
		return nil, err
	}
	return d, nil
}

// AddDisk mounts an existing disk under its letter.
func (m *Manager) AddDisk(d *Disk) error {
	letter := d.Letter()
	m.mu.Lock()
	if _, taken := m.disks[letter]; taken {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDiskExists, letter)
	}
	m.disks[letter] = d
	m.cancels[letter] = d.Events().Subscribe(EventChange, func(ev events.Event) {
		detail := events.Detail{"disk": letter}
		for k, v := range ev.Detail {
			detail[k] = v
		}
		m.bus.Emit(EventChange, detail)
		if m.metrics != nil {
			action, _ := ev.Detail["action"].(string)
			if action != "" {
				m.metrics.FilesystemOps.WithLabelValues(action).Inc()
			}
			if structural[action] {
				m.updateNodeGauge()
			}
		}
	})
	m.mu.Unlock()

	m.updateNodeGauge()
	m.log.Info("disk mounted", zap.String("letter", letter), zap.String("label", d.Label()))
	return nil
}

// Actions that change how many nodes exist. Deleting a folder drops its
// whole subtree in one event, so the gauge is recomputed rather than
// counted up and down.
var structural = map[string]bool{
	"addFile": true, "addFolder": true,
	"removeFile": true, "removeFolder": true,
	"deleteFile": true, "deleteFolder": true,
}

func (m *Manager) updateNodeGauge() {
	if m.metrics == nil {
		return
	}
	total := 0
	for _, d := range m.Disks() {
		total += countItems(d)
	}
	m.metrics.FilesystemNodes.Set(float64(total))
}

func countItems(c ItemContainer) int {
	n := 0
	for _, item := range c.Items() {
		n++
		if sub, ok := item.(*Folder); ok {
			n += countItems(sub)
		}
	}
	return n
}

// RemoveDisk unmounts the disk for a letter.
func (m *Manager) RemoveDisk(letter string) error {
	letter, err := NormalizeLetter(letter)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if _, ok := m.disks[letter]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDiskNotFound, letter)
	}
	cancel := m.cancels[letter]
	delete(m.disks, letter)
	delete(m.cancels, letter)
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.updateNodeGauge()
	m.log.Info("disk unmounted", zap.String("letter", letter))
	return nil
}

// Disk returns the disk mounted for a letter.
func (m *Manager) Disk(letter string) (*Disk, error) {
	letter, err := NormalizeLetter(letter)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.disks[letter]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDiskNotFound, letter)
	}
	return d, nil
}

// HasDisk reports whether a letter is mounted.
func (m *Manager) HasDisk(letter string) bool {
	letter, err := NormalizeLetter(letter)
	if err != nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.disks[letter]
	return ok
}

// Disks returns the mounted disks sorted by letter.
func (m *Manager) Disks() []*Disk {
	m.mu.RLock()
	letters := make([]string, 0, len(m.disks))
	for letter := range m.disks {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	out := make([]*Disk, 0, len(letters))
	for _, letter := range letters {
		out = append(out, m.disks[letter])
	}
	m.mu.RUnlock()
	return out
}
