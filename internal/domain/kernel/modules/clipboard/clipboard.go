// Package clipboard implements the clipboard kernel module: an in-memory
// multi-format clipboard with history.
package clipboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/webdesk/webdesk/internal/domain/kernel"
	"github.com/webdesk/webdesk/internal/shared/events"
)

// EventChange is emitted whenever clipboard content changes.
const EventChange = "change"

type entry struct {
	ID       uint64    `json:"id"`
	Data     string    `json:"data"`
	Format   string    `json:"format"`
	CopiedAt time.Time `json:"copiedAt"`
}

// Module is the clipboard capability.
type Module struct {
	*kernel.BaseModule

	mu      sync.Mutex
	entries []entry // newest first
	nextID  uint64
}

// New creates the clipboard module.
func New() *Module {
	m := &Module{
		BaseModule: kernel.NewBaseModule(kernel.Meta{
			Name:    "clipboard",
			Version: "1.2.0",
			Date:    "2025-11-04",
			Author:  "WebDesk Team",
		}),
		nextID: 1,
	}
	// RegisterEvent only fails on duplicates; "change" is declared once.
	_ = m.RegisterEvent(EventChange)
	return m
}

// EnsureDependencies always succeeds: the clipboard has no environment
// requirements beyond process memory.
func (m *Module) EnsureDependencies(ctx context.Context) error {
	m.SetReady()
	return nil
}

// Call dispatches a clipboard function by name.
func (m *Module) Call(ctx context.Context, function string, args map[string]interface{}) (map[string]interface{}, error) {
	switch function {
	case "copy":
		return m.copy(args)
	case "paste":
		return m.paste()
	case "history":
		return m.history(args)
	case "clear":
		return m.clear()
	case "stats":
		return m.stats()
	default:
		return nil, fmt.Errorf("%w: %q", kernel.ErrUnknownFunction, function)
	}
}

func (m *Module) copy(args map[string]interface{}) (map[string]interface{}, error) {
	data, ok := args["data"].(string)
	if !ok || data == "" {
		return nil, fmt.Errorf("clipboard: data argument required")
	}
	format := "text"
	if f, ok := args["format"].(string); ok && f != "" {
		format = f
	}

	m.mu.Lock()
	e := entry{ID: m.nextID, Data: data, Format: format, CopiedAt: time.Now()}
	m.nextID++
	m.entries = append([]entry{e}, m.entries...)
	m.mu.Unlock()

	m.Events().Emit(EventChange, events.Detail{"entryId": e.ID, "format": format})
	return map[string]interface{}{"copied": true, "entryId": e.ID, "format": format}, nil
}

func (m *Module) paste() (map[string]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return nil, fmt.Errorf("clipboard: empty")
	}
	e := m.entries[0]
	return map[string]interface{}{"data": e.Data, "format": e.Format, "entryId": e.ID}, nil
}

func (m *Module) history(args map[string]interface{}) (map[string]interface{}, error) {
	limit := 0
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	} else if l, ok := args["limit"].(int); ok {
		limit = l
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]entry, n)
	copy(out, m.entries[:n])
	return map[string]interface{}{"entries": out, "count": n}, nil
}

func (m *Module) clear() (map[string]interface{}, error) {
	m.mu.Lock()
	m.entries = nil
	m.mu.Unlock()
	m.Events().Emit(EventChange, events.Detail{"cleared": true})
	return map[string]interface{}{"cleared": true}, nil
}

func (m *Module) stats() (map[string]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	formats := make(map[string]int)
	for _, e := range m.entries {
		formats[e.Format]++
	}
	return map[string]interface{}{"entries": len(m.entries), "formats": formats}, nil
}
