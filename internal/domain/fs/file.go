package fs

import (
	"sync"

	"github.com/webdesk/webdesk/internal/shared/events"
)

// File is a leaf node: named content plus attribute flags. A locked file
// rejects every mutation except Unlock with the matching password.
type File struct {
	mu sync.Mutex
	guard

	name     string
	content  string
	readonly bool
	hidden   bool
	system   bool

	parent Container
	bus    *events.Bus
}

// NewFile creates a detached file.
func NewFile(name string) (*File, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &File{name: name, bus: events.NewBus()}, nil
}

// Events returns the file's bus.
func (f *File) Events() *events.Bus { return f.bus }

func (f *File) Name() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.name
}

// Path derives the full path lazily from the parent chain: renaming an
// ancestor is instantly visible here without any propagation.
func (f *File) Path() string {
	f.mu.Lock()
	name, parent := f.name, f.parent
	f.mu.Unlock()
	if parent == nil {
		return name
	}
	return parent.Path() + name
}

// Parent returns the owning container, or nil when detached.
func (f *File) Parent() Container {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.parent
}

func (f *File) setParent(c Container) {
	f.mu.Lock()
	f.parent = c
	f.mu.Unlock()
}

func (f *File) hasParent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.parent != nil
}

func (f *File) Content() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.content
}

func (f *File) Readonly() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readonly
}

func (f *File) Hidden() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hidden
}

func (f *File) System() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.system
}

func (f *File) Locked() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locked
}

// SetName renames the file.
func (f *File) SetName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	f.mu.Lock()
	if err := f.ensureUnlocked(); err != nil {
		f.mu.Unlock()
		return err
	}
	f.name = name
	f.mu.Unlock()
	f.bus.Emit(EventChange, events.Detail{"action": "rename", "name": name})
	return nil
}

// SetContent replaces the file content. Read-only files refuse.
func (f *File) SetContent(content string) error {
	f.mu.Lock()
	if err := f.ensureUnlocked(); err != nil {
		f.mu.Unlock()
		return err
	}
	if f.readonly {
		f.mu.Unlock()
		return ErrReadonly
	}
	f.content = content
	name := f.name
	f.mu.Unlock()
	f.bus.Emit(EventChange, events.Detail{"action": "content", "name": name})
	return nil
}

// SetReadonly toggles the read-only flag.
func (f *File) SetReadonly(on bool) error {
	return f.setFlag("readonly", &f.readonly, on)
}

// SetHidden toggles the hidden flag.
func (f *File) SetHidden(on bool) error {
	return f.setFlag("hidden", &f.hidden, on)
}

// SetSystem toggles the system flag.
func (f *File) SetSystem(on bool) error {
	return f.setFlag("system", &f.system, on)
}

func (f *File) setFlag(field string, target *bool, on bool) error {
	f.mu.Lock()
	if err := f.ensureUnlocked(); err != nil {
		f.mu.Unlock()
		return err
	}
	*target = on
	name := f.name
	f.mu.Unlock()
	f.bus.Emit(EventChange, events.Detail{"action": field, "name": name, "value": on})
	return nil
}

// Lock password-protects the file against all mutation.
func (f *File) Lock(password string) error {
	f.mu.Lock()
	if err := f.lock(password); err != nil {
		f.mu.Unlock()
		return err
	}
	name := f.name
	f.mu.Unlock()
	f.bus.Emit(EventChange, events.Detail{"action": "lock", "name": name})
	return nil
}

// Unlock lifts the lock given the exact password it was set with.
func (f *File) Unlock(password string) error {
	f.mu.Lock()
	if err := f.unlock(password); err != nil {
		f.mu.Unlock()
		return err
	}
	name := f.name
	f.mu.Unlock()
	f.bus.Emit(EventChange, events.Detail{"action": "unlock", "name": name})
	return nil
}
