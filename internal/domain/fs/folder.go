package fs

import (
	"fmt"
	"sync"

	"github.com/webdesk/webdesk/internal/shared/events"
)

// Folder is a branch node owning an ordered, mixed list of files and
// folders. Within one folder no two files share a name and no two folders
// share a name; the check and the insert run under the same lock, so two
// concurrent creators cannot both win.
type Folder struct {
	mu sync.Mutex
	guard
	children

	name   string
	hidden bool
	system bool

	parent Container
	bus    *events.Bus
}

// NewFolder creates a detached folder.
func NewFolder(name string) (*Folder, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &Folder{name: name, children: newChildren(), bus: events.NewBus()}, nil
}

// Events returns the folder's bus. Change events of every descendant
// resurface here.
func (d *Folder) Events() *events.Bus { return d.bus }

func (d *Folder) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}

// Path derives the folder path lazily, with a trailing separator.
func (d *Folder) Path() string {
	d.mu.Lock()
	name, parent := d.name, d.parent
	d.mu.Unlock()
	if parent == nil {
		return name + Separator
	}
	return parent.Path() + name + Separator
}

// Parent returns the owning container, or nil when detached.
func (d *Folder) Parent() Container {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.parent
}

func (d *Folder) setParent(c Container) {
	d.mu.Lock()
	d.parent = c
	d.mu.Unlock()
}

func (d *Folder) hasParent() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.parent != nil
}

func (d *Folder) Hidden() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hidden
}

func (d *Folder) System() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.system
}

func (d *Folder) Locked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.locked
}

// Items returns the ordered child list.
func (d *Folder) Items() []Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

// HasFile reports whether a direct child file has exactly this name.
func (d *Folder) HasFile(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasFile(name)
}

// HasFolder reports whether a direct child folder has exactly this name.
func (d *Folder) HasFolder(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasFolder(name)
}

// File returns the named child file.
func (d *Folder) File(name string) (*File, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f := d.fileByName(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: file %q", ErrNotFound, name)
}

// Folder returns the named child folder.
func (d *Folder) Folder(name string) (*Folder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f := d.folderByName(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: folder %q", ErrNotFound, name)
}

// SetName renames the folder. Descendant paths change implicitly because
// paths are derived, not stored.
func (d *Folder) SetName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	d.mu.Lock()
	if err := d.ensureUnlocked(); err != nil {
		d.mu.Unlock()
		return err
	}
	d.name = name
	d.mu.Unlock()
	d.bus.Emit(EventChange, events.Detail{"action": "rename", "name": name})
	return nil
}

// SetHidden toggles the hidden flag.
func (d *Folder) SetHidden(on bool) error {
	return d.setFlag("hidden", &d.hidden, on)
}

// SetSystem toggles the system flag.
func (d *Folder) SetSystem(on bool) error {
	return d.setFlag("system", &d.system, on)
}

func (d *Folder) setFlag(field string, target *bool, on bool) error {
	d.mu.Lock()
	if err := d.ensureUnlocked(); err != nil {
		d.mu.Unlock()
		return err
	}
	*target = on
	name := d.name
	d.mu.Unlock()
	d.bus.Emit(EventChange, events.Detail{"action": field, "name": name, "value": on})
	return nil
}

// Lock password-protects the folder against all mutation.
func (d *Folder) Lock(password string) error {
	d.mu.Lock()
	if err := d.lock(password); err != nil {
		d.mu.Unlock()
		return err
	}
	name := d.name
	d.mu.Unlock()
	d.bus.Emit(EventChange, events.Detail{"action": "lock", "name": name})
	return nil
}

// Unlock lifts the lock given the exact password it was set with.
func (d *Folder) Unlock(password string) error {
	d.mu.Lock()
	if err := d.unlock(password); err != nil {
		d.mu.Unlock()
		return err
	}
	name := d.name
	d.mu.Unlock()
	d.bus.Emit(EventChange, events.Detail{"action": "unlock", "name": name})
	return nil
}

// CreateFile creates and inserts a new file in one atomic step.
func (d *Folder) CreateFile(name, content string) (*File, error) {
	f, err := NewFile(name)
	if err != nil {
		return nil, err
	}
	f.content = content
	if err := d.AddFile(f); err != nil {
		return nil, err
	}
	return f, nil
}

// CreateFolder creates and inserts a new subfolder in one atomic step.
func (d *Folder) CreateFolder(name string) (*Folder, error) {
	sub, err := NewFolder(name)
	if err != nil {
		return nil, err
	}
	if err := d.AddFolder(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// AddFile inserts an existing detached file.
func (d *Folder) AddFile(f *File) error {
	if f.hasParent() {
		return ErrHasParent
	}
	d.mu.Lock()
	if err := d.ensureUnlocked(); err != nil {
		d.mu.Unlock()
		return err
	}
	if d.hasFile(f.Name()) {
		d.mu.Unlock()
		return fmt.Errorf("%w: file %q", ErrExists, f.Name())
	}
	d.attach(d, d.bus, f)
	d.mu.Unlock()
	d.bus.Emit(EventChange, events.Detail{"action": "addFile", "name": f.Name()})
	return nil
}

// AddFolder inserts an existing detached folder.
func (d *Folder) AddFolder(sub *Folder) error {
	if sub.hasParent() {
		return ErrHasParent
	}
	d.mu.Lock()
	if err := d.ensureUnlocked(); err != nil {
		d.mu.Unlock()
		return err
	}
	if d.hasFolder(sub.Name()) {
		d.mu.Unlock()
		return fmt.Errorf("%w: folder %q", ErrExists, sub.Name())
	}
	d.attach(d, d.bus, sub)
	d.mu.Unlock()
	d.bus.Emit(EventChange, events.Detail{"action": "addFolder", "name": sub.Name()})
	return nil
}

// RemoveFile detaches a specific child file without destroying it.
func (d *Folder) RemoveFile(f *File) error {
	return d.remove(f, "removeFile")
}

// RemoveFolder detaches a specific child folder without destroying it.
func (d *Folder) RemoveFolder(sub *Folder) error {
	return d.remove(sub, "removeFolder")
}

// DeleteFile removes the named child file.
func (d *Folder) DeleteFile(name string) error {
	d.mu.Lock()
	f := d.fileByName(name)
	d.mu.Unlock()
	if f == nil {
		return fmt.Errorf("%w: file %q", ErrNotFound, name)
	}
	return d.remove(f, "deleteFile")
}

// DeleteFolder removes the named child folder.
func (d *Folder) DeleteFolder(name string) error {
	d.mu.Lock()
	sub := d.folderByName(name)
	d.mu.Unlock()
	if sub == nil {
		return fmt.Errorf("%w: folder %q", ErrNotFound, name)
	}
	return d.remove(sub, "deleteFolder")
}

func (d *Folder) remove(n Node, action string) error {
	name := n.Name()
	d.mu.Lock()
	if err := d.ensureUnlocked(); err != nil {
		d.mu.Unlock()
		return err
	}
	ok := d.detach(n)
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	d.bus.Emit(EventChange, events.Detail{"action": action, "name": name})
	return nil
}
