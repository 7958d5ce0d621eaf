package fs

import (
	"fmt"
	"sync"

	"github.com/webdesk/webdesk/internal/shared/events"
)

// Disk is the root container of one filesystem tree, addressed by a drive
// letter. It owns the top-level items and aggregates every descendant's
// change event purely by forwarding; the disk never inspects what changed.
type Disk struct {
	mu sync.Mutex
	children

	letter string
	label  string
	bus    *events.Bus
}

// NewDisk creates an empty disk. The letter is case-normalized to upper.
func NewDisk(letter, label string) (*Disk, error) {
	letter, err := NormalizeLetter(letter)
	if err != nil {
		return nil, err
	}
	if err := ValidateName(label); err != nil {
		return nil, err
	}
	return &Disk{letter: letter, label: label, children: newChildren(), bus: events.NewBus()}, nil
}

// NormalizeLetter upper-cases a drive letter and rejects anything that is
// not a single ASCII letter.
func NormalizeLetter(letter string) (string, error) {
	if len(letter) != 1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
	}
	c := letter[0]
	switch {
	case c >= 'A' && c <= 'Z':
		return string(c), nil
	case c >= 'a' && c <= 'z':
		return string(c - 'a' + 'A'), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
}

// Events returns the disk's bus.
func (d *Disk) Events() *events.Bus { return d.bus }

// Letter returns the upper-cased drive letter.
func (d *Disk) Letter() string { return d.letter }

// Path returns the drive-letter-style root, e.g. `C:\`.
func (d *Disk) Path() string { return d.letter + ":" + Separator }

func (d *Disk) Label() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.label
}

// SetLabel renames the disk.
func (d *Disk) SetLabel(label string) error {
	if err := ValidateName(label); err != nil {
		return err
	}
	d.mu.Lock()
	d.label = label
	d.mu.Unlock()
	d.bus.Emit(EventChange, events.Detail{"action": "relabel", "label": label})
	return nil
}

// Items returns the ordered top-level item list.
func (d *Disk) Items() []Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

// HasFile reports whether a top-level file has exactly this name.
func (d *Disk) HasFile(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasFile(name)
}

// HasFolder reports whether a top-level folder has exactly this name.
func (d *Disk) HasFolder(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasFolder(name)
}

// File returns the named top-level file.
func (d *Disk) File(name string) (*File, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f := d.fileByName(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: file %q", ErrNotFound, name)
}

// Folder returns the named top-level folder.
func (d *Disk) Folder(name string) (*Folder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f := d.folderByName(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: folder %q", ErrNotFound, name)
}

// CreateFile creates and inserts a top-level file in one atomic step.
func (d *Disk) CreateFile(name, content string) (*File, error) {
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

// CreateFolder creates and inserts a top-level folder in one atomic step.
func (d *Disk) CreateFolder(name string) (*Folder, error) {
	sub, err := NewFolder(name)
	if err != nil {
		return nil, err
	}
	if err := d.AddFolder(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// AddFile inserts an existing detached file at the top level.
func (d *Disk) AddFile(f *File) error {
	if f.hasParent() {
		return ErrHasParent
	}
	d.mu.Lock()
	if d.hasFile(f.Name()) {
		d.mu.Unlock()
		return fmt.Errorf("%w: file %q", ErrExists, f.Name())
	}
	d.attach(d, d.bus, f)
	d.mu.Unlock()
	d.bus.Emit(EventChange, events.Detail{"action": "addFile", "name": f.Name()})
	return nil
}

// AddFolder inserts an existing detached folder at the top level.
func (d *Disk) AddFolder(sub *Folder) error {
	if sub.hasParent() {
		return ErrHasParent
	}
	d.mu.Lock()
	if d.hasFolder(sub.Name()) {
		d.mu.Unlock()
		return fmt.Errorf("%w: folder %q", ErrExists, sub.Name())
	}
	d.attach(d, d.bus, sub)
	d.mu.Unlock()
	d.bus.Emit(EventChange, events.Detail{"action": "addFolder", "name": sub.Name()})
	return nil
}

// RemoveFile detaches a top-level file without destroying it.
func (d *Disk) RemoveFile(f *File) error {
	return d.remove(f, "removeFile")
}

// RemoveFolder detaches a top-level folder without destroying it.
func (d *Disk) RemoveFolder(sub *Folder) error {
	return d.remove(sub, "removeFolder")
}

// DeleteFile removes the named top-level file.
func (d *Disk) DeleteFile(name string) error {
	d.mu.Lock()
	f := d.fileByName(name)
	d.mu.Unlock()
	if f == nil {
		return fmt.Errorf("%w: file %q", ErrNotFound, name)
	}
	return d.remove(f, "deleteFile")
}

// DeleteFolder removes the named top-level folder.
func (d *Disk) DeleteFolder(name string) error {
	d.mu.Lock()
	sub := d.folderByName(name)
	d.mu.Unlock()
	if sub == nil {
		return fmt.Errorf("%w: folder %q", ErrNotFound, name)
	}
	return d.remove(sub, "deleteFolder")
}

func (d *Disk) remove(n Node, action string) error {
	name := n.Name()
	d.mu.Lock()
	ok := d.detach(n)
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	d.bus.Emit(EventChange, events.Detail{"action": action, "name": name})
	return nil
}
