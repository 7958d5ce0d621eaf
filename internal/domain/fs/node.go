// Package fs implements the in-memory filesystem tree: disks own folders
// and files, names are unique per kind within a container, and every
// structural change surfaces at the disk root through event forwarding.
package fs

import (
	"fmt"
	"strings"

	"github.com/webdesk/webdesk/internal/shared/events"
)

// Separator joins path segments, drive-letter style.
const Separator = `\`

// EventChange is the single topic filesystem nodes publish. Child change
// events are re-emitted verbatim by the parent, so a subscription at the
// disk sees every change in the subtree.
const EventChange = "change"

// MaxNameLen bounds names and labels.
const MaxNameLen = 255

const forbiddenRunes = `\/:*?"<>|`

// ValidateName rejects empty names, names over MaxNameLen runes, and names
// containing a path-reserved character. Violations are errors, never
// silently sanitized.
func ValidateName(name string) error {
	if name == "" || len([]rune(name)) > MaxNameLen {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, forbiddenRunes) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" || len(password) > MaxNameLen {
		return ErrInvalidPassword
	}
	return nil
}

// Node is a member of a container's item list: a *File or a *Folder.
type Node interface {
	Name() string
	Path() string
	Events() *events.Bus
	Parent() Container

	setParent(Container)
	hasParent() bool
}

// Container is anything that can own nodes: a *Folder or a *Disk.
type Container interface {
	Path() string
}

// ItemContainer is the shared item surface of *Disk and *Folder, for
// callers that operate on either.
type ItemContainer interface {
	Container
	Items() []Node
	HasFile(name string) bool
	HasFolder(name string) bool
	File(name string) (*File, error)
	Folder(name string) (*Folder, error)
	CreateFile(name, content string) (*File, error)
	CreateFolder(name string) (*Folder, error)
	AddFile(f *File) error
	AddFolder(sub *Folder) error
	RemoveFile(f *File) error
	RemoveFolder(sub *Folder) error
	DeleteFile(name string) error
	DeleteFolder(name string) error
	Find(pattern string) ([]string, error)
}

// guard is the single enforcement point for the locked invariant. Every
// mutating operation on a File or Folder calls ensureUnlocked before
// touching state.
type guard struct {
	locked   bool
	password string
}

func (g *guard) ensureUnlocked() error {
	if g.locked {
		return ErrLocked
	}
	return nil
}

func (g *guard) lock(password string) error {
	if g.locked {
		return ErrLocked
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	g.locked = true
	g.password = password
	return nil
}

func (g *guard) unlock(password string) error {
	if !g.locked {
		return ErrNotLocked
	}
	if password != g.password {
		return ErrWrongPassword
	}
	g.locked = false
	g.password = ""
	return nil
}

// children manages a container's ordered item list plus the change-event
// forwarding for each child. Methods assume the owner's lock is held.
type children struct {
	items   []Node
	cancels map[Node]func()
}

func newChildren() children {
	return children{cancels: make(map[Node]func())}
}

func (c *children) hasFile(name string) bool {
	for _, n := range c.items {
		if _, ok := n.(*File); ok && n.Name() == name {
			return true
		}
	}
	return false
}

func (c *children) hasFolder(name string) bool {
	for _, n := range c.items {
		if _, ok := n.(*Folder); ok && n.Name() == name {
			return true
		}
	}
	return false
}

func (c *children) fileByName(name string) *File {
	for _, n := range c.items {
		if f, ok := n.(*File); ok && n.Name() == name {
			return f
		}
	}
	return nil
}

func (c *children) folderByName(name string) *Folder {
	for _, n := range c.items {
		if f, ok := n.(*Folder); ok && n.Name() == name {
			return f
		}
	}
	return nil
}

// attach inserts a node, wiring its change events to re-emit on the owner's
// bus. The caller has already checked uniqueness and lock state.
func (c *children) attach(owner Container, bus *events.Bus, n Node) {
	n.setParent(owner)
	c.items = append(c.items, n)
	c.cancels[n] = n.Events().Subscribe(EventChange, func(ev events.Event) {
		bus.Emit(EventChange, ev.Detail)
	})
}

// detach removes a node and its event forwarding.
func (c *children) detach(n Node) bool {
	for i, cand := range c.items {
		if cand == n {
			c.items = append(c.items[:i], c.items[i+1:]...)
			if cancel := c.cancels[n]; cancel != nil {
				cancel()
			}
			delete(c.cancels, n)
			n.setParent(nil)
			return true
		}
	}
	return false
}

func (c *children) snapshot() []Node {
	out := make([]Node, len(c.items))
	copy(out, c.items)
	return out
}
