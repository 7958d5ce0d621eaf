package fs

import (
	"fmt"
	"strings"
)

// Resolve walks a full path like `C:\Docs\readme.txt` down from the mounted
// disk and returns the node it names. A path ending in the separator, or
// naming only a drive, resolves to a container.
func (m *Manager) Resolve(path string) (interface{}, error) {
	letter, rest, err := splitDrivePath(path)
	if err != nil {
		return nil, err
	}
	d, err := m.Disk(letter)
	if err != nil {
		return nil, err
	}
	if rest == "" {
		return d, nil
	}

	parts := strings.Split(rest, Separator)
	// Every part but the last must be a folder.
	var folder *Folder
	for i, part := range parts[:len(parts)-1] {
		var err error
		if folder == nil {
			folder, err = d.Folder(part)
		} else {
			folder, err = folder.Folder(part)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(parts[:i+1], Separator))
		}
	}

	leaf := parts[len(parts)-1]
	if folder == nil {
		if f, err := d.Folder(leaf); err == nil {
			return f, nil
		}
		return d.File(leaf)
	}
	if f, err := folder.Folder(leaf); err == nil {
		return f, nil
	}
	return folder.File(leaf)
}

// ResolveFolder resolves a path that must name a folder.
func (m *Manager) ResolveFolder(path string) (*Folder, error) {
	n, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	f, ok := n.(*Folder)
	if !ok {
		return nil, fmt.Errorf("%w: folder %s", ErrNotFound, path)
	}
	return f, nil
}

// ResolveFile resolves a path that must name a file.
func (m *Manager) ResolveFile(path string) (*File, error) {
	n, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	f, ok := n.(*File)
	if !ok {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, path)
	}
	return f, nil
}

// ResolveContainer resolves a path that must name a disk root or folder.
func (m *Manager) ResolveContainer(path string) (ItemContainer, error) {
	n, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	c, ok := n.(ItemContainer)
	if !ok {
		return nil, fmt.Errorf("%w: container %s", ErrNotFound, path)
	}
	return c, nil
}

// splitDrivePath separates `C:\a\b` into the drive letter and the relative
// remainder with trailing separators stripped.
func splitDrivePath(path string) (letter, rest string, err error) {
	if len(path) < 2 || path[1] != ':' {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidLetter, path)
	}
	letter, err = NormalizeLetter(path[:1])
	if err != nil {
		return "", "", err
	}
	rest = strings.TrimPrefix(path[2:], Separator)
	rest = strings.TrimSuffix(rest, Separator)
	return letter, rest, nil
}
