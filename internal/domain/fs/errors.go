package fs

import "errors"

var (
	// Validation errors.
	ErrInvalidName     = errors.New("fs: invalid name")
	ErrInvalidPassword = errors.New("fs: invalid password")
	ErrInvalidLetter   = errors.New("fs: disk letter must be a single ASCII letter")

	// State-conflict errors.
	ErrExists        = errors.New("fs: name already exists in container")
	ErrNotFound      = errors.New("fs: no such item")
	ErrLocked        = errors.New("fs: item is locked")
	ErrNotLocked     = errors.New("fs: item is not locked")
	ErrWrongPassword = errors.New("fs: wrong password")
	ErrReadonly      = errors.New("fs: file is read-only")
	ErrHasParent     = errors.New("fs: item already belongs to a container")
	ErrDiskExists    = errors.New("fs: disk letter already in use")
	ErrDiskNotFound  = errors.New("fs: no disk mounted for letter")
)
