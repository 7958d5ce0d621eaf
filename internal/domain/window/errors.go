package window

import "errors"

// Sentinel errors for the window subsystem. Callers discriminate with
// errors.Is rather than string matching.
var (
	// Validation errors: the entity is left unmodified.
	ErrConstraintRange = errors.New("window: constraint minimum exceeds maximum")
	ErrNegativeSize    = errors.New("window: width and height must be non-negative")
	ErrNegativePadding = errors.New("window: padding sides must be non-negative")
	ErrInvalidName     = errors.New("window: invalid window name")
	ErrInvalidClass    = errors.New("window: invalid class name")
	ErrInvalidColor    = errors.New("window: color not accepted")
	ErrInvalidCursor   = errors.New("window: cursor not accepted")
	ErrInvalidFont     = errors.New("window: font not accepted")
	ErrInvalidAlpha    = errors.New("window: alpha blend value must be within 0-255")
	ErrNegativeSnap    = errors.New("window: snap buffer must be non-negative")
	ErrUnknownVariant  = errors.New("window: unknown window variant")

	// Capability errors: the variant does not carry the requested chrome.
	ErrCapability = errors.New("window: variant lacks the requested capability")

	// State-conflict errors raised by the manager.
	ErrNotManaged     = errors.New("window: window is not in this manager's collection")
	ErrAlreadyManaged = errors.New("window: window is already in this manager's collection")
	ErrNotFound       = errors.New("window: no window matches the lookup")
	ErrClosed         = errors.New("window: window is closed and cannot be reused")
)
