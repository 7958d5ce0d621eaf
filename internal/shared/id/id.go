// Package id provides centralized identifier generation for the desktop core.
//
// Two identifier families exist:
//   - Window handles: opaque UUIDs assigned once at window creation and used
//     for all manager-level lookups.
//   - Module keys: prefixed ULIDs keying kernel module registrations;
//     lexicographically sortable so registration order is recoverable.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// WindowHandle identifies a window for its whole lifetime.
type WindowHandle string

// ModuleKey identifies a kernel module registration.
type ModuleKey string

// ModulePrefix makes module keys self-describing in logs.
const ModulePrefix = "mod"

func (h WindowHandle) String() string { return string(h) }
func (k ModuleKey) String() string    { return string(k) }

// NewWindowHandle generates a fresh window handle.
func NewWindowHandle() WindowHandle {
	return WindowHandle(uuid.New().String())
}

// Generator produces prefixed ULIDs from a guarded entropy source.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source,
// useful for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewModuleKey generates a new kernel module key.
func NewModuleKey() ModuleKey {
	return ModuleKey(Default().GenerateWithPrefix(ModulePrefix))
}

// IsValidHandle reports whether a string parses as a window handle.
func IsValidHandle(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
