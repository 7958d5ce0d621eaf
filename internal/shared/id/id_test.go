package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWindowHandle(t *testing.T) {
	h1 := NewWindowHandle()
	h2 := NewWindowHandle()

	assert.NotEqual(t, h1, h2)
	assert.True(t, IsValidHandle(h1.String()))
	assert.False(t, IsValidHandle("not-a-handle"))
}

func TestNewModuleKey(t *testing.T) {
	k := NewModuleKey()
	assert.True(t, strings.HasPrefix(k.String(), "mod_"))

	seen := make(map[ModuleKey]bool)
	for i := 0; i < 100; i++ {
		k := NewModuleKey()
		assert.False(t, seen[k])
		seen[k] = true
	}
}

func TestGeneratorOrdering(t *testing.T) {
	g := NewGenerator()
	a := g.Generate()
	b := g.Generate()
	// ULIDs generated later never sort before earlier ones.
	assert.LessOrEqual(t, a.String(), b.String())
}
