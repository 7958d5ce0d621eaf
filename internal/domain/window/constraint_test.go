package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintRejectsInvertedRange(t *testing.T) {
	_, err := NewConstraint(500, 100, 0, 0)
	assert.ErrorIs(t, err, ErrConstraintRange)

	_, err = NewConstraint(-1, 0, 0, 0)
	assert.ErrorIs(t, err, ErrNegativeSize)
}

func TestConstraintZeroMaxIsUnbounded(t *testing.T) {
	c, err := NewConstraint(100, 0, 100, 0)
	require.NoError(t, err)

	w, h := c.Clamp(99999, 99999)
	assert.Equal(t, 99999, w)
	assert.Equal(t, 99999, h)

	w, h = c.Clamp(10, 10)
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
}

func TestConstraintSettersKeepInvariant(t *testing.T) {
	c, err := NewConstraint(100, 200, 0, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, c.SetMinWidth(300), ErrConstraintRange)
	assert.ErrorIs(t, c.SetMaxWidth(50), ErrConstraintRange)
	// Dropping the max to zero lifts the bound entirely.
	require.NoError(t, c.SetMaxWidth(0))
	require.NoError(t, c.SetMinWidth(300))
	assert.Equal(t, 300, c.MinWidth())
}

func TestConstraintClamp(t *testing.T) {
	c, err := NewConstraint(100, 800, 50, 600)
	require.NoError(t, err)

	w, h := c.Clamp(1000, 10)
	assert.Equal(t, 800, w)
	assert.Equal(t, 50, h)

	w, h = c.Clamp(400, 300)
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
}

func TestPaddingRejectsNegatives(t *testing.T) {
	_, err := NewPadding(1, 2, 3, 4)
	require.NoError(t, err)

	_, err = NewPadding(-1, 0, 0, 0)
	assert.ErrorIs(t, err, ErrNegativePadding)

	p, err := NewPadding(0, 0, 0, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, p.SetTop(-5), ErrNegativePadding)
}
