package window

// Constraint bounds a window's size. A zero maximum means unbounded on that
// axis. The min ≤ max invariant is re-checked on every mutation, so the
// value object can never be observed in a contradictory state.
type Constraint struct {
	minWidth  int
	maxWidth  int
	minHeight int
	maxHeight int
}

// NewConstraint builds a constraint, rejecting negative values and any
// minimum above its non-zero maximum.
func NewConstraint(minWidth, maxWidth, minHeight, maxHeight int) (*Constraint, error) {
	c := &Constraint{}
	if err := c.SetMinWidth(minWidth); err != nil {
		return nil, err
	}
	if err := c.SetMaxWidth(maxWidth); err != nil {
		return nil, err
	}
	if err := c.SetMinHeight(minHeight); err != nil {
		return nil, err
	}
	if err := c.SetMaxHeight(maxHeight); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Constraint) MinWidth() int  { return c.minWidth }
func (c *Constraint) MaxWidth() int  { return c.maxWidth }
func (c *Constraint) MinHeight() int { return c.minHeight }
func (c *Constraint) MaxHeight() int { return c.maxHeight }

// SetMinWidth updates the minimum width, rejecting values above the current
// non-zero maximum.
func (c *Constraint) SetMinWidth(v int) error {
	if v < 0 {
		return ErrNegativeSize
	}
	if c.maxWidth != 0 && v > c.maxWidth {
		return ErrConstraintRange
	}
	c.minWidth = v
	return nil
}

// SetMaxWidth updates the maximum width, rejecting non-zero values below the
// current minimum.
func (c *Constraint) SetMaxWidth(v int) error {
	if v < 0 {
		return ErrNegativeSize
	}
	if v != 0 && v < c.minWidth {
		return ErrConstraintRange
	}
	c.maxWidth = v
	return nil
}

// SetMinHeight updates the minimum height, rejecting values above the
// current non-zero maximum.
func (c *Constraint) SetMinHeight(v int) error {
	if v < 0 {
		return ErrNegativeSize
	}
	if c.maxHeight != 0 && v > c.maxHeight {
		return ErrConstraintRange
	}
	c.minHeight = v
	return nil
}

// SetMaxHeight updates the maximum height, rejecting non-zero values below
// the current minimum.
func (c *Constraint) SetMaxHeight(v int) error {
	if v < 0 {
		return ErrNegativeSize
	}
	if v != 0 && v < c.minHeight {
		return ErrConstraintRange
	}
	c.maxHeight = v
	return nil
}

// Clamp forces a size into the constrained range.
func (c *Constraint) Clamp(width, height int) (int, int) {
	if width < c.minWidth {
		width = c.minWidth
	}
	if c.maxWidth != 0 && width > c.maxWidth {
		width = c.maxWidth
	}
	if height < c.minHeight {
		height = c.minHeight
	}
	if c.maxHeight != 0 && height > c.maxHeight {
		height = c.maxHeight
	}
	return width, height
}
