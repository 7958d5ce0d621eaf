package window

// Padding is the inner spacing between a window's frame and its content
// area. All sides are kept non-negative.
type Padding struct {
	top    int
	right  int
	bottom int
	left   int
}

// NewPadding builds a padding value object, rejecting negative sides.
func NewPadding(top, right, bottom, left int) (*Padding, error) {
	p := &Padding{}
	for _, set := range []struct {
		fn func(int) error
		v  int
	}{
		{p.SetTop, top},
		{p.SetRight, right},
		{p.SetBottom, bottom},
		{p.SetLeft, left},
	} {
		if err := set.fn(set.v); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Padding) Top() int    { return p.top }
func (p *Padding) Right() int  { return p.right }
func (p *Padding) Bottom() int { return p.bottom }
func (p *Padding) Left() int   { return p.left }

func (p *Padding) SetTop(v int) error {
	if v < 0 {
		return ErrNegativePadding
	}
	p.top = v
	return nil
}

func (p *Padding) SetRight(v int) error {
	if v < 0 {
		return ErrNegativePadding
	}
	p.right = v
	return nil
}

func (p *Padding) SetBottom(v int) error {
	if v < 0 {
		return ErrNegativePadding
	}
	p.bottom = v
	return nil
}

func (p *Padding) SetLeft(v int) error {
	if v < 0 {
		return ErrNegativePadding
	}
	p.left = v
	return nil
}
