package window

import (
	"fmt"

	"github.com/webdesk/webdesk/internal/shared/events"
	"github.com/webdesk/webdesk/internal/shared/id"
)

// Options is the typed creation configuration for a window. Type is the
// variant discriminator; pointer fields distinguish "unset" from a zero
// value so defaults apply only where the caller stayed silent.
type Options struct {
	Type Variant `json:"type"`

	Name      string `json:"name"`
	ClassName string `json:"className"`

	Left   int      `json:"left"`
	Top    int      `json:"top"`
	Width  *int     `json:"width,omitempty"`
	Height *int     `json:"height,omitempty"`
	Align  Align    `json:"align,omitempty"`
	Pos    Position `json:"position,omitempty"`

	Color  string `json:"color,omitempty"`
	Cursor string `json:"cursor,omitempty"`
	Font   string `json:"font,omitempty"`

	AlphaBlend      bool `json:"alphaBlend,omitempty"`
	AlphaBlendValue *int `json:"alphaBlendValue,omitempty"`

	Modal          bool  `json:"modal,omitempty"`
	StayOnTop      bool  `json:"stayOnTop,omitempty"`
	ShowInTaskbar  *bool `json:"showInTaskbar,omitempty"`
	TaskBarPreview *bool `json:"taskBarPreview,omitempty"`

	ScreenSnap bool `json:"screenSnap,omitempty"`
	SnapBuffer *int `json:"snapBuffer,omitempty"`

	Enabled *bool `json:"enabled,omitempty"`
	Visible *bool `json:"visible,omitempty"`

	Constraints *Constraint `json:"-"`
	Padding     *Padding    `json:"-"`
	CloseQuery  CloseQuery  `json:"-"`
}

// Creation defaults.
const (
	DefaultWidth      = 640
	DefaultHeight     = 480
	DefaultAlpha      = 255
	DefaultSnapBuffer = 10
)

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

// newWindow validates options and assembles a window. Every validated field
// goes through the same predicate its runtime setter uses, so a window can
// never be constructed in a state a setter would reject.
func newWindow(handle id.WindowHandle, opts Options) (*Window, error) {
	if !opts.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, opts.Type)
	}
	caps := opts.Type.Capabilities()

	name := opts.Name
	if name == "" {
		name = "Window"
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if opts.ClassName != "" {
		if err := validateClassName(opts.ClassName); err != nil {
			return nil, err
		}
	}

	width := intOr(opts.Width, DefaultWidth)
	height := intOr(opts.Height, DefaultHeight)
	if width < 0 || height < 0 {
		return nil, ErrNegativeSize
	}

	alpha := intOr(opts.AlphaBlendValue, DefaultAlpha)
	if err := validateAlpha(alpha); err != nil {
		return nil, err
	}

	snapBuffer := intOr(opts.SnapBuffer, DefaultSnapBuffer)
	if snapBuffer < 0 {
		return nil, ErrNegativeSnap
	}

	if opts.Color != "" {
		if err := validateColor(opts.Color); err != nil {
			return nil, err
		}
	}
	if opts.Cursor != "" {
		if err := validateCursor(opts.Cursor); err != nil {
			return nil, err
		}
	}
	if opts.Font != "" {
		if err := validateFont(opts.Font); err != nil {
			return nil, err
		}
	}

	constraints := opts.Constraints
	if constraints == nil {
		constraints = &Constraint{}
	}
	padding := opts.Padding
	if padding == nil {
		padding = &Padding{}
	}
	width, height = constraints.Clamp(width, height)

	align := opts.Align
	if align == "" {
		align = AlignNone
	}
	pos := opts.Pos
	if pos == "" {
		pos = PositionDefault
	}

	w := &Window{
		bus:             events.NewBus(),
		handle:          handle,
		variant:         opts.Type,
		caps:            caps,
		name:            name,
		className:       opts.ClassName,
		left:            opts.Left,
		top:             opts.Top,
		width:           width,
		height:          height,
		align:           align,
		position:        pos,
		constraints:     constraints,
		padding:         padding,
		borderIcons:     newBorderIcons(caps),
		color:           opts.Color,
		cursor:          opts.Cursor,
		font:            opts.Font,
		alphaBlend:      opts.AlphaBlend,
		alphaBlendValue: alpha,
		modal:           opts.Modal,
		stayOnTop:       opts.StayOnTop,
		showInTaskbar:   boolOr(opts.ShowInTaskbar, caps.Has(CapTaskbar)),
		taskBarPreview:  boolOr(opts.TaskBarPreview, caps.Has(CapTaskbar)),
		screenSnap:      opts.ScreenSnap,
		snapBuffer:      snapBuffer,
		enabled:         boolOr(opts.Enabled, true),
		visible:         boolOr(opts.Visible, true),
		state:           StateNormal,
		closeQuery:      opts.CloseQuery,
	}
	return w, nil
}
