package window

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/webdesk/webdesk/internal/shared/events"
	"github.com/webdesk/webdesk/internal/shared/id"
)

// Event topics published on a window's bus. The manager re-broadcasts every
// one of them annotated with the window reference.
const (
	EventChange       = "change"
	EventResize       = "resize"
	EventMove         = "move"
	EventBounds       = "bounds"
	EventCenter       = "center"
	EventClose        = "close"
	EventMaximize     = "maximize"
	EventMinimize     = "minimize"
	EventRestore      = "restore"
	EventFullScreen   = "fullScreen"
	EventShow         = "show"
	EventHide         = "hide"
	EventActivate     = "activate"
	EventDeactivate   = "deactivate"
	EventFocus        = "focus"
	EventBringToFront = "bringToFront"
	EventSendToBack   = "sendToBack"
)

// CloseQuery gates Close. Returning false vetoes the close; returning an
// error closes the window anyway, mirroring the historical contract where a
// rejection carrying a reason still closed the window.
type CloseQuery func(ctx context.Context) (bool, error)

// Bounds is a window rectangle.
type Bounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Window is a single desktop window: a property bag plus a small lifecycle
// state machine. All mutators validate before mutating and publish a generic
// change event alongside a specific one carrying only the changed fields.
type Window struct {
	mu  sync.Mutex
	bus *events.Bus

	handle  id.WindowHandle
	variant Variant
	caps    Capability

	name      string
	className string

	left, top     int
	width, height int
	align         Align
	position      Position
	constraints   *Constraint
	padding       *Padding
	borderIcons   *BorderIcons

	color  string
	cursor string
	font   string

	alphaBlend      bool
	alphaBlendValue int
	modal           bool
	stayOnTop       bool
	showInTaskbar   bool
	taskBarPreview  bool
	screenSnap      bool
	snapBuffer      int

	enabled bool
	visible bool

	state         State
	activeElement string
	closeQuery    CloseQuery
	closed        bool
}

// Handle returns the immutable window handle.
func (w *Window) Handle() id.WindowHandle { return w.handle }

// Variant returns the window's variant.
func (w *Window) Variant() Variant { return w.variant }

// Capabilities returns the variant's capability mask.
func (w *Window) Capabilities() Capability { return w.caps }

// Events returns the window's bus.
func (w *Window) Events() *events.Bus { return w.bus }

func (w *Window) Name() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.name
}

func (w *Window) ClassName() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.className
}

func (w *Window) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *Window) Enabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enabled
}

func (w *Window) Modal() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.modal
}

func (w *Window) StayOnTop() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stayOnTop
}

func (w *Window) ShowInTaskbar() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.showInTaskbar
}

func (w *Window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *Window) Bounds() Bounds {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Bounds{Left: w.left, Top: w.top, Width: w.width, Height: w.height}
}

func (w *Window) Color() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.color
}

func (w *Window) Cursor() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}

func (w *Window) Font() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.font
}

func (w *Window) AlphaBlend() (bool, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alphaBlend, w.alphaBlendValue
}

func (w *Window) ScreenSnap() (bool, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.screenSnap, w.snapBuffer
}

// Constraints returns the window's owned size constraint.
func (w *Window) Constraints() *Constraint { return w.constraints }

// Padding returns the window's owned padding.
func (w *Window) Padding() *Padding { return w.padding }

// BorderIcons returns the window's owned title-bar icon set.
func (w *Window) BorderIcons() *BorderIcons { return w.borderIcons }

func (w *Window) ActiveElement() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeElement
}

// SetActiveElement records which content element regains focus when the
// window is activated.
func (w *Window) SetActiveElement(el string) {
	w.mu.Lock()
	w.activeElement = el
	w.mu.Unlock()
}

// SetCloseQuery installs the exclusively-owned close gate. Passing nil
// removes it.
func (w *Window) SetCloseQuery(q CloseQuery) {
	w.mu.Lock()
	w.closeQuery = q
	w.mu.Unlock()
}

// SetName renames the window.
func (w *Window) SetName(v string) error {
	if err := validateName(v); err != nil {
		return err
	}
	w.mu.Lock()
	if w.name == v {
		w.mu.Unlock()
		return nil
	}
	w.name = v
	w.mu.Unlock()
	w.bus.Emit(EventChange, events.Detail{"name": v})
	return nil
}

// SetColor validates and applies a frame color.
func (w *Window) SetColor(v string) error {
	if err := validateColor(v); err != nil {
		return err
	}
	w.mu.Lock()
	w.color = v
	w.mu.Unlock()
	w.bus.Emit(EventChange, events.Detail{"color": v})
	return nil
}

// SetCursor validates and applies a cursor keyword.
func (w *Window) SetCursor(v string) error {
	if err := validateCursor(v); err != nil {
		return err
	}
	w.mu.Lock()
	w.cursor = v
	w.mu.Unlock()
	w.bus.Emit(EventChange, events.Detail{"cursor": v})
	return nil
}

// SetFont validates and applies a font spec.
func (w *Window) SetFont(v string) error {
	if err := validateFont(v); err != nil {
		return err
	}
	w.mu.Lock()
	w.font = v
	w.mu.Unlock()
	w.bus.Emit(EventChange, events.Detail{"font": v})
	return nil
}

// SetAlphaBlend toggles translucency; value must be 0-255.
func (w *Window) SetAlphaBlend(on bool, value int) error {
	if err := validateAlpha(value); err != nil {
		return err
	}
	w.mu.Lock()
	w.alphaBlend = on
	w.alphaBlendValue = value
	w.mu.Unlock()
	w.bus.Emit(EventChange, events.Detail{"alphaBlend": on, "alphaBlendValue": value})
	return nil
}

// SetScreenSnap toggles edge snapping; the buffer must be non-negative.
func (w *Window) SetScreenSnap(on bool, buffer int) error {
	if buffer < 0 {
		return ErrNegativeSnap
	}
	w.mu.Lock()
	w.screenSnap = on
	w.snapBuffer = buffer
	w.mu.Unlock()
	w.bus.Emit(EventChange, events.Detail{"screenSnap": on, "snapBuffer": buffer})
	return nil
}

// SetEnabled toggles input handling.
func (w *Window) SetEnabled(on bool) {
	w.mu.Lock()
	if w.enabled == on {
		w.mu.Unlock()
		return
	}
	w.enabled = on
	w.mu.Unlock()
	w.bus.Emit(EventChange, events.Detail{"enabled": on})
}

// SetStayOnTop toggles the always-on-top hint.
func (w *Window) SetStayOnTop(on bool) {
	w.mu.Lock()
	w.stayOnTop = on
	w.mu.Unlock()
	w.bus.Emit(EventChange, events.Detail{"stayOnTop": on})
}

// SetLeft moves the window horizontally.
func (w *Window) SetLeft(v int) error {
	w.mu.Lock()
	if w.left == v {
		w.mu.Unlock()
		return nil
	}
	w.left = v
	w.mu.Unlock()
	w.bus.Emit(EventMove, events.Detail{"left": v})
	w.bus.Emit(EventChange, events.Detail{"left": v})
	return nil
}

// SetTop moves the window vertically.
func (w *Window) SetTop(v int) error {
	w.mu.Lock()
	if w.top == v {
		w.mu.Unlock()
		return nil
	}
	w.top = v
	w.mu.Unlock()
	w.bus.Emit(EventMove, events.Detail{"top": v})
	w.bus.Emit(EventChange, events.Detail{"top": v})
	return nil
}

// SetWidth resizes the window horizontally, clamped by the constraint.
func (w *Window) SetWidth(v int) error {
	if v < 0 {
		return ErrNegativeSize
	}
	w.mu.Lock()
	v, _ = w.constraints.Clamp(v, w.height)
	if w.width == v {
		w.mu.Unlock()
		return nil
	}
	w.width = v
	w.mu.Unlock()
	w.bus.Emit(EventResize, events.Detail{"width": v})
	w.bus.Emit(EventChange, events.Detail{"width": v})
	return nil
}

// SetHeight resizes the window vertically, clamped by the constraint.
func (w *Window) SetHeight(v int) error {
	if v < 0 {
		return ErrNegativeSize
	}
	w.mu.Lock()
	_, v = w.constraints.Clamp(w.width, v)
	if w.height == v {
		w.mu.Unlock()
		return nil
	}
	w.height = v
	w.mu.Unlock()
	w.bus.Emit(EventResize, events.Detail{"height": v})
	w.bus.Emit(EventChange, events.Detail{"height": v})
	return nil
}

// AdjustSize resizes both axes in one step, emitting a single resize event.
func (w *Window) AdjustSize(width, height int) error {
	if width < 0 || height < 0 {
		return ErrNegativeSize
	}
	w.mu.Lock()
	width, height = w.constraints.Clamp(width, height)
	w.width, w.height = width, height
	w.mu.Unlock()
	detail := events.Detail{"width": width, "height": height}
	w.bus.Emit(EventResize, detail)
	w.bus.Emit(EventChange, detail)
	return nil
}

// AdjustPosition moves both axes in one step, emitting a single move event.
func (w *Window) AdjustPosition(left, top int) error {
	w.mu.Lock()
	w.left, w.top = left, top
	w.mu.Unlock()
	detail := events.Detail{"left": left, "top": top}
	w.bus.Emit(EventMove, detail)
	w.bus.Emit(EventChange, detail)
	return nil
}

// AdjustBounds moves and resizes in one step, emitting a single bounds
// event.
func (w *Window) AdjustBounds(b Bounds) error {
	if b.Width < 0 || b.Height < 0 {
		return ErrNegativeSize
	}
	w.mu.Lock()
	b.Width, b.Height = w.constraints.Clamp(b.Width, b.Height)
	w.left, w.top, w.width, w.height = b.Left, b.Top, b.Width, b.Height
	w.mu.Unlock()
	detail := events.Detail{"left": b.Left, "top": b.Top, "width": b.Width, "height": b.Height}
	w.bus.Emit(EventBounds, detail)
	w.bus.Emit(EventChange, detail)
	return nil
}

// Center places the window in the middle of the screen.
func (w *Window) Center(screen Screen) {
	w.mu.Lock()
	w.left = (screen.Width - w.width) / 2
	w.top = (screen.Height - w.height) / 2
	left, top := w.left, w.top
	w.mu.Unlock()
	detail := events.Detail{"left": left, "top": top}
	w.bus.Emit(EventCenter, detail)
	w.bus.Emit(EventResize, detail)
	w.bus.Emit(EventMove, detail)
}

// Maximize enters the maximized state. Transitions are direct: no source
// state is rejected.
func (w *Window) Maximize() error {
	if !w.caps.Has(CapMaximize) {
		return ErrCapability
	}
	w.setState(StateMaximized, EventMaximize)
	return nil
}

// Minimize enters the minimized state.
func (w *Window) Minimize() error {
	if !w.caps.Has(CapMinimize) {
		return ErrCapability
	}
	w.setState(StateMinimized, EventMinimize)
	return nil
}

// Restore returns to the normal state.
func (w *Window) Restore() {
	w.setState(StateNormal, EventRestore)
}

// FullScreen enters the full-screen state.
func (w *Window) FullScreen() {
	w.setState(StateFullScreen, EventFullScreen)
}

func (w *Window) setState(s State, topic string) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
	detail := events.Detail{"windowState": string(s)}
	w.bus.Emit(topic, detail)
	w.bus.Emit(EventChange, detail)
}

// Show makes the window visible. Visibility is an axis independent of the
// lifecycle state.
func (w *Window) Show() {
	w.mu.Lock()
	w.visible = true
	w.mu.Unlock()
	w.bus.Emit(EventShow, events.Detail{"visible": true})
}

// Hide makes the window invisible without changing its state.
func (w *Window) Hide() {
	w.mu.Lock()
	w.visible = false
	w.mu.Unlock()
	w.bus.Emit(EventHide, events.Detail{"visible": false})
}

// Activate requests that this window become the active one. The manager
// reacts by repositioning it to the front and deactivating the previous
// front window.
func (w *Window) Activate() {
	w.bus.Emit(EventActivate, nil)
}

// Deactivate announces loss of active status.
func (w *Window) Deactivate() {
	w.bus.Emit(EventDeactivate, nil)
}

// Focus requests keyboard focus; the manager moves the window to the front.
func (w *Window) Focus() {
	w.bus.Emit(EventFocus, nil)
}

// BringToFront requests the topmost z-position.
func (w *Window) BringToFront() {
	w.bus.Emit(EventBringToFront, nil)
}

// SendToBack requests the bottom z-position.
func (w *Window) SendToBack() {
	w.bus.Emit(EventSendToBack, nil)
}

// Close runs the close query, if any, and closes the window unless the
// query vetoes with false. A query error does not veto: the window closes
// and the error is returned to the caller.
func (w *Window) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	query := w.closeQuery
	w.mu.Unlock()

	if query != nil {
		proceed, err := query(ctx)
		if err != nil {
			w.forceClose(events.Detail{"reason": err.Error()})
			return err
		}
		if !proceed {
			return nil
		}
	}
	w.forceClose(nil)
	return nil
}

// Destroy closes the window unconditionally, bypassing the close query.
func (w *Window) Destroy() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	w.forceClose(nil)
}

func (w *Window) forceClose(detail events.Detail) {
	w.mu.Lock()
	w.visible = false
	w.closed = true
	w.mu.Unlock()
	w.bus.Emit(EventClose, detail)
}

// Info is the serializable snapshot of a window.
type Info struct {
	Handle        string  `json:"handle"`
	Name          string  `json:"name"`
	ClassName     string  `json:"className,omitempty"`
	Variant       Variant `json:"variant"`
	State         State   `json:"state"`
	Bounds        Bounds  `json:"bounds"`
	Visible       bool    `json:"visible"`
	Enabled       bool    `json:"enabled"`
	Modal         bool    `json:"modal"`
	StayOnTop     bool    `json:"stayOnTop"`
	ShowInTaskbar bool    `json:"showInTaskbar"`
}

// Snapshot captures the window's observable state.
func (w *Window) Snapshot() Info {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Info{
		Handle:        w.handle.String(),
		Name:          w.name,
		ClassName:     w.className,
		Variant:       w.variant,
		State:         w.state,
		Bounds:        Bounds{Left: w.left, Top: w.top, Width: w.width, Height: w.height},
		Visible:       w.visible,
		Enabled:       w.enabled,
		Modal:         w.modal,
		StayOnTop:     w.stayOnTop,
		ShowInTaskbar: w.showInTaskbar,
	}
}

// MarshalJSON serializes the snapshot, so windows embedded in event details
// cross the wire as plain objects.
func (w *Window) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Snapshot())
}
