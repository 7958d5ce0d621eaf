package window

// Variant selects which optional chrome a window carries. The set is closed:
// the six variants below differ only in their capability masks, never in
// behavior.
type Variant string

const (
	Dialog       Variant = "dialog"
	Single       Variant = "single"
	Sizeable     Variant = "sizeable"
	Tool         Variant = "tool"
	SizeableTool Variant = "sizeableTool"
	Custom       Variant = "custom"
)

// Capability flags name the optional features a variant may carry.
type Capability uint8

const (
	CapSystemMenu Capability = 1 << iota
	CapClose
	CapHelp
	CapMinimize
	CapMaximize
	CapResize
	CapTaskbar
)

// Has reports whether all bits of c are present.
func (caps Capability) Has(c Capability) bool { return caps&c == c }

// Valid reports whether v is one of the closed variant set.
func (v Variant) Valid() bool {
	switch v {
	case Dialog, Single, Sizeable, Tool, SizeableTool, Custom:
		return true
	}
	return false
}

// Capabilities returns the capability mask for a variant. Sizeable carries
// everything Single carries; SizeableTool everything Tool carries.
func (v Variant) Capabilities() Capability {
	switch v {
	case Dialog:
		return CapSystemMenu | CapClose | CapHelp
	case Single:
		return CapSystemMenu | CapClose | CapHelp | CapMinimize | CapTaskbar
	case Sizeable:
		return Single.Capabilities() | CapMaximize | CapResize
	case Tool:
		return CapSystemMenu | CapClose
	case SizeableTool:
		return Tool.Capabilities() | CapResize
	case Custom:
		return CapSystemMenu | CapClose | CapHelp | CapMinimize | CapMaximize | CapResize | CapTaskbar
	}
	return 0
}

// State is the window lifecycle state. Transitions are direct: any state is
// reachable from any other without validation.
type State string

const (
	StateNormal     State = "normal"
	StateMinimized  State = "minimized"
	StateMaximized  State = "maximized"
	StateFullScreen State = "fullScreen"
)

// Position selects the initial placement strategy for a new window.
type Position string

const (
	PositionDefault  Position = "default"
	PositionCenter   Position = "center"
	PositionDesigned Position = "designed"
)

// Align pins a window edge to the screen.
type Align string

const (
	AlignNone   Align = "none"
	AlignTop    Align = "top"
	AlignBottom Align = "bottom"
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignClient Align = "client"
)

// Screen describes the desktop work area windows are placed on.
type Screen struct {
	Width  int
	Height int
}
