package window

// BorderIcons is the set of title-bar buttons a window shows. Which flags
// exist is decided by the window's capability mask: toggling an icon the
// variant does not carry fails with ErrCapability instead of silently
// no-opping.
type BorderIcons struct {
	caps       Capability
	systemMenu bool
	close      bool
	help       bool
	minimize   bool
	maximize   bool
}

// newBorderIcons enables every icon the capability mask carries.
func newBorderIcons(caps Capability) *BorderIcons {
	return &BorderIcons{
		caps:       caps,
		systemMenu: caps.Has(CapSystemMenu),
		close:      caps.Has(CapClose),
		help:       caps.Has(CapHelp),
		minimize:   caps.Has(CapMinimize),
		maximize:   caps.Has(CapMaximize),
	}
}

func (b *BorderIcons) SystemMenu() bool { return b.systemMenu }
func (b *BorderIcons) Close() bool      { return b.close }
func (b *BorderIcons) Help() bool       { return b.help }
func (b *BorderIcons) Minimize() bool   { return b.minimize }
func (b *BorderIcons) Maximize() bool   { return b.maximize }

func (b *BorderIcons) SetSystemMenu(on bool) error {
	if !b.caps.Has(CapSystemMenu) {
		return ErrCapability
	}
	b.systemMenu = on
	return nil
}

func (b *BorderIcons) SetClose(on bool) error {
	if !b.caps.Has(CapClose) {
		return ErrCapability
	}
	b.close = on
	return nil
}

func (b *BorderIcons) SetHelp(on bool) error {
	if !b.caps.Has(CapHelp) {
		return ErrCapability
	}
	b.help = on
	return nil
}

func (b *BorderIcons) SetMinimize(on bool) error {
	if !b.caps.Has(CapMinimize) {
		return ErrCapability
	}
	b.minimize = on
	return nil
}

func (b *BorderIcons) SetMaximize(on bool) error {
	if !b.caps.Has(CapMaximize) {
		return ErrCapability
	}
	b.maximize = on
	return nil
}
