// Package system composes the desktop core.
//
// SystemManager is the single owner of the six domain managers. Nothing in
// the tree reaches for a global: every collaborator is handed in here and
// flows down by explicit reference.
package system

import (
	"context"

	"github.com/webdesk/webdesk/internal/domain/fs"
	"github.com/webdesk/webdesk/internal/domain/kernel"
	"github.com/webdesk/webdesk/internal/domain/permission"
	"github.com/webdesk/webdesk/internal/domain/register"
	"github.com/webdesk/webdesk/internal/domain/theme"
	"github.com/webdesk/webdesk/internal/domain/window"
	"github.com/webdesk/webdesk/internal/infrastructure/logging"
	"github.com/webdesk/webdesk/internal/shared/events"
	"github.com/webdesk/webdesk/internal/shared/id"
)

// Managers bundles the collaborators handed to New. Every field is
// required.
type Managers struct {
	Windows     *window.Manager
	Kernel      *kernel.Kernel
	Filesystem  *fs.Manager
	Permissions *permission.Manager
	Register    *register.Manager
	Themes      *theme.Manager
}

// SystemManager is the composition root of the desktop core.
type SystemManager struct {
	windows     *window.Manager
	kernel      *kernel.Kernel
	filesystem  *fs.Manager
	permissions *permission.Manager
	register    *register.Manager
	themes      *theme.Manager

	log *logging.Logger
}

// New wires the desktop core together. Window removal cascades into
// permission revocation here, so neither manager knows about the other.
func New(m Managers, log *logging.Logger) *SystemManager {
	if log == nil {
		log = logging.NewNop()
	}
	s := &SystemManager{
		windows:     m.Windows,
		kernel:      m.Kernel,
		filesystem:  m.Filesystem,
		permissions: m.Permissions,
		register:    m.Register,
		themes:      m.Themes,
		log:         log,
	}
	s.windows.Events().Subscribe(window.EventRemove, func(ev events.Event) {
		if h, ok := ev.Detail["handle"].(string); ok {
			s.permissions.RevokeAll(id.WindowHandle(h))
		}
	})
	return s
}

// Windows returns the window manager.
func (s *SystemManager) Windows() *window.Manager { return s.windows }

// Kernel returns the module kernel.
func (s *SystemManager) Kernel() *kernel.Kernel { return s.kernel }

// Filesystem returns the filesystem manager.
func (s *SystemManager) Filesystem() *fs.Manager { return s.filesystem }

// Permissions returns the permission manager.
func (s *SystemManager) Permissions() *permission.Manager { return s.permissions }

// Register returns the settings tree.
func (s *SystemManager) Register() *register.Manager { return s.register }

// Themes returns the theme manager.
func (s *SystemManager) Themes() *theme.Manager { return s.themes }

// Call routes a window's kernel call through the permission layer before
// dispatching it.
func (s *SystemManager) Call(ctx context.Context, handle id.WindowHandle, module, function string, args map[string]interface{}) (map[string]interface{}, error) {
	if _, err := s.windows.FindWindow(handle); err != nil {
		return nil, err
	}
	if _, err := s.permissions.Request(ctx, handle, module, function); err != nil {
		return nil, err
	}
	return s.kernel.CallModuleFunction(ctx, module, function, args)
}

// Shutdown destroys every window and unregisters every kernel module.
func (s *SystemManager) Shutdown(ctx context.Context) {
	for _, w := range s.windows.Windows() {
		_ = s.windows.DestroyWindow(w)
	}
	for _, info := range s.kernel.Modules() {
		_ = s.kernel.UnregisterModule(info.Meta.Name)
	}
	s.log.Info("system shut down")
}
