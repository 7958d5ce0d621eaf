package system

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdesk/webdesk/internal/domain/fs"
	"github.com/webdesk/webdesk/internal/domain/kernel"
	"github.com/webdesk/webdesk/internal/domain/kernel/modules/clipboard"
	"github.com/webdesk/webdesk/internal/domain/permission"
	"github.com/webdesk/webdesk/internal/domain/register"
	"github.com/webdesk/webdesk/internal/domain/theme"
	"github.com/webdesk/webdesk/internal/domain/window"
	"github.com/webdesk/webdesk/internal/shared/id"
)

func newTestSystem(t *testing.T) *SystemManager {
	t.Helper()
	ctx := context.Background()
	return New(Managers{
		Windows:     window.NewManager(window.Screen{Width: 1280, Height: 720}, nil),
		Kernel:      kernel.New(ctx, nil, clipboard.New()),
		Filesystem:  fs.NewManager(nil),
		Permissions: permission.NewManager(nil),
		Register:    register.NewManager(nil),
		Themes:      theme.NewManager(nil),
	}, nil)
}

func TestCallRoutesThroughPermissions(t *testing.T) {
	s := newTestSystem(t)
	w, err := s.Windows().CreateWindow(window.Options{Type: window.Sizeable})
	require.NoError(t, err)

	// No requester installed: the call is refused before reaching the
	// kernel.
	_, err = s.Call(context.Background(), w.Handle(), "clipboard", "copy", map[string]interface{}{"data": "x"})
	assert.ErrorIs(t, err, permission.ErrNoRequester)

	s.Permissions().Allow(w.Handle(), "clipboard", "copy")
	result, err := s.Call(context.Background(), w.Handle(), "clipboard", "copy", map[string]interface{}{"data": "x"})
	require.NoError(t, err)
	assert.Equal(t, true, result["copied"])
}

func TestCallRequiresManagedWindow(t *testing.T) {
	s := newTestSystem(t)
	_, err := s.Call(context.Background(), id.NewWindowHandle(), "clipboard", "paste", nil)
	assert.ErrorIs(t, err, window.ErrNotFound)
}

func TestWindowCloseRevokesPermissions(t *testing.T) {
	s := newTestSystem(t)
	w, err := s.Windows().CreateWindow(window.Options{Type: window.Sizeable})
	require.NoError(t, err)
	s.Permissions().Allow(w.Handle(), "clipboard", "paste")

	require.NoError(t, s.Windows().CloseWindow(context.Background(), w))
	assert.False(t, s.Permissions().Check(w.Handle(), "clipboard", "paste"))
}

func TestShutdown(t *testing.T) {
	s := newTestSystem(t)
	_, err := s.Windows().CreateWindow(window.Options{Type: window.Sizeable})
	require.NoError(t, err)
	_, err = s.Windows().CreateWindow(window.Options{Type: window.Dialog})
	require.NoError(t, err)

	s.Shutdown(context.Background())
	assert.Equal(t, 0, s.Windows().Len())
	assert.Empty(t, s.Kernel().Modules())
}
