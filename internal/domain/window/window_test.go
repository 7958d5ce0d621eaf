package window

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdesk/webdesk/internal/shared/events"
	"github.com/webdesk/webdesk/internal/shared/id"
)

func newTestWindow(t *testing.T, opts Options) *Window {
	t.Helper()
	if opts.Type == "" {
		opts.Type = Sizeable
	}
	w, err := newWindow(id.NewWindowHandle(), opts)
	require.NoError(t, err)
	return w
}

func TestCreationDefaults(t *testing.T) {
	w := newTestWindow(t, Options{})

	info := w.Snapshot()
	assert.Equal(t, "Window", info.Name)
	assert.Equal(t, DefaultWidth, info.Bounds.Width)
	assert.Equal(t, DefaultHeight, info.Bounds.Height)
	assert.Equal(t, StateNormal, info.State)
	assert.True(t, info.Visible)
	assert.True(t, info.Enabled)
	assert.True(t, info.ShowInTaskbar)

	_, alpha := w.AlphaBlend()
	assert.Equal(t, DefaultAlpha, alpha)
}

func TestCreationValidation(t *testing.T) {
	_, err := newWindow(id.NewWindowHandle(), Options{Type: "popup"})
	assert.ErrorIs(t, err, ErrUnknownVariant)

	bad := -1
	_, err = newWindow(id.NewWindowHandle(), Options{Type: Single, Width: &bad})
	assert.ErrorIs(t, err, ErrNegativeSize)

	over := 300
	_, err = newWindow(id.NewWindowHandle(), Options{Type: Single, AlphaBlendValue: &over})
	assert.ErrorIs(t, err, ErrInvalidAlpha)

	_, err = newWindow(id.NewWindowHandle(), Options{Type: Single, Color: "#zzz"})
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestVariantCapabilities(t *testing.T) {
	assert.True(t, Sizeable.Capabilities().Has(CapResize|CapMaximize|CapTaskbar))
	assert.False(t, Single.Capabilities().Has(CapResize))
	assert.False(t, Tool.Capabilities().Has(CapMinimize|CapTaskbar))
	assert.True(t, SizeableTool.Capabilities().Has(CapResize))
	assert.False(t, SizeableTool.Capabilities().Has(CapTaskbar))
	assert.True(t, Custom.Capabilities().Has(CapSystemMenu|CapClose|CapHelp|CapMinimize|CapMaximize|CapResize|CapTaskbar))
}

func TestToolVariantStaysOutOfTaskbar(t *testing.T) {
	w := newTestWindow(t, Options{Type: Tool})
	assert.False(t, w.ShowInTaskbar())
}

func TestBorderIconsRespectCapabilities(t *testing.T) {
	dialog := newTestWindow(t, Options{Type: Dialog})
	assert.ErrorIs(t, dialog.BorderIcons().SetMinimize(true), ErrCapability)
	assert.NoError(t, dialog.BorderIcons().SetHelp(false))

	sizeable := newTestWindow(t, Options{Type: Sizeable})
	assert.NoError(t, sizeable.BorderIcons().SetMaximize(false))
	assert.False(t, sizeable.BorderIcons().Maximize())
}

func TestResizeEmitsSpecificAndChangeEvents(t *testing.T) {
	w := newTestWindow(t, Options{})

	var topics []string
	w.Events().SubscribeAll(func(ev events.Event) {
		topics = append(topics, ev.Topic)
	})

	require.NoError(t, w.AdjustSize(800, 600))
	assert.Equal(t, []string{EventResize, EventChange}, topics)

	b := w.Bounds()
	assert.Equal(t, 800, b.Width)
	assert.Equal(t, 600, b.Height)
}

func TestResizeClampsToConstraints(t *testing.T) {
	c, err := NewConstraint(200, 400, 200, 400)
	require.NoError(t, err)
	w := newTestWindow(t, Options{Constraints: c})

	require.NoError(t, w.AdjustSize(1000, 100))
	b := w.Bounds()
	assert.Equal(t, 400, b.Width)
	assert.Equal(t, 200, b.Height)
}

func TestAdjustBoundsEmitsSingleBoundsEvent(t *testing.T) {
	w := newTestWindow(t, Options{})

	count := 0
	w.Events().Subscribe(EventBounds, func(events.Event) { count++ })

	require.NoError(t, w.AdjustBounds(Bounds{Left: 10, Top: 20, Width: 300, Height: 200}))
	assert.Equal(t, 1, count)
	assert.Equal(t, Bounds{Left: 10, Top: 20, Width: 300, Height: 200}, w.Bounds())
}

func TestCenter(t *testing.T) {
	w := newTestWindow(t, Options{})
	require.NoError(t, w.AdjustSize(400, 300))

	w.Center(Screen{Width: 1600, Height: 900})
	b := w.Bounds()
	assert.Equal(t, 600, b.Left)
	assert.Equal(t, 300, b.Top)
}

func TestStateTransitionsAreDirect(t *testing.T) {
	w := newTestWindow(t, Options{})

	require.NoError(t, w.Minimize())
	assert.Equal(t, StateMinimized, w.State())

	// Any state is reachable from any other.
	require.NoError(t, w.Maximize())
	assert.Equal(t, StateMaximized, w.State())

	w.FullScreen()
	assert.Equal(t, StateFullScreen, w.State())

	w.Restore()
	assert.Equal(t, StateNormal, w.State())
}

func TestStateCapabilityGating(t *testing.T) {
	w := newTestWindow(t, Options{Type: Tool})
	assert.ErrorIs(t, w.Minimize(), ErrCapability)
	assert.ErrorIs(t, w.Maximize(), ErrCapability)
}

func TestVisibilityIsIndependentOfState(t *testing.T) {
	w := newTestWindow(t, Options{})
	require.NoError(t, w.Minimize())

	w.Hide()
	assert.False(t, w.Visible())
	assert.Equal(t, StateMinimized, w.State())

	w.Show()
	assert.True(t, w.Visible())
	assert.Equal(t, StateMinimized, w.State())
}

func TestCloseWithoutQuery(t *testing.T) {
	w := newTestWindow(t, Options{})

	closed := false
	w.Events().Subscribe(EventClose, func(events.Event) { closed = true })

	require.NoError(t, w.Close(context.Background()))
	assert.True(t, closed)
	assert.True(t, w.Closed())
	assert.False(t, w.Visible())
}

func TestCloseQueryVeto(t *testing.T) {
	w := newTestWindow(t, Options{
		CloseQuery: func(context.Context) (bool, error) { return false, nil },
	})

	require.NoError(t, w.Close(context.Background()))
	assert.False(t, w.Closed())
}

func TestCloseQueryErrorStillCloses(t *testing.T) {
	boom := errors.New("unsaved changes")
	w := newTestWindow(t, Options{
		CloseQuery: func(context.Context) (bool, error) { return false, boom },
	})

	var reason interface{}
	w.Events().Subscribe(EventClose, func(ev events.Event) {
		reason = ev.Detail["reason"]
	})

	err := w.Close(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, w.Closed())
	assert.Equal(t, "unsaved changes", reason)
}

func TestDestroyBypassesQuery(t *testing.T) {
	called := false
	w := newTestWindow(t, Options{
		CloseQuery: func(context.Context) (bool, error) {
			called = true
			return false, nil
		},
	})

	w.Destroy()
	assert.True(t, w.Closed())
	assert.False(t, called)
}

func TestCloseIsIdempotent(t *testing.T) {
	w := newTestWindow(t, Options{})

	count := 0
	w.Events().Subscribe(EventClose, func(events.Event) { count++ })

	require.NoError(t, w.Close(context.Background()))
	require.NoError(t, w.Close(context.Background()))
	w.Destroy()

	assert.Equal(t, 1, count)
}

func TestSetterValidation(t *testing.T) {
	w := newTestWindow(t, Options{})

	assert.ErrorIs(t, w.SetName(""), ErrInvalidName)
	assert.ErrorIs(t, w.SetColor("nonsense!"), ErrInvalidColor)
	assert.ErrorIs(t, w.SetCursor("spinny"), ErrInvalidCursor)
	assert.ErrorIs(t, w.SetAlphaBlend(true, 256), ErrInvalidAlpha)
	assert.ErrorIs(t, w.SetScreenSnap(true, -1), ErrNegativeSnap)
	assert.ErrorIs(t, w.SetWidth(-10), ErrNegativeSize)

	require.NoError(t, w.SetColor("#336699"))
	assert.Equal(t, "#336699", w.Color())
}

func TestMarshalJSONUsesSnapshot(t *testing.T) {
	w := newTestWindow(t, Options{Name: "Notes"})

	data, err := json.Marshal(w)
	require.NoError(t, err)

	var info Info
	require.NoError(t, json.Unmarshal(data, &info))
	assert.Equal(t, "Notes", info.Name)
	assert.Equal(t, w.Handle().String(), info.Handle)
}
