package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdesk/webdesk/internal/shared/events"
	"github.com/webdesk/webdesk/internal/shared/id"
)

func TestRequestWithoutRequesterFails(t *testing.T) {
	m := NewManager(nil)
	_, err := m.Request(context.Background(), id.NewWindowHandle(), "clipboard", "paste")
	assert.ErrorIs(t, err, ErrNoRequester)
}

func TestRequestRecordsDecision(t *testing.T) {
	m := NewManager(nil)
	asked := 0
	m.SetRequester(func(ctx context.Context, h id.WindowHandle, module, function string) (bool, error) {
		asked++
		return true, nil
	})

	h := id.NewWindowHandle()
	ok, err := m.Request(context.Background(), h, "clipboard", "paste")
	require.NoError(t, err)
	assert.True(t, ok)

	// The second request is answered from the record.
	ok, err = m.Request(context.Background(), h, "clipboard", "paste")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, asked)
	assert.True(t, m.Check(h, "clipboard", "paste"))
}

func TestDenialIsRemembered(t *testing.T) {
	m := NewManager(nil)
	asked := 0
	m.SetRequester(func(ctx context.Context, h id.WindowHandle, module, function string) (bool, error) {
		asked++
		return false, nil
	})

	h := id.NewWindowHandle()
	_, err := m.Request(context.Background(), h, "clipboard", "paste")
	assert.ErrorIs(t, err, ErrDenied)
	_, err = m.Request(context.Background(), h, "clipboard", "paste")
	assert.ErrorIs(t, err, ErrDenied)
	assert.Equal(t, 1, asked)
}

func TestRequesterErrorIsNotRecorded(t *testing.T) {
	m := NewManager(nil)
	boom := errors.New("prompt timed out")
	m.SetRequester(func(ctx context.Context, h id.WindowHandle, module, function string) (bool, error) {
		return false, boom
	})

	h := id.NewWindowHandle()
	_, err := m.Request(context.Background(), h, "clipboard", "paste")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, m.Grants(h))
}

func TestGrantsAreScopedPerFunction(t *testing.T) {
	m := NewManager(nil)
	h := id.NewWindowHandle()

	m.Allow(h, "clipboard", "paste")
	assert.True(t, m.Check(h, "clipboard", "paste"))
	assert.False(t, m.Check(h, "clipboard", "copy"))
	assert.False(t, m.Check(h, "sysinfo", "paste"))
	assert.False(t, m.Check(id.NewWindowHandle(), "clipboard", "paste"))
}

func TestRevoke(t *testing.T) {
	m := NewManager(nil)
	h := id.NewWindowHandle()
	m.Allow(h, "clipboard", "paste")

	revokes := 0
	m.Events().Subscribe(EventRevoke, func(events.Event) { revokes++ })

	m.Revoke(h, "clipboard", "paste")
	assert.False(t, m.Check(h, "clipboard", "paste"))
	assert.Equal(t, 1, revokes)

	// Revoking again, or revoking the unknown, is a no-op.
	m.Revoke(h, "clipboard", "paste")
	m.Revoke(h, "clipboard", "copy")
	assert.Equal(t, 1, revokes)

	grants := m.Grants(h)
	require.Len(t, grants, 1)
	assert.False(t, grants[0].Granted)
	assert.False(t, grants[0].RevokedAt.IsZero())
}

func TestRevokeAll(t *testing.T) {
	m := NewManager(nil)
	h := id.NewWindowHandle()
	m.Allow(h, "clipboard", "paste")
	m.Allow(h, "clipboard", "copy")
	m.Allow(h, "sysinfo", "memory")
	m.Deny(h, "sysinfo", "host")

	revokes := 0
	m.Events().Subscribe(EventRevoke, func(events.Event) { revokes++ })

	m.RevokeAll(h)
	assert.Equal(t, 3, revokes)
	for _, g := range m.Grants(h) {
		assert.False(t, g.Granted)
	}
}

func TestForgetGoesBackThroughRequester(t *testing.T) {
	m := NewManager(nil)
	asked := 0
	m.SetRequester(func(ctx context.Context, h id.WindowHandle, module, function string) (bool, error) {
		asked++
		return true, nil
	})

	h := id.NewWindowHandle()
	_, err := m.Request(context.Background(), h, "clipboard", "paste")
	require.NoError(t, err)

	m.Forget(h)
	assert.Empty(t, m.Grants(h))

	_, err = m.Request(context.Background(), h, "clipboard", "paste")
	require.NoError(t, err)
	assert.Equal(t, 2, asked)
}

func TestPolicyRequesters(t *testing.T) {
	m := NewManager(nil)
	m.SetRequester(AllowAll())
	h := id.NewWindowHandle()

	ok, err := m.Request(context.Background(), h, "clipboard", "paste")
	require.NoError(t, err)
	assert.True(t, ok)

	m.SetRequester(DenyAll())
	_, err = m.Request(context.Background(), h, "clipboard", "copy")
	assert.ErrorIs(t, err, ErrDenied)

	// An explicit grant still wins under the deny policy.
	m.Allow(h, "sysinfo", "memory")
	ok, err = m.Request(context.Background(), h, "sysinfo", "memory")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeniedGrantOverriddenByAllow(t *testing.T) {
	m := NewManager(nil)
	h := id.NewWindowHandle()

	m.Deny(h, "clipboard", "paste")
	assert.False(t, m.Check(h, "clipboard", "paste"))

	m.Allow(h, "clipboard", "paste")
	assert.True(t, m.Check(h, "clipboard", "paste"))

	grants := m.Grants(h)
	require.Len(t, grants, 1)
	assert.False(t, grants[0].GrantedAt.IsZero())
	assert.True(t, grants[0].RevokedAt.IsZero())
}
