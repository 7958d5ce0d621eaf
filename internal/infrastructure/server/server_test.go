package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdesk/webdesk/internal/domain/permission"
	"github.com/webdesk/webdesk/internal/domain/window"
	"github.com/webdesk/webdesk/internal/infrastructure/config"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := New(context.Background(), cfg)
	require.NoError(t, err)
	return srv
}

func TestDefaultPolicyPermitsKernelCalls(t *testing.T) {
	srv := newTestServer(t, config.Default())

	w, err := srv.System().Windows().CreateWindow(window.Options{Type: window.Sizeable})
	require.NoError(t, err)

	payload, err := json.Marshal(map[string]interface{}{
		"handle":   w.Handle().String(),
		"module":   "clipboard",
		"function": "copy",
		"args":     map[string]interface{}{"data": "hi"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/kernel/call", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The decision is recorded, not re-asked.
	assert.True(t, srv.System().Permissions().Check(w.Handle(), "clipboard", "copy"))
}

func TestDenyPolicyRequiresExplicitGrant(t *testing.T) {
	cfg := config.Default()
	cfg.Desktop.PermissionPolicy = config.PolicyDeny
	srv := newTestServer(t, cfg)

	w, err := srv.System().Windows().CreateWindow(window.Options{Type: window.Sizeable})
	require.NoError(t, err)

	_, err = srv.System().Call(context.Background(), w.Handle(), "clipboard", "copy", nil)
	assert.ErrorIs(t, err, permission.ErrDenied)

	srv.System().Permissions().Allow(w.Handle(), "clipboard", "copy")
	result, err := srv.System().Call(context.Background(), w.Handle(), "clipboard", "copy",
		map[string]interface{}{"data": "hi"})
	require.NoError(t, err)
	assert.Equal(t, true, result["copied"])
}

func TestRouterExposesPermissionRoutes(t *testing.T) {
	srv := newTestServer(t, config.Default())

	w, err := srv.System().Windows().CreateWindow(window.Options{Type: window.Sizeable})
	require.NoError(t, err)
	srv.System().Permissions().Allow(w.Handle(), "clipboard", "copy")

	req := httptest.NewRequest(http.MethodGet, "/permissions/"+w.Handle().String(), nil)
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Grants []permission.Grant `json:"grants"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Grants, 1)
	assert.Equal(t, "clipboard", body.Grants[0].Module)
}
