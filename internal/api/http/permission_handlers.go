package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webdesk/webdesk/internal/shared/id"
)

// grantRequest names one module function on behalf of a window.
type grantRequest struct {
	Module   string `json:"module" binding:"required"`
	Function string `json:"function" binding:"required"`
}

// ListGrants returns every recorded decision for a window, granted and
// denied alike. Records of closed windows stay visible until forgotten.
func (h *Handlers) ListGrants(c *gin.Context) {
	handle, ok := h.handleParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"handle":  handle.String(),
		"grants":  h.system.Permissions().Grants(handle),
	})
}

// AllowPermission grants a module function to a managed window.
func (h *Handlers) AllowPermission(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	h.system.Permissions().Allow(w.Handle(), req.Module, req.Function)
	c.JSON(http.StatusOK, gin.H{"success": true, "granted": true})
}

// DenyPermission records a refusal so the request callback is never
// consulted for the combination.
func (h *Handlers) DenyPermission(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	h.system.Permissions().Deny(w.Handle(), req.Module, req.Function)
	c.JSON(http.StatusOK, gin.H{"success": true, "granted": false})
}

// RevokePermission turns an active grant negative.
func (h *Handlers) RevokePermission(c *gin.Context) {
	handle, ok := h.handleParam(c)
	if !ok {
		return
	}
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	h.system.Permissions().Revoke(handle, req.Module, req.Function)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ForgetPermissions drops every record for a window so future requests go
// back through the request callback.
func (h *Handlers) ForgetPermissions(c *gin.Context) {
	handle, ok := h.handleParam(c)
	if !ok {
		return
	}
	h.system.Permissions().Forget(handle)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleParam validates the handle path parameter without requiring the
// window to still be managed.
func (h *Handlers) handleParam(c *gin.Context) (id.WindowHandle, bool) {
	handle := c.Param("handle")
	if !id.IsValidHandle(handle) {
		fail(c, http.StatusBadRequest, errors.New("malformed window handle"))
		return "", false
	}
	return id.WindowHandle(handle), true
}
