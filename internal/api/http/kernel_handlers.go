package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webdesk/webdesk/internal/domain/kernel"
	"github.com/webdesk/webdesk/internal/domain/permission"
	"github.com/webdesk/webdesk/internal/shared/id"
)

// ListModules returns every registered kernel module.
func (h *Handlers) ListModules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ready":   h.system.Kernel().Ready(),
		"modules": h.system.Kernel().Modules(),
	})
}

// GetModule returns one module's registration state.
func (h *Handlers) GetModule(c *gin.Context) {
	name := c.Param("name")
	if !h.system.Kernel().CheckModuleIsRegistered(name) {
		fail(c, http.StatusNotFound, kernel.ErrModuleNotRegistered)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"name":       name,
		"registered": true,
		"available":  h.system.Kernel().CheckModuleIsAvailable(name),
		"ready":      h.system.Kernel().CheckModuleIsReady(name),
	})
}

// CallModule dispatches a module function call on behalf of a window. The
// call goes through the permission layer; a denied grant is a 403.
func (h *Handlers) CallModule(c *gin.Context) {
	var req struct {
		Handle   string                 `json:"handle" binding:"required"`
		Module   string                 `json:"module" binding:"required"`
		Function string                 `json:"function" binding:"required"`
		Args     map[string]interface{} `json:"args"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if !id.IsValidHandle(req.Handle) {
		fail(c, http.StatusBadRequest, errors.New("malformed window handle"))
		return
	}

	result, err := h.system.Call(c.Request.Context(), id.WindowHandle(req.Handle), req.Module, req.Function, req.Args)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, permission.ErrDenied), errors.Is(err, permission.ErrNoRequester):
			status = http.StatusForbidden
		case errors.Is(err, kernel.ErrModuleNotRegistered), errors.Is(err, kernel.ErrUnknownFunction):
			status = http.StatusNotFound
		case errors.Is(err, kernel.ErrModuleNotAvailable):
			status = http.StatusServiceUnavailable
		}
		fail(c, status, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}
