package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webdesk/webdesk/internal/domain/window"
	"github.com/webdesk/webdesk/internal/shared/id"
)

// ListWindows returns every managed window in z-order, front first.
func (h *Handlers) ListWindows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"windows": h.system.Windows().Windows(),
	})
}

// CreateWindow opens a new window from typed creation options.
func (h *Handlers) CreateWindow(c *gin.Context) {
	var opts window.Options
	if err := c.ShouldBindJSON(&opts); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	w, err := h.system.Windows().CreateWindow(opts)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "window": w})
}

// GetWindow returns one window by handle. The literal handle "active"
// resolves to the frontmost window.
func (h *Handlers) GetWindow(c *gin.Context) {
	if c.Param("handle") == "active" {
		w := h.system.Windows().ActiveWindow()
		if w == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "window": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "window": w})
		return
	}
	w, ok := h.window(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "window": w})
}

// CloseWindow closes a window through its close query; force=true destroys
// it unconditionally.
func (h *Handlers) CloseWindow(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	if c.Query("force") == "true" {
		if err := h.system.Windows().DestroyWindow(w); err != nil {
			fail(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "closed": true})
		return
	}
	err := h.system.Windows().CloseWindow(c.Request.Context(), w)
	if err != nil {
		// A close query error still closes the window; report both facts.
		c.JSON(http.StatusOK, gin.H{"success": true, "closed": true, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "closed": w.Closed()})
}

// ActivateWindow brings a window to the front and focuses it.
func (h *Handlers) ActivateWindow(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	if err := h.system.Windows().Activate(w); err != nil {
		fail(c, http.StatusConflict, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// BringWindowToFront raises a window without changing focus.
func (h *Handlers) BringWindowToFront(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	if err := h.system.Windows().BringToFront(w); err != nil {
		fail(c, http.StatusConflict, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SendWindowToBack lowers a window to the end of the z-order.
func (h *Handlers) SendWindowToBack(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	if err := h.system.Windows().SendToBack(w); err != nil {
		fail(c, http.StatusConflict, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetWindowBounds moves and resizes a window in one step.
func (h *Handlers) SetWindowBounds(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	var b window.Bounds
	if err := c.ShouldBindJSON(&b); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := w.AdjustBounds(b); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bounds": w.Bounds()})
}

// CenterWindow centers a window on the configured screen.
func (h *Handlers) CenterWindow(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	w.Center(h.system.Windows().Screen())
	c.JSON(http.StatusOK, gin.H{"success": true, "bounds": w.Bounds()})
}

// SetWindowState transitions a window between normal, minimized, maximized
// and fullScreen.
func (h *Handlers) SetWindowState(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	var req struct {
		State window.State `json:"state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	var err error
	switch req.State {
	case window.StateNormal:
		w.Restore()
	case window.StateMinimized:
		err = w.Minimize()
	case window.StateMaximized:
		err = w.Maximize()
	case window.StateFullScreen:
		w.FullScreen()
	default:
		fail(c, http.StatusBadRequest, errors.New("unknown state "+string(req.State)))
		return
	}
	if err != nil {
		fail(c, http.StatusConflict, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "state": w.State()})
}

// SetWindowVisibility shows or hides a window.
func (h *Handlers) SetWindowVisibility(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	var req struct {
		Visible *bool `json:"visible" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if *req.Visible {
		w.Show()
	} else {
		w.Hide()
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "visible": w.Visible()})
}

func (h *Handlers) window(c *gin.Context) (*window.Window, bool) {
	handle := c.Param("handle")
	if !id.IsValidHandle(handle) {
		fail(c, http.StatusBadRequest, errors.New("malformed window handle"))
		return nil, false
	}
	w, err := h.system.Windows().FindWindow(id.WindowHandle(handle))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return nil, false
	}
	return w, true
}
