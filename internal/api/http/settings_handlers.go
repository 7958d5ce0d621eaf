package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webdesk/webdesk/internal/domain/register"
	"github.com/webdesk/webdesk/internal/domain/theme"
)

func registerStatus(err error) int {
	switch {
	case errors.Is(err, register.ErrKeyNotFound), errors.Is(err, register.ErrValueMissing):
		return http.StatusNotFound
	case errors.Is(err, register.ErrValueNotType):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// ListSubkeys lists the child key names under a path. An empty path lists
// the top-level keys.
func (h *Handlers) ListSubkeys(c *gin.Context) {
	path := c.Query("path")
	subkeys, err := h.system.Register().Subkeys(path)
	if err != nil {
		fail(c, registerStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": path, "subkeys": subkeys})
}

// CreateKey creates a settings key and any missing ancestors.
func (h *Handlers) CreateKey(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := h.system.Register().CreateKey(req.Path); err != nil {
		fail(c, registerStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "path": req.Path})
}

// DeleteKey removes a key and its subtree.
func (h *Handlers) DeleteKey(c *gin.Context) {
	path := c.Query("path")
	if err := h.system.Register().DeleteKey(path); err != nil {
		fail(c, registerStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListValues returns the named values under a key.
func (h *Handlers) ListValues(c *gin.Context) {
	path := c.Query("path")
	values, err := h.system.Register().Values(path)
	if err != nil {
		fail(c, registerStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": path, "values": values})
}

// SetValue stores a typed value under a key, creating the key as needed.
func (h *Handlers) SetValue(c *gin.Context) {
	var req struct {
		Path  string      `json:"path" binding:"required"`
		Name  string      `json:"name" binding:"required"`
		Value interface{} `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	var err error
	switch v := req.Value.(type) {
	case string:
		err = h.system.Register().SetString(req.Path, req.Name, v)
	case bool:
		err = h.system.Register().SetBool(req.Path, req.Name, v)
	case float64:
		// JSON numbers arrive as float64; whole values store as integers.
		if v == float64(int64(v)) {
			err = h.system.Register().SetInt(req.Path, req.Name, int64(v))
		} else {
			err = h.system.Register().SetFloat(req.Path, req.Name, v)
		}
	default:
		fail(c, http.StatusBadRequest, errors.New("value must be a string, number or boolean"))
		return
	}
	if err != nil {
		fail(c, registerStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteValue removes a named value from a key.
func (h *Handlers) DeleteValue(c *gin.Context) {
	if err := h.system.Register().DeleteValue(c.Query("path"), c.Query("name")); err != nil {
		fail(c, registerStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListThemes lists the defined theme names and the current selection.
func (h *Handlers) ListThemes(c *gin.Context) {
	current, _ := h.system.Themes().Current()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"themes":  h.system.Themes().Names(),
		"current": current.Name,
	})
}

// GetTheme returns one defined theme. The literal name "current" resolves
// to the active theme.
func (h *Handlers) GetTheme(c *gin.Context) {
	var (
		t   theme.Theme
		err error
	)
	if name := c.Param("name"); name == "current" {
		t, err = h.system.Themes().Current()
	} else {
		t, err = h.system.Themes().Theme(name)
	}
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "theme": t})
}

// DefineTheme registers a new theme.
func (h *Handlers) DefineTheme(c *gin.Context) {
	var t theme.Theme
	if err := c.ShouldBindJSON(&t); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := h.system.Themes().Define(t); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, theme.ErrThemeExists) {
			status = http.StatusConflict
		}
		fail(c, status, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "theme": t.Name})
}

// ApplyTheme makes a defined theme current.
func (h *Handlers) ApplyTheme(c *gin.Context) {
	name := c.Param("name")
	if err := h.system.Themes().Apply(name); err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "theme": name})
}
