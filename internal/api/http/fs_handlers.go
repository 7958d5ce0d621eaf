package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/webdesk/webdesk/internal/domain/fs"
)

func itemJSON(n fs.Node) gin.H {
	switch v := n.(type) {
	case *fs.File:
		return gin.H{
			"type":     "file",
			"name":     v.Name(),
			"path":     v.Path(),
			"readonly": v.Readonly(),
			"hidden":   v.Hidden(),
			"system":   v.System(),
			"locked":   v.Locked(),
		}
	case *fs.Folder:
		return gin.H{
			"type":   "folder",
			"name":   v.Name(),
			"path":   v.Path(),
			"hidden": v.Hidden(),
			"system": v.System(),
			"locked": v.Locked(),
		}
	}
	return gin.H{"name": n.Name(), "path": n.Path()}
}

func fsStatus(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotFound), errors.Is(err, fs.ErrDiskNotFound):
		return http.StatusNotFound
	case errors.Is(err, fs.ErrExists), errors.Is(err, fs.ErrDiskExists):
		return http.StatusConflict
	case errors.Is(err, fs.ErrLocked), errors.Is(err, fs.ErrNotLocked),
		errors.Is(err, fs.ErrWrongPassword), errors.Is(err, fs.ErrReadonly):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// ListDisks returns every mounted disk.
func (h *Handlers) ListDisks(c *gin.Context) {
	disks := h.system.Filesystem().Disks()
	out := make([]gin.H, 0, len(disks))
	for _, d := range disks {
		out = append(out, gin.H{
			"letter": d.Letter(),
			"label":  d.Label(),
			"path":   d.Path(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "disks": out})
}

// CreateDisk mounts a fresh disk.
func (h *Handlers) CreateDisk(c *gin.Context) {
	var req struct {
		Letter string `json:"letter" binding:"required"`
		Label  string `json:"label" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	d, err := h.system.Filesystem().CreateDisk(req.Letter, req.Label)
	if err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "letter": d.Letter(), "path": d.Path()})
}

// RemoveDisk unmounts a disk and drops its whole tree.
func (h *Handlers) RemoveDisk(c *gin.Context) {
	if err := h.system.Filesystem().RemoveDisk(c.Param("letter")); err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListItems lists the direct children of a disk root or folder.
func (h *Handlers) ListItems(c *gin.Context) {
	container, err := h.system.Filesystem().ResolveContainer(c.Query("path"))
	if err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	items := container.Items()
	out := make([]gin.H, 0, len(items))
	for _, n := range items {
		out = append(out, itemJSON(n))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": container.Path(), "items": out})
}

// ReadFile returns a file's content and attributes.
func (h *Handlers) ReadFile(c *gin.Context) {
	f, err := h.system.Filesystem().ResolveFile(c.Query("path"))
	if err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	out := itemJSON(f)
	out["content"] = f.Content()
	out["success"] = true
	c.JSON(http.StatusOK, out)
}

// WriteFile overwrites an existing file's content, or creates the file when
// the path's parent exists and the leaf does not.
func (h *Handlers) WriteFile(c *gin.Context) {
	var req struct {
		Path    string `json:"path" binding:"required"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	if f, err := h.system.Filesystem().ResolveFile(req.Path); err == nil {
		if err := f.SetContent(req.Content); err != nil {
			fail(c, fsStatus(err), err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "path": f.Path(), "created": false})
		return
	}

	dir, leaf, err := splitLeaf(req.Path)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	container, err := h.system.Filesystem().ResolveContainer(dir)
	if err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	f, err := container.CreateFile(leaf, req.Content)
	if err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "path": f.Path(), "created": true})
}

// CreateFolder creates the folder a path names. The parent must exist.
func (h *Handlers) CreateFolder(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	dir, leaf, err := splitLeaf(req.Path)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	container, err := h.system.Filesystem().ResolveContainer(dir)
	if err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	sub, err := container.CreateFolder(leaf)
	if err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "path": sub.Path()})
}

// DeleteItem removes the file or folder a path names.
func (h *Handlers) DeleteItem(c *gin.Context) {
	path := c.Query("path")
	dir, leaf, err := splitLeaf(path)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	container, err := h.system.Filesystem().ResolveContainer(dir)
	if err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	if container.HasFolder(leaf) {
		err = container.DeleteFolder(leaf)
	} else {
		err = container.DeleteFile(leaf)
	}
	if err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// LockItem password-protects a file or folder.
func (h *Handlers) LockItem(c *gin.Context) {
	h.setItemLock(c, true)
}

// UnlockItem lifts a lock with the matching password.
func (h *Handlers) UnlockItem(c *gin.Context) {
	h.setItemLock(c, false)
}

func (h *Handlers) setItemLock(c *gin.Context, lock bool) {
	var req struct {
		Path     string `json:"path" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	n, err := h.system.Filesystem().Resolve(req.Path)
	if err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	switch v := n.(type) {
	case *fs.File:
		if lock {
			err = v.Lock(req.Password)
		} else {
			err = v.Unlock(req.Password)
		}
	case *fs.Folder:
		if lock {
			err = v.Lock(req.Password)
		} else {
			err = v.Unlock(req.Password)
		}
	default:
		fail(c, http.StatusBadRequest, errors.New("disks cannot be locked"))
		return
	}
	if err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// FindItems matches node names under a subtree against a glob pattern.
func (h *Handlers) FindItems(c *gin.Context) {
	container, err := h.system.Filesystem().ResolveContainer(c.Query("path"))
	if err != nil {
		fail(c, fsStatus(err), err)
		return
	}
	matches, err := container.Find(c.Query("pattern"))
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "matches": matches})
}

// splitLeaf separates a path into its parent container path and leaf name.
func splitLeaf(path string) (dir, leaf string, err error) {
	trimmed := strings.TrimSuffix(path, fs.Separator)
	i := strings.LastIndex(trimmed, fs.Separator)
	if i < 0 || len(trimmed) < 3 {
		return "", "", errors.New("path has no parent: " + path)
	}
	dir, leaf = trimmed[:i], trimmed[i+1:]
	if leaf == "" {
		return "", "", errors.New("path has no leaf: " + path)
	}
	return dir, leaf, nil
}
