// Package http exposes the desktop core over a JSON API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webdesk/webdesk/internal/domain/system"
	"github.com/webdesk/webdesk/internal/infrastructure/logging"
)

// Handlers routes API requests into the system manager.
type Handlers struct {
	system *system.SystemManager
	log    *logging.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(sys *system.SystemManager, log *logging.Logger) *Handlers {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handlers{system: sys, log: log}
}

// RegisterRoutes mounts every API route on the router.
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	windows := r.Group("/windows")
	{
		windows.GET("", h.ListWindows)
		windows.POST("", h.CreateWindow)
		windows.GET("/:handle", h.GetWindow)
		windows.DELETE("/:handle", h.CloseWindow)
		windows.POST("/:handle/activate", h.ActivateWindow)
		windows.POST("/:handle/front", h.BringWindowToFront)
		windows.POST("/:handle/back", h.SendWindowToBack)
		windows.POST("/:handle/bounds", h.SetWindowBounds)
		windows.POST("/:handle/center", h.CenterWindow)
		windows.POST("/:handle/state", h.SetWindowState)
		windows.POST("/:handle/visibility", h.SetWindowVisibility)
	}

	kernelRoutes := r.Group("/kernel")
	{
		kernelRoutes.GET("/modules", h.ListModules)
		kernelRoutes.GET("/modules/:name", h.GetModule)
		kernelRoutes.POST("/call", h.CallModule)
	}

	fsRoutes := r.Group("/fs")
	{
		fsRoutes.GET("/disks", h.ListDisks)
		fsRoutes.POST("/disks", h.CreateDisk)
		fsRoutes.DELETE("/disks/:letter", h.RemoveDisk)
		fsRoutes.GET("/list", h.ListItems)
		fsRoutes.GET("/file", h.ReadFile)
		fsRoutes.POST("/file", h.WriteFile)
		fsRoutes.POST("/folder", h.CreateFolder)
		fsRoutes.DELETE("/item", h.DeleteItem)
		fsRoutes.POST("/lock", h.LockItem)
		fsRoutes.POST("/unlock", h.UnlockItem)
		fsRoutes.GET("/find", h.FindItems)
	}

	permissionRoutes := r.Group("/permissions")
	{
		permissionRoutes.GET("/:handle", h.ListGrants)
		permissionRoutes.POST("/:handle/allow", h.AllowPermission)
		permissionRoutes.POST("/:handle/deny", h.DenyPermission)
		permissionRoutes.POST("/:handle/revoke", h.RevokePermission)
		permissionRoutes.DELETE("/:handle", h.ForgetPermissions)
	}

	registerRoutes := r.Group("/register")
	{
		registerRoutes.GET("/keys", h.ListSubkeys)
		registerRoutes.POST("/keys", h.CreateKey)
		registerRoutes.DELETE("/keys", h.DeleteKey)
		registerRoutes.GET("/values", h.ListValues)
		registerRoutes.POST("/values", h.SetValue)
		registerRoutes.DELETE("/values", h.DeleteValue)
	}

	themeRoutes := r.Group("/themes")
	{
		themeRoutes.GET("", h.ListThemes)
		themeRoutes.GET("/:name", h.GetTheme)
		themeRoutes.POST("", h.DefineTheme)
		themeRoutes.POST("/:name/apply", h.ApplyTheme)
	}
}

// Health reports liveness and kernel readiness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"kernel_ready": h.system.Kernel().Ready(),
		"windows":      h.system.Windows().Len(),
	})
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
