// Package server assembles the desktop process: managers, API and
// listener.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/webdesk/webdesk/internal/api/http"
	"github.com/webdesk/webdesk/internal/api/middleware"
	"github.com/webdesk/webdesk/internal/api/ws"
	"github.com/webdesk/webdesk/internal/domain/fs"
	"github.com/webdesk/webdesk/internal/domain/kernel"
	"github.com/webdesk/webdesk/internal/domain/kernel/modules/clipboard"
	"github.com/webdesk/webdesk/internal/domain/kernel/modules/sysinfo"
	"github.com/webdesk/webdesk/internal/domain/permission"
	"github.com/webdesk/webdesk/internal/domain/register"
	"github.com/webdesk/webdesk/internal/domain/system"
	"github.com/webdesk/webdesk/internal/domain/theme"
	"github.com/webdesk/webdesk/internal/domain/window"
	"github.com/webdesk/webdesk/internal/infrastructure/config"
	"github.com/webdesk/webdesk/internal/infrastructure/logging"
	"github.com/webdesk/webdesk/internal/infrastructure/monitoring"
)

// Server owns the wired desktop core and its HTTP listener.
type Server struct {
	cfg    *config.Config
	log    *logging.Logger
	system *system.SystemManager
	http   *http.Server
}

// New builds the whole process from configuration: every manager, the
// default C: disk, the built-in kernel modules and the API router.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	metrics := monitoring.NewMetrics()

	screen := window.Screen{Width: cfg.Desktop.ScreenWidth, Height: cfg.Desktop.ScreenHeight}
	windows := window.NewManager(screen, log).WithMetrics(metrics)

	kern := kernel.New(ctx, log, clipboard.New(), sysinfo.New()).WithMetrics(metrics)

	filesystem := fs.NewManager(log).WithMetrics(metrics)
	if _, err := filesystem.CreateDisk("C", "System"); err != nil {
		return nil, fmt.Errorf("mount system disk: %w", err)
	}

	permissions := permission.NewManager(log)
	if cfg.Desktop.PermissionPolicy == config.PolicyDeny {
		permissions.SetRequester(permission.DenyAll())
	} else {
		permissions.SetRequester(permission.AllowAll())
	}
	settings := register.NewManager(log)
	themes := theme.NewManager(log)

	if cfg.Seed.RegistryFile != "" {
		if err := settings.LoadSeed(cfg.Seed.RegistryFile); err != nil {
			return nil, fmt.Errorf("seed settings: %w", err)
		}
	}
	if cfg.Seed.ThemesFile != "" {
		if err := themes.LoadSeed(cfg.Seed.ThemesFile); err != nil {
			return nil, fmt.Errorf("seed themes: %w", err)
		}
	}

	sys := system.New(system.Managers{
		Windows:     windows,
		Kernel:      kern,
		Filesystem:  filesystem,
		Permissions: permissions,
		Register:    settings,
		Themes:      themes,
	}, log)

	router := buildRouter(cfg, sys, log, metrics)

	return &Server{
		cfg:    cfg,
		log:    log,
		system: sys,
		http: &http.Server{
			Addr:         cfg.Server.Address(),
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		},
	}, nil
}

func buildRouter(cfg *config.Config, sys *system.SystemManager, log *logging.Logger, metrics *monitoring.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.CORSOptions{Origins: cfg.Server.AllowedOrigins}))
	router.Use(middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst))
	router.Use(monitoring.Middleware(metrics))

	apihttp.NewHandlers(sys, log).RegisterRoutes(router)
	stream := ws.NewHandler(sys, log).WithMetrics(metrics)
	router.GET("/stream", stream.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))
	return router
}

// System exposes the composition root, mainly for tests.
func (s *Server) System() *system.SystemManager { return s.system }

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.log.Info("desktop server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the listener and tears the desktop down.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.system.Shutdown(ctx)
	_ = s.log.Sync()
	return err
}
