// Package monitoring collects Prometheus metrics for the desktop core.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors. Register a single instance per
// process; collectors are created on a private registry so tests can build
// as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Window manager metrics
	WindowsOpen    prometheus.Gauge
	WindowsCreated prometheus.Counter

	// Kernel metrics
	ModulesRegistered prometheus.Gauge
	ModuleCalls       *prometheus.CounterVec
	ModuleErrors      *prometheus.CounterVec

	// Filesystem metrics
	FilesystemNodes prometheus.Gauge
	FilesystemOps   *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    prometheus.Counter

	Uptime    prometheus.GaugeFunc
	startTime time.Time
}

// NewMetrics creates a metrics collector on its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry:  registry,
		startTime: time.Now(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktopd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "desktopd_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		WindowsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "desktopd_windows_open",
			Help: "Windows currently held by the window manager",
		}),
		WindowsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "desktopd_windows_created_total",
			Help: "Windows created since startup",
		}),

		ModulesRegistered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "desktopd_kernel_modules_registered",
			Help: "Kernel modules currently registered",
		}),
		ModuleCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktopd_kernel_module_calls_total",
				Help: "Kernel module function calls",
			},
			[]string{"module", "function"},
		),
		ModuleErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktopd_kernel_module_errors_total",
				Help: "Kernel module function call failures",
			},
			[]string{"module", "function"},
		),

		FilesystemNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "desktopd_fs_nodes",
			Help: "Files and folders across all mounted disks",
		}),
		FilesystemOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktopd_fs_operations_total",
				Help: "Structural filesystem operations",
			},
			[]string{"op"},
		),

		WSConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "desktopd_ws_connections",
			Help: "Active event stream connections",
		}),
		WSMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "desktopd_ws_messages_total",
			Help: "Events pushed over the stream",
		}),
	}

	m.Uptime = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "desktopd_uptime_seconds",
		Help: "Process uptime",
	}, func() float64 {
		return time.Since(m.startTime).Seconds()
	})

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.WindowsOpen,
		m.WindowsCreated,
		m.ModulesRegistered,
		m.ModuleCalls,
		m.ModuleErrors,
		m.FilesystemNodes,
		m.FilesystemOps,
		m.WSConnections,
		m.WSMessages,
		m.Uptime,
	)
	return m
}

// Registry exposes the private registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
