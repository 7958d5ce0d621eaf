// Package sysinfo implements the system information kernel module, a thin
// wrapper over the host's process/memory/cpu statistics.
package sysinfo

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/webdesk/webdesk/internal/domain/kernel"
)

// Module exposes host, cpu, and memory queries.
type Module struct {
	*kernel.BaseModule
}

// New creates the sysinfo module.
func New() *Module {
	return &Module{
		BaseModule: kernel.NewBaseModule(kernel.Meta{
			Name:    "sysinfo",
			Version: "1.0.3",
			Date:    "2025-09-18",
			Author:  "WebDesk Team",
		}),
	}
}

// EnsureDependencies probes the host statistics interface. On platforms
// where it is unreadable the module stays registered but unavailable.
func (m *Module) EnsureDependencies(ctx context.Context) error {
	if _, err := host.InfoWithContext(ctx); err != nil {
		return fmt.Errorf("sysinfo: host probe: %w", err)
	}
	m.SetReady()
	return nil
}

// Call dispatches a sysinfo function by name.
func (m *Module) Call(ctx context.Context, function string, args map[string]interface{}) (map[string]interface{}, error) {
	switch function {
	case "host":
		return m.host(ctx)
	case "memory":
		return m.memory(ctx)
	case "cpu":
		return m.cpu(ctx)
	case "uptime":
		return m.uptime(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", kernel.ErrUnknownFunction, function)
	}
}

func (m *Module) host(ctx context.Context) (map[string]interface{}, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"hostname": info.Hostname,
		"os":       info.OS,
		"platform": info.Platform,
		"arch":     info.KernelArch,
		"bootTime": info.BootTime,
	}, nil
}

func (m *Module) memory(ctx context.Context) (map[string]interface{}, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"total":       vm.Total,
		"available":   vm.Available,
		"used":        vm.Used,
		"usedPercent": vm.UsedPercent,
	}, nil
}

func (m *Module) cpu(ctx context.Context) (map[string]interface{}, error) {
	counts, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return nil, err
	}
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, err
	}
	var overall float64
	if len(percents) > 0 {
		overall = percents[0]
	}
	return map[string]interface{}{
		"cores":       counts,
		"usedPercent": overall,
	}, nil
}

func (m *Module) uptime(ctx context.Context) (map[string]interface{}, error) {
	up, err := host.UptimeWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"seconds": up}, nil
}
