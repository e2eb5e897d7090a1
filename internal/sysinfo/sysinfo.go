// Package sysinfo gathers host details for the startup log and the doctor
// command. Uses gopsutil for cross-platform host and process data.
package sysinfo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

// Host describes the machine the backend runs on.
type Host struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	KernelArch      string `json:"kernel_arch"`
	UptimeSeconds   uint64 `json:"uptime_seconds"`
}

// Fields returns the host as zap fields.
func (h Host) Fields() []zap.Field {
	return []zap.Field{
		zap.String("hostname", h.Hostname),
		zap.String("os", h.OS),
		zap.String("platform", h.Platform),
		zap.String("platform_version", h.PlatformVersion),
		zap.String("arch", h.KernelArch),
	}
}

var (
	hostOnce  sync.Once
	hostCache Host
)

// Collect returns host details. Results are cached after the first call;
// fields gopsutil cannot determine fall back to runtime values.
func Collect(ctx context.Context) Host {
	hostOnce.Do(func() {
		hostCache = collectHost(ctx)
	})
	return hostCache
}

func collectHost(ctx context.Context) Host {
	h := Host{
		OS:         runtime.GOOS,
		Platform:   "unknown",
		KernelArch: runtime.GOARCH,
	}
	info, err := host.InfoWithContext(ctx)
	if err != nil || info == nil {
		h.Hostname, _ = os.Hostname()
		return h
	}
	h.Hostname = info.Hostname
	if info.Platform != "" {
		h.Platform = info.Platform
	}
	h.PlatformVersion = info.PlatformVersion
	if info.KernelArch != "" {
		h.KernelArch = info.KernelArch
	}
	h.UptimeSeconds = info.Uptime
	return h
}

// Instance is another running copy of this program.
type Instance struct {
	PID  int32  `json:"pid"`
	Name string `json:"name"`
}

// OtherInstances lists running processes with the same executable name as
// the current one, excluding this process. Processes that cannot be
// inspected are skipped.
func OtherInstances(ctx context.Context) ([]Instance, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]Instance, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		candidates = append(candidates, Instance{PID: p.Pid, Name: name})
	}
	return matchInstances(int32(os.Getpid()), filepath.Base(exe), candidates), nil
}

func matchInstances(self int32, exeName string, candidates []Instance) []Instance {
	want := normalizeName(exeName)
	var out []Instance
	for _, c := range candidates {
		if c.PID == self || normalizeName(c.Name) != want {
			continue
		}
		out = append(out, c)
	}
	return out
}

// normalizeName makes names comparable across platforms, where process
// names may or may not carry the .exe suffix and differ in case.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(name, ".exe")
}

// ParentExecutable returns the executable path of the process that started
// this one.
func ParentExecutable(ctx context.Context) (string, error) {
	ppid := os.Getppid()
	if ppid <= 0 {
		return "", fmt.Errorf("no parent process")
	}
	p, err := process.NewProcessWithContext(ctx, int32(ppid))
	if err != nil {
		return "", fmt.Errorf("looking up parent process %d: %w", ppid, err)
	}
	exe, err := p.ExeWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("reading parent executable: %w", err)
	}
	if exe == "" {
		return "", fmt.Errorf("parent process %d has no executable path", ppid)
	}
	return exe, nil
}
