// Package system covers host-side concerns for the decorator CLI: input
// discovery, reusable render buffers, and resource snapshots.
package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// FindLatestHTML returns the most recently modified .html/.htm file in dir.
func FindLatestHTML(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if !strings.HasSuffix(name, ".html") && !strings.HasSuffix(name, ".htm") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, e.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no HTML files found in %s", dir)
	}
	return latestFile, nil
}

// ListHTML expands path into the HTML files it denotes: the file itself, or
// every .html/.htm file directly inside a directory.
func ListHTML(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm") {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no HTML files found in %s", path)
	}
	return files, nil
}

// Stats is a point-in-time host snapshot printed by the CLI --stats flag.
type Stats struct {
	CPUCores       int
	GoRoutines     int
	HostMemTotalMB uint64
	HostMemUsedPct float64
	ProcRSSMB      uint64
}

// Snapshot collects host and process resource usage. Individual probes that
// fail leave their fields zero rather than failing the snapshot.
func Snapshot() Stats {
	s := Stats{
		GoRoutines: runtime.NumGoroutine(),
	}

	if n, err := cpu.Counts(true); err == nil {
		s.CPUCores = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.HostMemTotalMB = vm.Total / (1 << 20)
		s.HostMemUsedPct = vm.UsedPercent
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := proc.MemoryInfo(); err == nil {
			s.ProcRSSMB = mi.RSS / (1 << 20)
		}
	}
	return s
}
