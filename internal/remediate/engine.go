// Package remediate executes category-specific removal actions for threats.
// Every entry point returns a typed RemovalResult; platform failures are
// converted, never propagated, and a target that no longer exists always
// counts as success.
package remediate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform"
)

// RemovalResult is the outcome of one remediation attempt. The engine makes
// at most one attempt per invocation; retry policy belongs to the caller.
type RemovalResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	IsProtectedSystem bool   `json:"is_protected_system"`
}

const defaultElevationTimeout = 5 * time.Second

// Engine dispatches removal by threat category.
type Engine struct {
	Probe platform.Probe

	// Jail, when set together with QuarantineFirst, moves file threats into
	// quarantine instead of unlinking them.
	Jail            *Jail
	QuarantineFirst bool

	// ElevationTimeout bounds the external takeown/icacls invocations.
	ElevationTimeout time.Duration
}

// NewEngine returns an engine over the given probe.
func NewEngine(probe platform.Probe) *Engine {
	return &Engine{Probe: probe, ElevationTimeout: defaultElevationTimeout}
}

// Remove performs one remediation attempt for the threat. It reads the
// threat but never mutates it or the scan result it came from.
func (e *Engine) Remove(t core.Threat) (res RemovalResult) {
	defer func() {
		if r := recover(); r != nil {
			res = RemovalResult{Message: fmt.Sprintf("remediation failed: %v", r)}
		}
	}()

	switch t.Category {
	case core.CategoryProcess:
		return e.removeProcess(t)
	case core.CategoryFile:
		return e.removeFile(t)
	case core.CategoryStartup, core.CategoryRegistry:
		return e.removeRegistryValue(t)
	case core.CategoryScheduledTask:
		return e.removeService(t)
	case core.CategoryBrowserExtension:
		return RemovalResult{
			Message: "browser extensions must be removed through the browser's own uninstall; the extension directory may be locked by a running browser",
		}
	}
	return RemovalResult{Message: fmt.Sprintf("no automated remediation for category %q", t.Category)}
}

func (e *Engine) removeProcess(t core.Threat) RemovalResult {
	if core.IsCriticalProcess(t.Name) {
		return RemovalResult{
			Message:           fmt.Sprintf("%s is an OS-critical process and will not be terminated", t.Name),
			IsProtectedSystem: true,
		}
	}

	if t.ProcessID > 0 {
		if err := e.Probe.KillProcess(t.ProcessID); err == nil {
			return RemovalResult{Success: true, Message: fmt.Sprintf("terminated process %d", t.ProcessID)}
		}
		// The kill may have failed because the process already exited.
		if !e.processRunning(t.ProcessID) {
			return RemovalResult{Success: true, Message: "process already gone"}
		}
		return RemovalResult{Message: fmt.Sprintf("could not terminate process %d", t.ProcessID)}
	}

	// No pid recorded: best-effort match on base name without extension.
	procs, err := e.Probe.ListProcesses()
	if err != nil {
		return RemovalResult{Message: fmt.Sprintf("enumerate processes: %v", err)}
	}
	want := baseNameNoExt(t.Name)
	matched, failed := 0, 0
	for _, p := range procs {
		if baseNameNoExt(p.Name) != want {
			continue
		}
		matched++
		if err := e.Probe.KillProcess(p.PID); err != nil {
			failed++
		}
	}
	switch {
	case matched == 0:
		return RemovalResult{Success: true, Message: "no matching process running, already gone"}
	case failed == 0:
		return RemovalResult{Success: true, Message: fmt.Sprintf("terminated %d matching process(es)", matched)}
	}
	return RemovalResult{Message: fmt.Sprintf("failed to terminate %d of %d matching process(es)", failed, matched)}
}

func (e *Engine) processRunning(pid int) bool {
	procs, err := e.Probe.ListProcesses()
	if err != nil {
		return false
	}
	for _, p := range procs {
		if p.PID == pid {
			return true
		}
	}
	return false
}

func baseNameNoExt(name string) string {
	base := strings.ToLower(filepath.Base(name))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (e *Engine) removeFile(t core.Threat) RemovalResult {
	path := t.Location

	// The protected-path guard runs before anything touches the file; a
	// match never reaches the delete primitive.
	if core.IsProtectedPath(path) {
		return RemovalResult{
			Message:           fmt.Sprintf("%s is inside a protected system location; safe to ignore", path),
			IsProtectedSystem: true,
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return RemovalResult{Success: true, Message: "file already gone"}
	}

	if e.QuarantineFirst && e.Jail != nil {
		if cell, err := e.Jail.Lockup(path); err == nil {
			return RemovalResult{Success: true, Message: fmt.Sprintf("quarantined to %s", cell)}
		}
		// Quarantine failed (locked file, full disk): fall through to delete.
	}

	// Read-only/system attributes block deletion; clear them first.
	_ = e.Probe.SetFileAttributes(path, platform.FileAttrs{})

	err := e.Probe.DeleteFile(path)
	if err == nil || os.IsNotExist(err) {
		return RemovalResult{Success: true, Message: fmt.Sprintf("deleted %s", path)}
	}

	if isAccessDenied(err) {
		timeout := e.ElevationTimeout
		if timeout <= 0 {
			timeout = defaultElevationTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		retryErr := e.Probe.ElevateAndRetry(ctx, path, func() error {
			_ = e.Probe.SetFileAttributes(path, platform.FileAttrs{})
			return e.Probe.DeleteFile(path)
		})
		if retryErr == nil || os.IsNotExist(retryErr) {
			return RemovalResult{Success: true, Message: fmt.Sprintf("deleted %s after elevation", path)}
		}
		return RemovalResult{Message: fmt.Sprintf("delete failed even after elevation: %v", retryErr)}
	}

	return RemovalResult{Message: fmt.Sprintf("delete failed: %v", err)}
}

func isAccessDenied(err error) bool {
	if errors.Is(err, os.ErrPermission) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "access is denied") || strings.Contains(msg, "permission denied")
}

// removeRegistryValue deletes a startup or hijack value. The scanner records
// the logical location but the matching hive may differ between runs, so
// deletion is attempted in both hives; success means the value is absent
// from both afterwards.
func (e *Engine) removeRegistryValue(t core.Threat) RemovalResult {
	keyPath, valueName, err := parseRegistryLocation(t.Location)
	if err != nil {
		return RemovalResult{Message: err.Error()}
	}

	for _, hive := range []platform.Hive{platform.HiveCurrentUser, platform.HiveLocalMachine} {
		// Errors here are expected: the value only ever existed in one hive.
		_ = e.Probe.DeleteRegistryValue(hive, keyPath, valueName)
	}

	for _, hive := range []platform.Hive{platform.HiveCurrentUser, platform.HiveLocalMachine} {
		if _, err := e.Probe.ReadRegistryValue(hive, keyPath, valueName); err == nil {
			return RemovalResult{Message: fmt.Sprintf(`value %s still present under %s\%s`, valueName, hive, keyPath)}
		}
	}
	return RemovalResult{Success: true, Message: fmt.Sprintf("startup value %s removed", valueName)}
}

// parseRegistryLocation splits "HIVE\key\path\ValueName" into key path and
// value name. A missing hive prefix is tolerated.
func parseRegistryLocation(location string) (keyPath, valueName string, err error) {
	trimmed := location
	for _, prefix := range []string{`HKCU\`, `HKLM\`, `HKEY_CURRENT_USER\`, `HKEY_LOCAL_MACHINE\`} {
		if strings.HasPrefix(strings.ToUpper(trimmed), prefix) {
			trimmed = trimmed[len(prefix):]
			break
		}
	}
	idx := strings.LastIndex(trimmed, `\`)
	if idx <= 0 || idx == len(trimmed)-1 {
		return "", "", fmt.Errorf("unparseable registry location %q", location)
	}
	return trimmed[:idx], trimmed[idx+1:], nil
}

func (e *Engine) removeService(t core.Threat) RemovalResult {
	name := baseNameNoExt(t.Name)
	err := e.Probe.DisableAndStopService(name)
	if err == nil {
		return RemovalResult{Success: true, Message: fmt.Sprintf("service %s disabled and stopped", name)}
	}
	if errors.Is(err, os.ErrNotExist) || strings.Contains(strings.ToLower(err.Error()), "does not exist") {
		return RemovalResult{Success: true, Message: "service already gone"}
	}
	return RemovalResult{Message: fmt.Sprintf("disable service %s: %v", name, err)}
}
