package core

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// BaseDir is the engine's home for quarantine cells, reports and logs.
var BaseDir = defaultBaseDir()

var (
	QuarantineDir = filepath.Join(BaseDir, "Quarantine")
	ReportsDir    = filepath.Join(BaseDir, "Reports")
	LogsDir       = filepath.Join(BaseDir, "Logs")
)

func defaultBaseDir() string {
	if runtime.GOOS == "windows" {
		if pd := os.Getenv("ProgramData"); pd != "" {
			return filepath.Join(pd, "AtlasGuard")
		}
		return `C:\AtlasGuard`
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "atlasguard")
	}
	return filepath.Join(home, ".atlasguard")
}

// EnsureDirectories creates the engine directory tree if missing.
func EnsureDirectories() error {
	for _, d := range []string{BaseDir, QuarantineDir, ReportsDir, LogsDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

// protectedPathMarkers are OS-owned locations that must never be deleted
// automatically. Matching is case-insensitive substring over the full path.
var protectedPathMarkers = []string{
	"windows/system32/tasks",
	"windows/winsxs",
	"windows/servicing",
	"windows/installer",
	"$recycle.bin",
	"system volume information",
	"program files/windowsapps",
}

// IsProtectedPath reports whether path sits under an OS-owned location that
// remediation must leave alone.
func IsProtectedPath(path string) bool {
	// Normalize both separator styles so Windows paths match on any platform.
	lower := strings.ToLower(strings.ReplaceAll(path, `\`, "/"))
	for _, marker := range protectedPathMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// skipDirNames are directory names the traversal never descends into.
// Any name beginning with '$' is skipped as well.
var skipDirNames = map[string]bool{
	"$recycle.bin":              true,
	"system volume information": true,
	"windows.old":               true,
	"driverstore":               true,
	"softwaredistribution":      true,
}

// SkipDirectory reports whether a directory name is on the traversal
// deny-list.
func SkipDirectory(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "$") {
		return true
	}
	return skipDirNames[lower]
}

// criticalProcs are processes that must never be terminated, whatever the
// signature database says. Killing these takes the OS down with them.
var criticalProcs = map[string]bool{
	"smss.exe":     true,
	"csrss.exe":    true,
	"wininit.exe":  true,
	"services.exe": true,
	"lsass.exe":    true,
	"lsm.exe":      true,
	"svchost.exe":  true,
	"winlogon.exe": true,
	"msmpeng.exe":  true,
	"mpcmdrun.exe": true,
	"nissrv.exe":   true,
}

// IsCriticalProcess checks the hardcoded safety list. name should be the base
// name, e.g. "csrss.exe".
func IsCriticalProcess(name string) bool {
	return criticalProcs[strings.ToLower(name)]
}
