// Package platform abstracts the OS primitives the scanning and remediation
// engine calls into: process enumeration, registry access, service control
// and file attribute handling. The engine only ever talks to the Probe
// interface; tests substitute a fake.
package platform

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by probe operations that have no meaning on the
// current platform, e.g. registry access outside Windows.
var ErrUnsupported = errors.New("operation not supported on this platform")

// Hive names a registry root.
type Hive string

const (
	HiveCurrentUser  Hive = "HKCU"
	HiveLocalMachine Hive = "HKLM"
)

// Process is one running process.
type Process struct {
	PID     int
	Name    string
	ExePath string
}

// FileAttrs carries the file attribute bits remediation cares about.
type FileAttrs struct {
	Hidden   bool
	ReadOnly bool
	System   bool
}

// Probe exposes the OS surface consumed by the engine. Implementations must
// return errors rather than panic; every caller treats a failing probe call
// as a skippable or reportable condition.
type Probe interface {
	ListProcesses() ([]Process, error)
	KillProcess(pid int) error

	ReadRegistryValue(hive Hive, key, name string) (string, error)
	DeleteRegistryValue(hive Hive, key, name string) error
	ListRegistryValueNames(hive Hive, key string) ([]string, error)

	ListScheduledTaskFiles() ([]string, error)

	FileAttributes(path string) (FileAttrs, error)
	SetFileAttributes(path string, attrs FileAttrs) error
	DeleteFile(path string) error
	ComputeFileHash(path string) (string, error)

	// ElevateAndRetry takes ownership of path, grants the current
	// administrative principal full control, then retries op. The ctx bounds
	// the external ownership/ACL commands so a wedged child process cannot
	// hang remediation.
	ElevateAndRetry(ctx context.Context, path string, op func() error) error

	// DisableAndStopService disables the service, then stops it. Both steps
	// are attempted even if the first fails; the returned error reflects the
	// disable step.
	DisableAndStopService(name string) error
}
