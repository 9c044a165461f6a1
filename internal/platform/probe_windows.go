//go:build windows

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// NewProbe returns the native Windows probe.
func NewProbe() Probe {
	return &windowsProbe{LocalProbe{}}
}

// windowsProbe overrides the portable probe with real registry, toolhelp,
// attribute and service-control access.
type windowsProbe struct {
	LocalProbe
}

func (p *windowsProbe) ListProcesses() ([]Process, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("process snapshot: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	if err := windows.Process32First(snapshot, &entry); err != nil {
		return nil, err
	}

	var procs []Process
	for {
		name := windows.UTF16ToString(entry.ExeFile[:])
		procs = append(procs, Process{
			PID:     int(entry.ProcessID),
			Name:    name,
			ExePath: exePathOf(entry.ProcessID),
		})
		if err := windows.Process32Next(snapshot, &entry); err != nil {
			break
		}
	}
	return procs, nil
}

// exePathOf resolves a process image path; empty when access is denied.
func exePathOf(pid uint32) string {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)

	var buf [windows.MAX_PATH]uint16
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	return windows.UTF16ToString(buf[:size])
}

func (p *windowsProbe) KillProcess(pid int) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	return windows.TerminateProcess(h, 1)
}

func rootKey(hive Hive) (registry.Key, error) {
	switch hive {
	case HiveCurrentUser:
		return registry.CURRENT_USER, nil
	case HiveLocalMachine:
		return registry.LOCAL_MACHINE, nil
	}
	return 0, fmt.Errorf("unknown hive %q", hive)
}

func (p *windowsProbe) ReadRegistryValue(hive Hive, key, name string) (string, error) {
	root, err := rootKey(hive)
	if err != nil {
		return "", err
	}
	k, err := registry.OpenKey(root, key, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer k.Close()

	val, _, err := k.GetStringValue(name)
	if err != nil {
		return "", err
	}
	return val, nil
}

func (p *windowsProbe) DeleteRegistryValue(hive Hive, key, name string) error {
	root, err := rootKey(hive)
	if err != nil {
		return err
	}
	k, err := registry.OpenKey(root, key, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()
	return k.DeleteValue(name)
}

func (p *windowsProbe) ListRegistryValueNames(hive Hive, key string) ([]string, error) {
	root, err := rootKey(hive)
	if err != nil {
		return nil, err
	}
	k, err := registry.OpenKey(root, key, registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}
	defer k.Close()
	return k.ReadValueNames(-1)
}

func (p *windowsProbe) FileAttributes(path string) (FileAttrs, error) {
	ptr, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return FileAttrs{}, err
	}
	attrs, err := windows.GetFileAttributes(ptr)
	if err != nil {
		return FileAttrs{}, err
	}
	return FileAttrs{
		Hidden:   attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0,
		ReadOnly: attrs&windows.FILE_ATTRIBUTE_READONLY != 0,
		System:   attrs&windows.FILE_ATTRIBUTE_SYSTEM != 0,
	}, nil
}

func (p *windowsProbe) SetFileAttributes(path string, attrs FileAttrs) error {
	ptr, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	var raw uint32 = windows.FILE_ATTRIBUTE_NORMAL
	if attrs.Hidden {
		raw |= windows.FILE_ATTRIBUTE_HIDDEN
	}
	if attrs.ReadOnly {
		raw |= windows.FILE_ATTRIBUTE_READONLY
	}
	if attrs.System {
		raw |= windows.FILE_ATTRIBUTE_SYSTEM
	}
	if raw != windows.FILE_ATTRIBUTE_NORMAL {
		raw &^= windows.FILE_ATTRIBUTE_NORMAL
	}
	return windows.SetFileAttributes(ptr, raw)
}

func (p *windowsProbe) ElevateAndRetry(ctx context.Context, path string, op func() error) error {
	// takeown then icacls, both as bounded external invocations. The ctx
	// deadline keeps a stuck child from hanging remediation.
	take := exec.CommandContext(ctx, "takeown", "/f", path)
	if out, err := take.CombinedOutput(); err != nil {
		return fmt.Errorf("takeown %s: %w (%s)", path, err, string(out))
	}

	grant := exec.CommandContext(ctx, "icacls", path, "/grant", "Administrators:F")
	if out, err := grant.CombinedOutput(); err != nil {
		return fmt.Errorf("icacls %s: %w (%s)", path, err, string(out))
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return op()
}

func (p *windowsProbe) DisableAndStopService(name string) error {
	// Disable first so the service cannot restart, then stop the running
	// instance. The stop step runs even if disabling failed; overall outcome
	// reflects the disable step.
	disable := exec.Command("sc", "config", name, "start=", "disabled")
	disableOut, disableErr := disable.CombinedOutput()

	stop := exec.Command("sc", "stop", name)
	_, _ = stop.CombinedOutput()

	if disableErr != nil {
		return fmt.Errorf("disable service %s: %w (%s)", name, disableErr, string(disableOut))
	}
	return nil
}
