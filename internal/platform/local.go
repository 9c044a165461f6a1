package platform

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalProbe is the portable Probe implementation. File operations use the
// plain os package; registry and service control report ErrUnsupported.
// On Windows builds NewProbe returns the native probe instead; LocalProbe
// remains the workhorse for tests and non-Windows library consumers.
type LocalProbe struct {
	// TaskDir overrides the scheduled-task store location. Empty means the
	// platform default.
	TaskDir string
}

func (p *LocalProbe) ListProcesses() ([]Process, error) {
	return nil, ErrUnsupported
}

func (p *LocalProbe) KillProcess(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}

func (p *LocalProbe) ReadRegistryValue(hive Hive, key, name string) (string, error) {
	return "", ErrUnsupported
}

func (p *LocalProbe) DeleteRegistryValue(hive Hive, key, name string) error {
	return ErrUnsupported
}

func (p *LocalProbe) ListRegistryValueNames(hive Hive, key string) ([]string, error) {
	return nil, ErrUnsupported
}

func (p *LocalProbe) ListScheduledTaskFiles() ([]string, error) {
	dir := p.TaskDir
	if dir == "" {
		dir = defaultTaskDir()
	}
	var files []string
	// Task definitions nest one level per folder; a full walk keeps this
	// simple and the store is small.
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func defaultTaskDir() string {
	if windir := os.Getenv("WINDIR"); windir != "" {
		return filepath.Join(windir, "System32", "Tasks")
	}
	return `C:\Windows\System32\Tasks`
}

func (p *LocalProbe) FileAttributes(path string) (FileAttrs, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileAttrs{}, err
	}
	attrs := FileAttrs{
		ReadOnly: info.Mode().Perm()&0200 == 0,
		// Dotfile naming is the closest portable notion of "hidden".
		Hidden: strings.HasPrefix(filepath.Base(path), "."),
	}
	return attrs, nil
}

func (p *LocalProbe) SetFileAttributes(path string, attrs FileAttrs) error {
	mode := os.FileMode(0644)
	if attrs.ReadOnly {
		mode = 0444
	}
	return os.Chmod(path, mode)
}

func (p *LocalProbe) DeleteFile(path string) error {
	return os.Remove(path)
}

func (p *LocalProbe) ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (p *LocalProbe) ElevateAndRetry(ctx context.Context, path string, op func() error) error {
	// No elevation story outside Windows; make the file writable and retry.
	if err := ctx.Err(); err != nil {
		return err
	}
	_ = os.Chmod(path, 0644)
	return op()
}

func (p *LocalProbe) DisableAndStopService(name string) error {
	return ErrUnsupported
}
