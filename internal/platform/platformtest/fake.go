// Package platformtest provides a configurable in-memory Probe for tests.
package platformtest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform"
)

// FakeProbe implements platform.Probe against in-memory state. Zero value is
// usable; fields may be mutated between calls.
type FakeProbe struct {
	mu sync.Mutex

	Processes []platform.Process
	Killed    []int
	KillErr   map[int]error

	// Registry maps "HIVE|key" -> value name -> value content.
	Registry map[string]map[string]string

	TaskFiles []string

	Attrs      map[string]platform.FileAttrs
	Deleted    []string
	DeleteErr  map[string]error
	ElevateErr error
	Elevations []string

	Services        []string
	ServiceErr      map[string]error
	HashOverrides   map[string]string
	DisabledStopped []string
}

func regKey(hive platform.Hive, key string) string {
	return string(hive) + "|" + key
}

// SetRegistryValue seeds a registry value.
func (f *FakeProbe) SetRegistryValue(hive platform.Hive, key, name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Registry == nil {
		f.Registry = make(map[string]map[string]string)
	}
	k := regKey(hive, key)
	if f.Registry[k] == nil {
		f.Registry[k] = make(map[string]string)
	}
	f.Registry[k][name] = value
}

func (f *FakeProbe) ListProcesses() ([]platform.Process, error) {
	return f.Processes, nil
}

func (f *FakeProbe) KillProcess(pid int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.KillErr[pid]; ok {
		return err
	}
	f.Killed = append(f.Killed, pid)
	return nil
}

func (f *FakeProbe) ReadRegistryValue(hive platform.Hive, key, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, ok := f.Registry[regKey(hive, key)]
	if !ok {
		return "", os.ErrNotExist
	}
	val, ok := values[name]
	if !ok {
		return "", os.ErrNotExist
	}
	return val, nil
}

func (f *FakeProbe) DeleteRegistryValue(hive platform.Hive, key, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, ok := f.Registry[regKey(hive, key)]
	if !ok {
		return os.ErrNotExist
	}
	if _, ok := values[name]; !ok {
		return os.ErrNotExist
	}
	delete(values, name)
	return nil
}

func (f *FakeProbe) ListRegistryValueNames(hive platform.Hive, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, ok := f.Registry[regKey(hive, key)]
	if !ok {
		return nil, os.ErrNotExist
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *FakeProbe) ListScheduledTaskFiles() ([]string, error) {
	return f.TaskFiles, nil
}

func (f *FakeProbe) FileAttributes(path string) (platform.FileAttrs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if attrs, ok := f.Attrs[path]; ok {
		return attrs, nil
	}
	if _, err := os.Stat(path); err != nil {
		return platform.FileAttrs{}, err
	}
	return platform.FileAttrs{}, nil
}

func (f *FakeProbe) SetFileAttributes(path string, attrs platform.FileAttrs) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Attrs == nil {
		f.Attrs = make(map[string]platform.FileAttrs)
	}
	f.Attrs[path] = attrs
	return nil
}

func (f *FakeProbe) DeleteFile(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.DeleteErr[path]; ok {
		return err
	}
	f.Deleted = append(f.Deleted, path)
	if _, err := os.Stat(path); err == nil {
		return os.Remove(path)
	}
	return nil
}

func (f *FakeProbe) ComputeFileHash(path string) (string, error) {
	f.mu.Lock()
	if digest, ok := f.HashOverrides[path]; ok {
		f.mu.Unlock()
		return digest, nil
	}
	f.mu.Unlock()

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (f *FakeProbe) ElevateAndRetry(ctx context.Context, path string, op func() error) error {
	f.mu.Lock()
	f.Elevations = append(f.Elevations, path)
	err := f.ElevateErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	f.mu.Lock()
	delete(f.DeleteErr, path)
	f.mu.Unlock()
	return op()
}

func (f *FakeProbe) DisableAndStopService(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.ServiceErr[name]; ok {
		return err
	}
	f.DisabledStopped = append(f.DisabledStopped, name)
	return nil
}

// DeletedContains reports whether the delete primitive was invoked for path.
func (f *FakeProbe) DeletedContains(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.Deleted {
		if p == path {
			return true
		}
	}
	return false
}

var _ platform.Probe = (*FakeProbe)(nil)

// Describe aids debugging failed tests.
func (f *FakeProbe) Describe() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fmt.Sprintf("killed=%v deleted=%v elevated=%v services=%v",
		f.Killed, f.Deleted, f.Elevations, f.DisabledStopped)
}
