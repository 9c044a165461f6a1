package remediate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform/platformtest"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRemoveProcessByPID(t *testing.T) {
	probe := &platformtest.FakeProbe{
		Processes: []platform.Process{{PID: 4242, Name: "xmrig.exe"}},
	}
	eng := NewEngine(probe)

	res := eng.Remove(core.Threat{Category: core.CategoryProcess, Name: "xmrig.exe", ProcessID: 4242})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if len(probe.Killed) != 1 || probe.Killed[0] != 4242 {
		t.Fatalf("killed = %v, want [4242]", probe.Killed)
	}
}

func TestRemoveProcessAlreadyExited(t *testing.T) {
	probe := &platformtest.FakeProbe{
		KillErr: map[int]error{999: errors.New("no such process")},
	}
	res := NewEngine(probe).Remove(core.Threat{Category: core.CategoryProcess, Name: "miner.exe", ProcessID: 999})
	if !res.Success {
		t.Fatalf("kill of an exited process should succeed, got %q", res.Message)
	}
}

func TestRemoveProcessByNameZeroMatchesIsSuccess(t *testing.T) {
	probe := &platformtest.FakeProbe{
		Processes: []platform.Process{{PID: 10, Name: "notepad.exe"}},
	}
	res := NewEngine(probe).Remove(core.Threat{Category: core.CategoryProcess, Name: "mimikatz.exe"})
	if !res.Success {
		t.Fatalf("zero matching processes should report success, got %q", res.Message)
	}
	if len(probe.Killed) != 0 {
		t.Fatalf("nothing should be killed, got %v", probe.Killed)
	}
}

func TestRemoveProcessCriticalGuard(t *testing.T) {
	probe := &platformtest.FakeProbe{
		Processes: []platform.Process{{PID: 600, Name: "lsass.exe"}},
	}
	res := NewEngine(probe).Remove(core.Threat{Category: core.CategoryProcess, Name: "lsass.exe", ProcessID: 600})
	if res.Success {
		t.Fatal("critical process must never be terminated")
	}
	if !res.IsProtectedSystem {
		t.Fatal("expected IsProtectedSystem for a critical process")
	}
	if len(probe.Killed) != 0 {
		t.Fatalf("kill primitive must not run, got %v", probe.Killed)
	}
}

func TestRemoveFileDeletes(t *testing.T) {
	path := writeTempFile(t, "payload.exe", "x")
	probe := &platformtest.FakeProbe{}

	res := NewEngine(probe).Remove(core.Threat{Category: core.CategoryFile, Name: "payload.exe", Location: path})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if !probe.DeletedContains(path) {
		t.Fatalf("delete primitive not invoked: %s", probe.Describe())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("file still present after removal")
	}
}

func TestRemoveFileProtectedPathNeverTouched(t *testing.T) {
	probe := &platformtest.FakeProbe{}
	loc := `C:\Windows\WinSxS\amd64_foo\evil.dll`

	res := NewEngine(probe).Remove(core.Threat{Category: core.CategoryFile, Name: "evil.dll", Location: loc})
	if res.Success {
		t.Fatal("protected path must not be removable")
	}
	if !res.IsProtectedSystem {
		t.Fatal("expected IsProtectedSystem")
	}
	if probe.DeletedContains(loc) {
		t.Fatal("delete primitive must not run for a protected path")
	}
}

func TestRemoveFileAlreadyGone(t *testing.T) {
	probe := &platformtest.FakeProbe{}
	gone := filepath.Join(t.TempDir(), "vanished.exe")

	res := NewEngine(probe).Remove(core.Threat{Category: core.CategoryFile, Name: "vanished.exe", Location: gone})
	if !res.Success {
		t.Fatalf("missing target should report success, got %q", res.Message)
	}
	if probe.DeletedContains(gone) {
		t.Fatal("delete primitive must not run for a missing file")
	}
}

func TestRemoveFileElevatesOnAccessDenied(t *testing.T) {
	path := writeTempFile(t, "locked.exe", "x")
	probe := &platformtest.FakeProbe{
		DeleteErr: map[string]error{path: os.ErrPermission},
	}

	res := NewEngine(probe).Remove(core.Threat{Category: core.CategoryFile, Name: "locked.exe", Location: path})
	if !res.Success {
		t.Fatalf("expected success after elevation, got %q", res.Message)
	}
	if len(probe.Elevations) != 1 || probe.Elevations[0] != path {
		t.Fatalf("elevations = %v, want [%s]", probe.Elevations, path)
	}
}

func TestRemoveFileQuarantineFirst(t *testing.T) {
	path := writeTempFile(t, "stealer.exe", "payload bytes")
	probe := &platformtest.FakeProbe{}
	eng := NewEngine(probe)
	eng.Jail = NewJail(t.TempDir())
	eng.QuarantineFirst = true

	res := eng.Remove(core.Threat{Category: core.CategoryFile, Name: "stealer.exe", Location: path})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("source must be removed after quarantine")
	}
	cells, err := eng.Jail.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 1 {
		t.Fatalf("cells = %v, want one entry", cells)
	}
}

func TestRemoveStartupValueBothHives(t *testing.T) {
	const key = `SOFTWARE\Microsoft\Windows\CurrentVersion\Run`
	probe := &platformtest.FakeProbe{}
	probe.SetRegistryValue(platform.HiveLocalMachine, key, "Updater", `C:\Temp\updater.exe`)

	// The recorded location names HKCU but the value lives in HKLM.
	res := NewEngine(probe).Remove(core.Threat{
		Category: core.CategoryStartup,
		Name:     "Updater",
		Location: `HKCU\` + key + `\Updater`,
	})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if _, err := probe.ReadRegistryValue(platform.HiveLocalMachine, key, "Updater"); err == nil {
		t.Fatal("value still present in HKLM")
	}
}

func TestRemoveStartupValueAbsentIsSuccess(t *testing.T) {
	probe := &platformtest.FakeProbe{}
	res := NewEngine(probe).Remove(core.Threat{
		Category: core.CategoryStartup,
		Name:     "Ghost",
		Location: `HKCU\SOFTWARE\Microsoft\Windows\CurrentVersion\Run\Ghost`,
	})
	if !res.Success {
		t.Fatalf("absent value should report success, got %q", res.Message)
	}
}

func TestRemoveScheduledTask(t *testing.T) {
	probe := &platformtest.FakeProbe{}
	res := NewEngine(probe).Remove(core.Threat{
		Category: core.CategoryScheduledTask,
		Name:     "badtask.job",
		Location: `C:\Windows\System32\Tasks\badtask.job`,
	})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if len(probe.DisabledStopped) != 1 || probe.DisabledStopped[0] != "badtask" {
		t.Fatalf("disabled = %v, want [badtask]", probe.DisabledStopped)
	}
}

func TestRemoveBrowserExtensionNotAutomated(t *testing.T) {
	res := NewEngine(&platformtest.FakeProbe{}).Remove(core.Threat{
		Category: core.CategoryBrowserExtension,
		Name:     "searchprotect",
	})
	if res.Success {
		t.Fatal("browser extensions have no automated removal")
	}
	if res.Message == "" {
		t.Fatal("expected a manual-uninstall message")
	}
}

func TestRemoveUnknownCategory(t *testing.T) {
	res := NewEngine(&platformtest.FakeProbe{}).Remove(core.Threat{Category: core.CategoryNetwork})
	if res.Success {
		t.Fatal("network findings have no automated removal")
	}
}

func TestParseRegistryLocation(t *testing.T) {
	cases := []struct {
		in        string
		key, name string
		wantErr   bool
	}{
		{`HKCU\SOFTWARE\Run\Updater`, `SOFTWARE\Run`, "Updater", false},
		{`HKLM\SOFTWARE\Wow6432Node\Run\x`, `SOFTWARE\Wow6432Node\Run`, "x", false},
		{`SOFTWARE\Run\NoHive`, `SOFTWARE\Run`, "NoHive", false},
		{`justonename`, "", "", true},
		{`HKCU\trailing\`, "", "", true},
	}
	for _, tc := range cases {
		key, name, err := parseRegistryLocation(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseRegistryLocation(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseRegistryLocation(%q): %v", tc.in, err)
			continue
		}
		if key != tc.key || name != tc.name {
			t.Errorf("parseRegistryLocation(%q) = (%q, %q), want (%q, %q)", tc.in, key, name, tc.key, tc.name)
		}
	}
}
