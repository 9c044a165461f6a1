package signatures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
)

func TestMatchProcessCaseInsensitive(t *testing.T) {
	s := NewStore()
	sig := s.MatchProcess("MIMIKATZ.exe")
	if sig == nil {
		t.Fatal("expected match for mimikatz")
	}
	if sig.Severity != core.SeverityCritical {
		t.Errorf("severity = %s", sig.Severity)
	}
	if s.MatchProcess("notepad.exe") != nil {
		t.Error("notepad should not match")
	}
}

// TestFirstMatchWins: a name matching two patterns must resolve to the
// earliest-declared signature, not the "best" one.
func TestFirstMatchWins(t *testing.T) {
	s := &Store{
		filenames: []Signature{
			{Kind: MatchName, Pattern: "keylog", Severity: core.SeverityMedium, Description: "first"},
			{Kind: MatchName, Pattern: "stealer", Severity: core.SeverityHigh, Description: "second"},
		},
	}
	sig := s.MatchFilename("keylog_stealer.exe")
	if sig == nil {
		t.Fatal("expected a match")
	}
	if sig.Description != "first" {
		t.Errorf("got %q, want the earliest-declared signature", sig.Description)
	}
	if sig.Severity != core.SeverityMedium {
		t.Errorf("severity = %s, want medium from first signature", sig.Severity)
	}
}

func TestMatchHashExact(t *testing.T) {
	s := NewStore()
	s.MergeHashes(map[string]string{
		"AABBCCDDEEFF00112233445566778899AABBCCDDEEFF00112233445566778899": "TestFamily",
	})

	name, ok := s.MatchHashDigest("aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899")
	if !ok || name != "TestFamily" {
		t.Fatalf("lookup failed: %q %v", name, ok)
	}
	// Substring of a known digest must not match.
	if _, ok := s.MatchHashDigest("aabbccddeeff"); ok {
		t.Error("partial digest matched")
	}
}

func TestMatchRegistryValue(t *testing.T) {
	s := NewStore()
	if s.MatchRegistryValue(`C:\Users\bob\AppData\Local\Temp\upd.exe`) == nil {
		t.Error("temp path should match")
	}
	if s.MatchRegistryValue(`"C:\Program Files\Vendor\app.exe" --tray`) != nil {
		t.Error("plain program files entry should not match")
	}
}

func TestLoadFileAppendsAfterBuiltin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defs.yaml")
	content := `
filenames:
  - kind: name
    pattern: keylog
    category: file
    severity: critical
    description: overlay duplicate
  - kind: name
    pattern: customthing
    category: file
    severity: high
    description: overlay addition
hashes:
  ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff: OverlayFamily
adware_markers:
  - overlay marker
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	if err := s.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	// Builtin keylog entry still wins over the overlay duplicate.
	if sig := s.MatchFilename("keylog.exe"); sig == nil || sig.Description == "overlay duplicate" {
		t.Error("overlay entry overrode builtin first-match priority")
	}
	if sig := s.MatchFilename("customthing.dll"); sig == nil || sig.Severity != core.SeverityHigh {
		t.Error("overlay addition not matched")
	}
	if _, ok := s.MatchHashDigest("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"); !ok {
		t.Error("overlay hash not merged")
	}
}

func TestLoadFileRejectsEmptyPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	os.WriteFile(path, []byte("filenames:\n  - kind: name\n    pattern: \"\"\n"), 0644)

	if err := NewStore().LoadFile(path); err == nil {
		t.Fatal("expected error for empty pattern")
	}
}
