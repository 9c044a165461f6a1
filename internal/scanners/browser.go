package scanners

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/signatures"
)

// BrowserScanner checks extension-storage directories for known-bad
// extension names and adware markers inside manifests. Extension findings
// are never auto-removable: deleting a directory a running browser holds
// open is unsafe, so removal goes through the browser's own uninstall.
type BrowserScanner struct {
	Sigs *signatures.Store

	// ChromiumRoots are flat extension stores (Chrome, Edge). GeckoRoots are
	// profile parents whose subdirectories carry an extensions folder
	// (Firefox). Empty slices fall back to the default install locations.
	ChromiumRoots []string
	GeckoRoots    []string

	// Visited, when set, is called once per examined manifest so the shared
	// files-scanned counter reflects this scanner's work.
	Visited func()
}

func (s *BrowserScanner) Name() string { return "Browser Extensions" }

func (s *BrowserScanner) Category() core.Category { return core.CategoryBrowserExtension }

// DefaultChromiumRoots returns the Chrome and Edge extension stores for the
// current user.
func DefaultChromiumRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, "AppData", "Local", "Google", "Chrome", "User Data", "Default", "Extensions"),
		filepath.Join(home, "AppData", "Local", "Microsoft", "Edge", "User Data", "Default", "Extensions"),
	}
}

// DefaultGeckoRoots returns the Firefox profiles directory.
func DefaultGeckoRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, "AppData", "Roaming", "Mozilla", "Firefox", "Profiles")}
}

func (s *BrowserScanner) Run(ctx context.Context) ([]core.Threat, error) {
	chromium := s.ChromiumRoots
	if len(chromium) == 0 {
		chromium = DefaultChromiumRoots()
	}
	gecko := s.GeckoRoots
	if len(gecko) == 0 {
		gecko = DefaultGeckoRoots()
	}

	var threats []core.Threat
	for _, root := range chromium {
		found, err := s.scanExtensionDir(ctx, root)
		threats = append(threats, found...)
		if err != nil {
			return threats, err
		}
	}
	for _, root := range gecko {
		profiles, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, profile := range profiles {
			if !profile.IsDir() {
				continue
			}
			found, err := s.scanExtensionDir(ctx, filepath.Join(root, profile.Name(), "extensions"))
			threats = append(threats, found...)
			if err != nil {
				return threats, err
			}
		}
	}
	return threats, nil
}

func (s *BrowserScanner) scanExtensionDir(ctx context.Context, root string) ([]core.Threat, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil // browser not installed or store unreadable
	}

	var threats []core.Threat
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return threats, err
		}
		if !entry.IsDir() {
			continue
		}
		extDir := filepath.Join(root, entry.Name())

		if sig := s.Sigs.MatchFilename(entry.Name()); sig != nil {
			threats = append(threats, core.Threat{
				Category:    core.CategoryBrowserExtension,
				Name:        entry.Name(),
				Description: sig.Description,
				Location:    extDir,
				Severity:    core.SeverityMedium,
				Tag:         "known_extension",
				Removable:   false,
			})
			continue
		}

		if t := s.checkManifest(extDir, entry.Name()); t != nil {
			threats = append(threats, *t)
		}
	}
	return threats, nil
}

// checkManifest scans an extension's manifest text for adware markers. It
// looks in the extension directory itself and one version level down, which
// covers both Gecko layouts and Chromium's id/version nesting.
func (s *BrowserScanner) checkManifest(extDir, extName string) *core.Threat {
	candidates := []string{filepath.Join(extDir, "manifest.json")}
	if versions, err := os.ReadDir(extDir); err == nil {
		for _, v := range versions {
			if v.IsDir() {
				candidates = append(candidates, filepath.Join(extDir, v.Name(), "manifest.json"))
			}
		}
	}

	for _, manifest := range candidates {
		data, err := os.ReadFile(manifest)
		if err != nil {
			continue
		}
		if s.Visited != nil {
			s.Visited()
		}
		text := strings.ToLower(string(data))
		for _, marker := range s.Sigs.AdwareMarkers() {
			if strings.Contains(text, marker) {
				return &core.Threat{
					Category:    core.CategoryBrowserExtension,
					Name:        extName,
					Description: fmt.Sprintf("Extension manifest contains adware marker %q", marker),
					Location:    extDir,
					Details:     manifest,
					Severity:    core.SeverityMedium,
					Tag:         "adware_marker",
					Removable:   false,
				}
			}
		}
	}
	return nil
}
