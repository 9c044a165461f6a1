package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/signatures"
)

const (
	// hashSizeCeiling caps content hashing; larger executables are skipped
	// rather than stalling the scan on a DVD image.
	hashSizeCeiling = 50 << 20
	// smallFileSize and freshFileWindow bound the "recently dropped"
	// heuristic.
	smallFileSize   = 1 << 20
	freshFileWindow = 7 * 24 * time.Hour

	reportsPerSecond = 4
	immediateReports = 5
)

// scannableExts is the allow-list both passes filter on: executables,
// scripts, installers, office documents, archives and disk images.
var scannableExts = map[string]bool{
	".exe": true, ".scr": true, ".com": true, ".bat": true, ".cmd": true,
	".pif": true, ".vbs": true, ".vbe": true, ".js": true, ".jse": true,
	".wsf": true, ".wsh": true, ".ps1": true, ".hta": true, ".lnk": true,
	".dll": true, ".sys": true, ".jar": true,
	".msi": true, ".msp": true, ".msu": true,
	".doc": true, ".docx": true, ".docm": true, ".xls": true, ".xlsx": true,
	".xlsm": true, ".ppt": true, ".pptx": true, ".pdf": true, ".rtf": true,
	".zip": true, ".rar": true, ".7z": true, ".tar": true, ".gz": true,
	".cab": true, ".iso": true, ".img": true, ".vhd": true, ".vhdx": true,
}

// executableExts is the executable-class subset used by the heuristics.
var executableExts = map[string]bool{
	".exe": true, ".scr": true, ".com": true, ".bat": true, ".cmd": true,
	".pif": true, ".vbs": true, ".vbe": true, ".js": true, ".jse": true,
	".wsf": true, ".wsh": true, ".ps1": true, ".hta": true, ".lnk": true,
	".msi": true, ".jar": true, ".dll": true, ".sys": true,
}

// shortcutExts legitimately carry a second extension (photo.png.lnk), so the
// disguised-executable rule exempts them.
var shortcutExts = map[string]bool{".lnk": true}

// innocuousInnerExts are the document/image/audio types a disguised
// executable poses as. Kept deliberately narrow; archive chains like
// .tar.gz never reach the rule because the final extension is not
// executable-class.
var innocuousInnerExts = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".txt": true, ".rtf": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".mp3": true, ".wav": true, ".mp4": true, ".avi": true,
}

// suspiciousTempNames are name fragments that make a fresh, small executable
// in a temp directory worth reporting as potentially unwanted.
var suspiciousTempNames = []string{
	"svchost", "csrss", "lsass", "winlogon", "spoolsv", "conhost",
	"rundll", "loader", "dropper", "patch",
}

// Traverser performs the two-pass walk over the configured roots.
type Traverser struct {
	Probe   platform.Probe
	Sigs    *signatures.Store
	Roots   []string
	Sink    *EventSink
	Counter *Counter
}

// DefaultRoots returns the fixed local volumes to walk.
func DefaultRoots() []string {
	if os.PathSeparator == '\\' {
		if drive := os.Getenv("SystemDrive"); drive != "" {
			return []string{drive + `\`}
		}
		return []string{`C:\`}
	}
	return []string{"/"}
}

// Count is the fast first pass: it totals the scannable files under every
// root so the scanning pass can report a percentage. The only error it
// returns is cancellation; unreadable directories are skipped.
func (t *Traverser) Count(ctx context.Context) (int64, error) {
	var total int64
	for _, root := range t.Roots {
		n, err := t.countDir(ctx, root)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (t *Traverser) countDir(ctx context.Context, dir string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, nil // access denied, vanished, too long: skip the directory
	}

	var total int64
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		if entry.IsDir() {
			if core.SkipDirectory(entry.Name()) {
				continue
			}
			n, err := t.countDir(ctx, filepath.Join(dir, entry.Name()))
			total += n
			if err != nil {
				return total, err
			}
			continue
		}
		if scannableExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			total++
		}
	}
	return total, nil
}

// Scan is the full second pass. It re-walks the filtered tree, classifies
// every qualifying file, reports throttled progress and returns the number
// of files visited by this pass. On cancellation the partial count is still
// returned together with ctx's error; threats already emitted stay emitted.
func (t *Traverser) Scan(ctx context.Context, total int64, percentOf func(scanned, total int64) int, onThreat func(core.Threat)) (int64, error) {
	st := &scanPassState{
		total:     total,
		percentOf: percentOf,
		onThreat:  onThreat,
		throttle:  newReportThrottle(reportsPerSecond, immediateReports),
	}
	for _, root := range t.Roots {
		if err := t.scanDir(ctx, root, st); err != nil {
			return st.passScanned, err
		}
	}
	return st.passScanned, nil
}

type scanPassState struct {
	total       int64
	passScanned int64
	percentOf   func(scanned, total int64) int
	onThreat    func(core.Threat)
	throttle    *reportThrottle
}

func (t *Traverser) scanDir(ctx context.Context, dir string, st *scanPassState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil // same skip-and-continue policy as the counting pass
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if core.SkipDirectory(entry.Name()) {
				continue
			}
			if err := t.scanDir(ctx, path, st); err != nil {
				return err
			}
			continue
		}
		if !scannableExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		// One increment per file, however many checks run.
		st.passScanned++
		global := st.passScanned
		if t.Counter != nil {
			global = t.Counter.Inc()
		}
		if st.throttle.Allow() {
			t.Sink.currentFile(path)
			t.Sink.filesScanned(global)
			t.Sink.progress(path, st.percentOf(st.passScanned, st.total))
		}

		if threat := t.classifyFile(path, info); threat != nil {
			st.onThreat(*threat)
		}
	}
	return nil
}

// classifyFile runs the ordered file checks. The first check that fires wins;
// a file never produces more than one threat.
func (t *Traverser) classifyFile(path string, info fs.FileInfo) *core.Threat {
	base := filepath.Base(path)
	finalExt := strings.ToLower(filepath.Ext(base))

	// 1. Filename signature.
	if sig := t.Sigs.MatchFilename(base); sig != nil {
		return &core.Threat{
			Category:    core.CategoryFile,
			Name:        base,
			Description: sig.Description,
			Location:    path,
			Severity:    sig.Severity,
			Tag:         "known_pattern",
			Removable:   true,
			SizeBytes:   info.Size(),
		}
	}

	// 2. Disguised executable: document-looking name with an executable tail.
	innerExt := strings.ToLower(filepath.Ext(strings.TrimSuffix(base, filepath.Ext(base))))
	if executableExts[finalExt] && !shortcutExts[finalExt] && innocuousInnerExts[innerExt] {
		return &core.Threat{
			Category:    core.CategoryFile,
			Name:        base,
			Description: fmt.Sprintf("Executable disguised as %s document", strings.TrimPrefix(innerExt, ".")),
			Location:    path,
			Severity:    core.SeverityHigh,
			Tag:         "disguised_executable",
			Removable:   true,
			SizeBytes:   info.Size(),
		}
	}

	// 3. Known-malware hash, size-gated.
	if executableExts[finalExt] && info.Size() < hashSizeCeiling {
		if digest, err := t.Probe.ComputeFileHash(path); err == nil {
			if malware, ok := t.Sigs.MatchHashDigest(digest); ok {
				return &core.Threat{
					Category:    core.CategoryFile,
					Name:        base,
					Description: fmt.Sprintf("Known malware: %s", malware),
					Location:    path,
					Details:     digest,
					Severity:    core.SeverityCritical,
					Tag:         "known_malware_hash",
					Removable:   true,
					SizeBytes:   info.Size(),
				}
			}
		}
	}

	// 4. Hidden executable in user-writable staging directories.
	if executableExts[finalExt] && underUserStaging(path) {
		if attrs, err := t.Probe.FileAttributes(path); err == nil && attrs.Hidden {
			return &core.Threat{
				Category:    core.CategoryFile,
				Name:        base,
				Description: "Hidden executable in user-writable directory",
				Location:    path,
				Severity:    core.SeverityHigh,
				Tag:         "hidden_executable",
				Removable:   true,
				SizeBytes:   info.Size(),
			}
		}
	}

	// 5. Fresh, small, suspiciously named executable in a temp path.
	if executableExts[finalExt] && info.Size() < smallFileSize &&
		time.Since(info.ModTime()) < freshFileWindow &&
		underTempPath(path) && hasSuspiciousTempName(base) {
		return &core.Threat{
			Category:    core.CategoryFile,
			Name:        base,
			Description: "Recently created executable with suspicious name in temp directory",
			Location:    path,
			Severity:    core.SeverityLow,
			Tag:         "potentially_unwanted",
			Removable:   true,
			SizeBytes:   info.Size(),
		}
	}

	return nil
}

func underUserStaging(path string) bool {
	lower := strings.ToLower(filepath.ToSlash(path))
	for _, marker := range []string{"/temp/", "/tmp/", "/appdata/", "/programdata/"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func underTempPath(path string) bool {
	lower := strings.ToLower(filepath.ToSlash(path))
	return strings.Contains(lower, "/temp/") || strings.Contains(lower, "/tmp/")
}

func hasSuspiciousTempName(base string) bool {
	lower := strings.ToLower(base)
	for _, hint := range suspiciousTempNames {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
