package remediate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
)

// xorKey neutralizes quarantined payloads. XOR is reversible, so Restore
// uses the same key.
const xorKey = byte(0xAA)

const cellSuffix = ".quarantine"

// Jail holds neutralized copies of removed files. Each Jail instance carries
// a case id so restored files from different sessions stay distinguishable.
type Jail struct {
	Dir    string
	CaseID string
}

// NewJail returns a jail rooted at dir, defaulting to the standard
// quarantine directory.
func NewJail(dir string) *Jail {
	if dir == "" {
		dir = core.QuarantineDir
	}
	return &Jail{Dir: dir, CaseID: uuid.NewString()}
}

// Lockup copies sourcePath into the jail XOR-encoded, then deletes the
// original. Encode-then-delete beats resurrection scripts that watch for a
// plain rename. Returns the cell path.
func (j *Jail) Lockup(sourcePath string) (string, error) {
	if err := os.MkdirAll(j.Dir, 0700); err != nil {
		return "", fmt.Errorf("create jail: %w", err)
	}

	_, filename := filepath.Split(sourcePath)
	timestamp := time.Now().Format("20060102_150405")
	destPath := filepath.Join(j.Dir, fmt.Sprintf("%s_%s%s", timestamp, filename, cellSuffix))

	if err := xorCopy(sourcePath, destPath); err != nil {
		return "", err
	}

	if err := os.Remove(sourcePath); err != nil {
		return "", fmt.Errorf("delete original after jailing (persistence?): %w", err)
	}
	return destPath, nil
}

// Restore decodes a quarantined cell back into destDir under a Restored_
// prefix and returns the restored path. The cell itself is kept.
func (j *Jail) Restore(cellName, destDir string) (string, error) {
	srcPath := filepath.Join(j.Dir, cellName)
	if _, err := os.Stat(srcPath); os.IsNotExist(err) {
		return "", fmt.Errorf("quarantine cell not found: %s", cellName)
	}

	baseName := filepath.Base(cellName)
	if !strings.HasSuffix(baseName, cellSuffix) {
		return "", fmt.Errorf("not a quarantine cell: %s", baseName)
	}
	baseName = strings.TrimSuffix(baseName, cellSuffix)

	// Cell names are date_time_originalname.
	originalName := baseName
	if parts := strings.SplitN(baseName, "_", 3); len(parts) >= 3 {
		originalName = parts[2]
	}

	if destDir == "" {
		destDir = "."
	}
	restorePath := filepath.Join(destDir, "Restored_"+originalName)
	if err := xorCopy(srcPath, restorePath); err != nil {
		return "", err
	}
	return restorePath, nil
}

// List returns the cell names currently held in the jail.
func (j *Jail) List() ([]string, error) {
	entries, err := os.ReadDir(j.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cells []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), cellSuffix) {
			cells = append(cells, entry.Name())
		}
	}
	return cells, nil
}

func xorCopy(srcPath, dstPath string) error {
	srcFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", dstPath, err)
	}
	defer dstFile.Close()

	buf := make([]byte, 4096)
	for {
		n, readErr := srcFile.Read(buf)
		if n > 0 {
			for i := 0; i < n; i++ {
				buf[i] ^= xorKey
			}
			if _, err := dstFile.Write(buf[:n]); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}
	return dstFile.Close()
}
