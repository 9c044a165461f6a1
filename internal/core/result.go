package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ScanResult aggregates one scan run. It is sealed once the orchestrator
// returns it: completion, cancellation and failure all produce a read-only
// record.
type ScanResult struct {
	RunID        string        `json:"run_id"`
	StartedAt    time.Time     `json:"started_at"`
	EndedAt      time.Time     `json:"ended_at"`
	Elapsed      time.Duration `json:"elapsed"`
	FilesScanned int64         `json:"files_scanned"`
	Threats      []Threat      `json:"threats"`
	Cancelled    bool          `json:"cancelled"`
	Err          string        `json:"error,omitempty"`
}

// NewScanResult starts a fresh result with a unique run id.
func NewScanResult() *ScanResult {
	return &ScanResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// Seal stamps the end time and elapsed duration.
func (r *ScanResult) Seal() {
	r.EndedAt = time.Now()
	r.Elapsed = r.EndedAt.Sub(r.StartedAt)
}

// SeverityCounts partitions the threat list by severity. The four counts
// always sum to len(Threats): every threat carries exactly one severity, and
// anything unrecognized is counted as low rather than dropped.
func (r *ScanResult) SeverityCounts() (critical, high, medium, low int) {
	for _, t := range r.Threats {
		switch t.Severity {
		case SeverityCritical:
			critical++
		case SeverityHigh:
			high++
		case SeverityMedium:
			medium++
		default:
			low++
		}
	}
	return
}

// WriteReport writes the result as an indented JSON report into dir and
// returns the path.
func (r *ScanResult) WriteReport(dir string) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("report_%s.json", r.RunID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
