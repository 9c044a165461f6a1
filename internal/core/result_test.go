package core

import (
	"testing"
)

// TestSeverityPartition ensures the four counts always sum to the list length.
func TestSeverityPartition(t *testing.T) {
	r := NewScanResult()
	r.Threats = []Threat{
		{Name: "a", Severity: SeverityCritical},
		{Name: "b", Severity: SeverityCritical},
		{Name: "c", Severity: SeverityHigh},
		{Name: "d", Severity: SeverityMedium},
		{Name: "e", Severity: SeverityLow},
		{Name: "f", Severity: Severity("bogus")}, // counted as low, never dropped
	}

	c, h, m, l := r.SeverityCounts()
	if c != 2 || h != 1 || m != 1 || l != 2 {
		t.Errorf("counts = %d/%d/%d/%d", c, h, m, l)
	}
	if c+h+m+l != len(r.Threats) {
		t.Fatalf("partition broken: %d != %d", c+h+m+l, len(r.Threats))
	}
}

func TestSeverityPartitionEmpty(t *testing.T) {
	r := NewScanResult()
	c, h, m, l := r.SeverityCounts()
	if c+h+m+l != 0 {
		t.Fatalf("expected empty partition, got %d", c+h+m+l)
	}
}

func TestSealSetsElapsed(t *testing.T) {
	r := NewScanResult()
	r.Seal()
	if r.Elapsed < 0 {
		t.Fatalf("negative elapsed: %v", r.Elapsed)
	}
	if r.EndedAt.Before(r.StartedAt) {
		t.Fatal("end before start")
	}
	if r.RunID == "" {
		t.Fatal("missing run id")
	}
}

func TestMoreSevere(t *testing.T) {
	if !SeverityCritical.MoreSevere(SeverityHigh) {
		t.Error("critical should outrank high")
	}
	if SeverityLow.MoreSevere(SeverityMedium) {
		t.Error("low should not outrank medium")
	}
}
