package core

// Severity classifies how dangerous a finding is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// rank orders severities for display sorting; unknown values sort last.
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	}
	return 4
}

// MoreSevere reports whether s outranks other.
func (s Severity) MoreSevere(other Severity) bool {
	return s.rank() < other.rank()
}

// Category identifies which surface a threat was found on.
type Category string

const (
	CategoryFile             Category = "file"
	CategoryProcess          Category = "process"
	CategoryRegistry         Category = "registry"
	CategoryStartup          Category = "startup"
	CategoryBrowserExtension Category = "browser_extension"
	CategoryNetwork          Category = "network"
	CategoryScheduledTask    Category = "scheduled_task"
)

// Threat is one classified finding. It is created exactly once by a scanner
// and never mutated afterwards; the ScanResult that collected it owns it.
type Threat struct {
	Category    Category `json:"category"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Details     string   `json:"details,omitempty"`
	Severity    Severity `json:"severity"`
	Tag         string   `json:"tag,omitempty"`
	Removable   bool     `json:"removable"`
	SizeBytes   int64    `json:"size_bytes,omitempty"`
	ProcessID   int      `json:"process_id,omitempty"`
}
