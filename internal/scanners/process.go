// Package scanners holds the five domain checks that run alongside the file
// system traversal: processes, startup run keys, browser extensions,
// registry hijack points and scheduled tasks. Each scanner is independent,
// consults the shared signature store, and survives single unreadable
// entries without aborting its siblings.
package scanners

import (
	"context"
	"fmt"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/signatures"
)

// DomainScanner is implemented by every domain check. Category ties a
// scanner to the orchestrator phase it runs in.
type DomainScanner interface {
	Name() string
	Category() core.Category
	Run(ctx context.Context) ([]core.Threat, error)
}

// ProcessScanner matches running process names against the signature store.
type ProcessScanner struct {
	Probe platform.Probe
	Sigs  *signatures.Store
}

func (s *ProcessScanner) Name() string { return "Running Processes" }

func (s *ProcessScanner) Category() core.Category { return core.CategoryProcess }

func (s *ProcessScanner) Run(ctx context.Context) ([]core.Threat, error) {
	procs, err := s.Probe.ListProcesses()
	if err != nil {
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}

	var threats []core.Threat
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return threats, err
		}
		sig := s.Sigs.MatchProcess(p.Name)
		if sig == nil {
			continue
		}
		threats = append(threats, core.Threat{
			Category:    core.CategoryProcess,
			Name:        p.Name,
			Description: sig.Description,
			Location:    p.ExePath,
			Severity:    core.SeverityCritical,
			Tag:         "known_process",
			Removable:   true,
			ProcessID:   p.PID,
		})
	}
	return threats, nil
}
