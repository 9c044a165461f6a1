package scanners

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/signatures"
)

// TaskScanner reads task definition files from the OS task store and
// pattern-matches their raw content. Task XML embeds the command line, so
// the registry command-line patterns apply directly.
type TaskScanner struct {
	Probe platform.Probe
	Sigs  *signatures.Store

	// Visited, when set, is called once per readable task file.
	Visited func()
}

func (s *TaskScanner) Name() string { return "Scheduled Tasks" }

func (s *TaskScanner) Category() core.Category { return core.CategoryScheduledTask }

func (s *TaskScanner) Run(ctx context.Context) ([]core.Threat, error) {
	files, err := s.Probe.ListScheduledTaskFiles()
	if err != nil {
		return nil, fmt.Errorf("list task store: %w", err)
	}

	var threats []core.Threat
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return threats, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue // corrupt or locked definition: keep scanning siblings
		}
		if s.Visited != nil {
			s.Visited()
		}
		sig := s.Sigs.MatchRegistryValue(string(data))
		if sig == nil {
			continue
		}
		threats = append(threats, core.Threat{
			Category:    core.CategoryScheduledTask,
			Name:        filepath.Base(path),
			Description: fmt.Sprintf("Task definition matches: %s", sig.Description),
			Location:    path,
			Severity:    core.SeverityMedium,
			Tag:         "scheduled_task",
			Removable:   true,
		})
	}
	return threats, nil
}
