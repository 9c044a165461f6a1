package scanners

import (
	"context"
	"fmt"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/signatures"
)

// runKeyLocations are the fixed per-user and per-machine startup locations.
type runKeyLocation struct {
	Hive platform.Hive
	Key  string
}

var runKeyLocations = []runKeyLocation{
	{platform.HiveCurrentUser, `SOFTWARE\Microsoft\Windows\CurrentVersion\Run`},
	{platform.HiveCurrentUser, `SOFTWARE\Microsoft\Windows\CurrentVersion\RunOnce`},
	{platform.HiveLocalMachine, `SOFTWARE\Microsoft\Windows\CurrentVersion\Run`},
	{platform.HiveLocalMachine, `SOFTWARE\Microsoft\Windows\CurrentVersion\RunOnce`},
	{platform.HiveLocalMachine, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Run`},
}

// StartupScanner checks run-on-startup registry values. Both the value name
// and its content are matched against the filename pattern list.
type StartupScanner struct {
	Probe platform.Probe
	Sigs  *signatures.Store
}

func (s *StartupScanner) Name() string { return "Startup Entries" }

func (s *StartupScanner) Category() core.Category { return core.CategoryStartup }

func (s *StartupScanner) Run(ctx context.Context) ([]core.Threat, error) {
	var threats []core.Threat
	for _, loc := range runKeyLocations {
		if err := ctx.Err(); err != nil {
			return threats, err
		}
		names, err := s.Probe.ListRegistryValueNames(loc.Hive, loc.Key)
		if err != nil {
			continue // key missing or unreadable: move to the next location
		}
		for _, name := range names {
			value, err := s.Probe.ReadRegistryValue(loc.Hive, loc.Key, name)
			if err != nil {
				continue
			}
			sig := s.Sigs.MatchFilename(name)
			if sig == nil {
				sig = s.Sigs.MatchFilename(value)
			}
			if sig == nil {
				continue
			}
			threats = append(threats, core.Threat{
				Category:    core.CategoryStartup,
				Name:        name,
				Description: fmt.Sprintf("Suspicious startup entry: %s", sig.Description),
				Location:    fmt.Sprintf(`%s\%s\%s`, loc.Hive, loc.Key, name),
				Details:     value,
				Severity:    core.SeverityHigh,
				Tag:         "startup_entry",
				Removable:   true,
			})
		}
	}
	return threats, nil
}
