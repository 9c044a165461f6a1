package scanners

import (
	"context"
	"fmt"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/signatures"
)

// hijackLocations are high-value keys malware rewrites to hook the shell or
// the browser: helper objects, logon overrides, IE toolbars and extensions.
var hijackLocations = []runKeyLocation{
	{platform.HiveLocalMachine, `SOFTWARE\Microsoft\Windows\CurrentVersion\Explorer\Browser Helper Objects`},
	{platform.HiveLocalMachine, `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Winlogon`},
	{platform.HiveCurrentUser, `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Winlogon`},
	{platform.HiveLocalMachine, `SOFTWARE\Microsoft\Internet Explorer\Toolbar`},
	{platform.HiveLocalMachine, `SOFTWARE\Microsoft\Internet Explorer\Extensions`},
}

// HijackScanner inspects registry hijack points for suspicious values.
type HijackScanner struct {
	Probe platform.Probe
	Sigs  *signatures.Store
}

func (s *HijackScanner) Name() string { return "Registry Hijack Points" }

func (s *HijackScanner) Category() core.Category { return core.CategoryRegistry }

func (s *HijackScanner) Run(ctx context.Context) ([]core.Threat, error) {
	var threats []core.Threat
	for _, loc := range hijackLocations {
		if err := ctx.Err(); err != nil {
			return threats, err
		}
		names, err := s.Probe.ListRegistryValueNames(loc.Hive, loc.Key)
		if err != nil {
			continue
		}
		for _, name := range names {
			value, err := s.Probe.ReadRegistryValue(loc.Hive, loc.Key, name)
			if err != nil {
				continue
			}
			sig := s.Sigs.MatchRegistryValue(value)
			if sig == nil {
				continue
			}
			threats = append(threats, core.Threat{
				Category:    core.CategoryRegistry,
				Name:        name,
				Description: fmt.Sprintf("Hijack point tampered: %s", sig.Description),
				Location:    fmt.Sprintf(`%s\%s\%s`, loc.Hive, loc.Key, name),
				Details:     value,
				Severity:    core.SeverityHigh,
				Tag:         "registry_hijack",
				Removable:   true,
			})
		}
	}
	return threats, nil
}
