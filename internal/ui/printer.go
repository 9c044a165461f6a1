package ui

import (
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
)

// PrintThreats renders the findings table, color-coded by severity.
func PrintThreats(threats []core.Threat) {
	if len(threats) == 0 {
		pterm.Success.Println("No threats found. System looks clean.")
		return
	}

	pterm.Warning.Printf("Found %d threat(s):\n\n", len(threats))

	data := [][]string{
		{"#", "Severity", "Category", "Name", "Location", "Description"},
	}

	for i, t := range threats {
		sevStyle := ""
		switch t.Severity {
		case core.SeverityCritical:
			sevStyle = pterm.FgRed.Sprint("CRITICAL")
		case core.SeverityHigh:
			sevStyle = pterm.FgRed.Sprint("HIGH")
		case core.SeverityMedium:
			sevStyle = pterm.FgYellow.Sprint("MEDIUM")
		default:
			sevStyle = pterm.FgBlue.Sprint("LOW")
		}

		data = append(data, []string{
			strconv.Itoa(i + 1),
			sevStyle,
			string(t.Category),
			pterm.FgCyan.Sprint(t.Name),
			t.Location,
			t.Description,
		})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// PrintSummary prints the severity breakdown and scan stats.
func PrintSummary(res *core.ScanResult) {
	crit, high, med, low := res.SeverityCounts()
	pterm.Println()
	pterm.Info.Printf("Scanned %d files in %s\n", res.FilesScanned, res.Elapsed.Round(10*time.Millisecond))
	if res.Cancelled {
		pterm.Warning.Println("Scan was cancelled; results are partial.")
	}
	if res.Err != "" {
		pterm.Error.Printf("Scan failed: %s\n", res.Err)
	}
	pterm.Printf("%s  %s  %s  %s\n",
		pterm.FgRed.Sprintf("critical: %d", crit),
		pterm.FgRed.Sprintf("high: %d", high),
		pterm.FgYellow.Sprintf("medium: %d", med),
		pterm.FgBlue.Sprintf("low: %d", low))
}

func StartSpinner(text string) *pterm.SpinnerPrinter {
	spinner, _ := pterm.DefaultSpinner.Start(text)
	return spinner
}
