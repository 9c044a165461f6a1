package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/config"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/scan"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/ui"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/utils"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a full threat scan",
	Long:  `Runs every scan phase over the configured roots and prints the findings. Ctrl-C cancels cooperatively; partial results are still reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("[!] Config error: %v\n", err)
			os.Exit(1)
		}

		result, err := runScan(cfg)
		if err != nil {
			fmt.Printf("[!] %v\n", err)
			os.Exit(1)
		}

		if cfg.OutputFormat == "json" {
			data, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(data))
		} else {
			ui.PrintThreats(result.Threats)
			ui.PrintSummary(result)
		}

		if cfg.ReportDir != "" {
			if err := os.MkdirAll(cfg.ReportDir, 0755); err == nil {
				if path, err := result.WriteReport(cfg.ReportDir); err == nil {
					fmt.Printf("[+] Report written to %s\n", path)
				}
			}
		}

		if result.Err != "" {
			os.Exit(1)
		}
	},
}

// runScan wires the orchestrator to a spinner sink and runs one scan to
// completion, translating Ctrl-C into cooperative cancellation.
func runScan(cfg *config.Config) (*core.ScanResult, error) {
	if err := core.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("prepare working directories: %w", err)
	}

	if !utils.IsElevated() {
		fmt.Println("[!] Not running elevated; some processes and registry hives may be unreadable.")
	}

	probe := platform.NewProbe()
	sigs := buildStore(cfg)
	orch := scan.New(probe, sigs, scan.WithRoots(cfg.EffectiveRoots()...))

	spinner := ui.StartSpinner("Preparing scan")
	sink := &scan.EventSink{
		OnProgress: func(message string, percent int) {
			spinner.UpdateText(fmt.Sprintf("[%3d%%] %s", percent, message))
		},
		OnThreatFound: func(t core.Threat) {
			fmt.Printf("\n[!] %s: %s (%s)\n", t.Severity, t.Name, t.Location)
		},
	}

	handle, err := orch.StartScan(sink)
	if err != nil {
		spinner.Fail("Could not start scan")
		return nil, err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	go func() {
		select {
		case <-interrupt:
			spinner.UpdateText("Cancelling scan...")
			orch.CancelScan()
		case <-handle.Done():
		}
	}()

	result := handle.Result()
	switch {
	case result.Cancelled:
		spinner.Warning("Scan cancelled")
	case result.Err != "":
		spinner.Fail("Scan failed")
	default:
		spinner.Success("Scan complete")
	}
	return result, nil
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
