package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/platform"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/remediate"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/ui"
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Scan, then remove the removable findings",
	Long:  `Runs a full scan and then remediates every removable finding. Without --nuke each removal is confirmed interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		nuke, _ := cmd.Flags().GetBool("nuke")

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
		ui.PrintThreats(result.Threats)

		engine := remediate.NewEngine(platform.NewProbe())
		if cfg.QuarantineFirst {
			engine.Jail = remediate.NewJail(cfg.QuarantineDir)
			engine.QuarantineFirst = true
		}

		reader := bufio.NewReader(os.Stdin)
		removed, failed, skipped := 0, 0, 0
		for _, t := range result.Threats {
			if !t.Removable {
				skipped++
				continue
			}
			if !nuke {
				fmt.Printf("Remove %s (%s)? (y/n): ", t.Name, t.Location)
				line, _ := reader.ReadString('\n')
				if strings.TrimSpace(strings.ToLower(line)) != "y" {
					skipped++
					continue
				}
			}
			res := engine.Remove(t)
			if res.Success {
				removed++
				fmt.Printf("[+] %s\n", res.Message)
			} else {
				failed++
				fmt.Printf("[!] %s\n", res.Message)
			}
		}

		fmt.Printf("\n[*] Remediation finished: %d removed, %d failed, %d skipped.\n", removed, failed, skipped)
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	removeCmd.Flags().Bool("nuke", false, "Remove everything removable without asking")
	rootCmd.AddCommand(removeCmd)
}
