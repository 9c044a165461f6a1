package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/config"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/signatures"
	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "atlasguard",
	Short: "AtlasGuard scans the local system for malware and unwanted software",
	Long:  `AtlasGuard walks the local file system and the common persistence surfaces (processes, startup entries, browser extensions, registry hijack points, scheduled tasks), reports its findings and can remediate them.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	ui.PrintBanner()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "atlasguard.yaml", "Path to the YAML config file")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// buildStore seeds the signature store and merges the configured overlay.
func buildStore(cfg *config.Config) *signatures.Store {
	sigs := signatures.NewStore()
	if cfg.DefinitionsFile != "" {
		if err := sigs.LoadFile(cfg.DefinitionsFile); err != nil {
			fmt.Printf("[!] Could not load definitions from %s: %v\n", cfg.DefinitionsFile, err)
		}
	}
	return sigs
}
