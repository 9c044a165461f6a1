package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TommyTiptoes/Atlas-Ai-sub004/internal/remediate"
)

var quarantineCmd = &cobra.Command{
	Use:   "quarantine",
	Short: "Inspect and restore quarantined files",
}

var quarantineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quarantined files",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("[!] Config error: %v\n", err)
			os.Exit(1)
		}

		jail := remediate.NewJail(cfg.QuarantineDir)
		cells, err := jail.List()
		if err != nil {
			fmt.Printf("[!] Could not read quarantine: %v\n", err)
			os.Exit(1)
		}
		if len(cells) == 0 {
			fmt.Println("[*] Quarantine is empty.")
			return
		}
		for _, cell := range cells {
			fmt.Printf("  %s\n", cell)
		}
	},
}

var quarantineRestoreCmd = &cobra.Command{
	Use:   "restore <cell>",
	Short: "Restore a quarantined file",
	Long:  `Decodes a quarantine cell back into a regular file. The restored copy lands in the target directory under a Restored_ prefix; the cell is kept.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("[!] Config error: %v\n", err)
			os.Exit(1)
		}
		dest, _ := cmd.Flags().GetString("to")

		jail := remediate.NewJail(cfg.QuarantineDir)
		path, err := jail.Restore(args[0], dest)
		if err != nil {
			fmt.Printf("[!] Restore failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("[+] Restored to %s\n", path)
	},
}

func init() {
	quarantineRestoreCmd.Flags().String("to", ".", "Directory to restore into")
	quarantineCmd.AddCommand(quarantineListCmd, quarantineRestoreCmd)
	rootCmd.AddCommand(quarantineCmd)
}
