package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List all configured sources",
	Long:  "Reads the config and prints a table of all enabled sources.",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-25s %-12s %s\n", "Source", "ATS", "Board")
	fmt.Println(strings.Repeat("─", 80))

	for _, s := range cfg.Sources {
		fmt.Printf("%-25s %-12s %s\n", s.Name, s.Kind, s.BoardRef)
	}

	fmt.Printf("\nTotal: %d sources\n", len(cfg.Sources))
	return nil
}
