package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xhad/skim/pkg/scraper"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List supported sites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range scraper.DefaultRegistry(cfg.Scraper).Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
