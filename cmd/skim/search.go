package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search archived summaries by similarity",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")

		archive, err := openArchive(ctx)
		if err != nil {
			return err
		}
		defer archive.Close()

		records, err := archive.SearchText(ctx, strings.Join(args, " "), limit)
		if err != nil {
			return eris.Wrap(err, "search")
		}

		printRecords(cmd.OutOrStdout(), records)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntP("limit", "n", 0, "maximum number of results (default from config)")
	rootCmd.AddCommand(searchCmd)
}
