package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/pkg/digest"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Fetch and summarize a keyword across sites",
	Example: `  skim digest --keyword golang --sites medium,wix
  skim digest -k "machine learning" --json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		keyword, _ := cmd.Flags().GetString("keyword")
		sites, _ := cmd.Flags().GetString("sites")
		asJSON, _ := cmd.Flags().GetBool("json")
		archive, _ := cmd.Flags().GetBool("archive")

		svc, cleanup, err := newService(ctx, archive)
		if err != nil {
			return err
		}
		defer cleanup()

		var d *models.Digest
		err = withSpinner("Summarizing "+keyword+"...", func() error {
			var err error
			d, err = svc.AcquireAndSummarize(ctx, keyword, digest.ParseSources(sites))
			return err
		})
		if err != nil {
			return eris.Wrap(err, "digest")
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		}
		printDigest(cmd.OutOrStdout(), d)
		return nil
	},
}

func init() {
	digestCmd.Flags().StringP("keyword", "k", "", "keyword to search for")
	digestCmd.Flags().StringP("sites", "s", defaultSites, "comma-separated list of sites")
	digestCmd.Flags().Bool("json", false, "print the digest as JSON")
	digestCmd.Flags().Bool("archive", false, "save the digest to the archive database")
	_ = digestCmd.MarkFlagRequired("keyword")

	rootCmd.AddCommand(digestCmd)
}
