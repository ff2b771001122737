package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [FILE|-]",
	Short: "Summarize text from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		content, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		svc, cleanup, err := newService(ctx, false)
		if err != nil {
			return err
		}
		defer cleanup()

		var summary string
		_ = withSpinner("Summarizing...", func() error {
			summary = svc.SummarizeRaw(ctx, content)
			return nil
		})

		fmt.Fprintln(cmd.OutOrStdout(), summary)
		return nil
	},
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", eris.Wrap(err, "read stdin")
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", eris.Wrapf(err, "read %s", args[0])
	}
	return string(data), nil
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
