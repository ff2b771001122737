package main

import (
	"errors"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xhad/skim/internal/logging"
	"github.com/xhad/skim/pkg/config"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "skim",
	Short: "Keyword digests across blogging platforms",
	Long: "Fetches articles about a keyword from several blogging platforms, " +
		"summarizes each platform's content with an LLM and reports per-site results.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig(cfgPath)
		if err != nil {
			return eris.Wrap(err, "load config")
		}

		if verrs := c.Validate(); len(verrs) > 0 {
			errs := make([]error, len(verrs))
			for i, v := range verrs {
				errs[i] = v
			}
			return eris.Wrap(errors.Join(errs...), "invalid config")
		}
		cfg = c

		if err := logging.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: skim.yaml, ~/.config/skim/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
