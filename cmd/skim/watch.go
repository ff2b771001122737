package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xhad/skim/internal/metrics"
	"github.com/xhad/skim/pkg/digest"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Produce digests on a cron schedule",
	Example: `  skim watch -k golang --cron "0 */6 * * *" --archive
  skim watch -k kubernetes --cron "@every 1h" --metrics-addr :9090`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		keyword, _ := cmd.Flags().GetString("keyword")
		sites, _ := cmd.Flags().GetString("sites")
		spec, _ := cmd.Flags().GetString("cron")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		archive, _ := cmd.Flags().GetBool("archive")
		now, _ := cmd.Flags().GetBool("now")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, cleanup, err := newService(ctx, archive)
		if err != nil {
			return err
		}
		defer cleanup()

		sources := digest.ParseSources(sites)
		log := zap.L().With(zap.String("keyword", keyword), zap.Strings("sources", sources))

		job := func() {
			d, err := svc.AcquireAndSummarize(ctx, keyword, sources)
			if err != nil {
				log.Error("scheduled digest failed", zap.Error(err))
				return
			}
			failed := 0
			for _, res := range d.Results {
				if res.Failed() {
					failed++
				}
			}
			log.Info("scheduled digest done",
				zap.Stringer("digest_id", d.ID),
				zap.Int("failed", failed))
		}

		c := cron.New(cron.WithLocation(time.UTC))
		if _, err := c.AddFunc(spec, job); err != nil {
			return eris.Wrapf(err, "watch: invalid cron spec %q", spec)
		}

		var srv *metrics.Server
		if metricsAddr != "" {
			srv = metrics.Start(metricsAddr)
			log.Info("serving metrics", zap.String("addr", metricsAddr))
		}

		if now {
			job()
		}

		c.Start()
		log.Info("watching", zap.String("cron", spec))

		<-ctx.Done()

		// Let a running digest finish before shutting down.
		<-c.Stop().Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown", zap.Error(err))
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringP("keyword", "k", "", "keyword to search for")
	watchCmd.Flags().StringP("sites", "s", defaultSites, "comma-separated list of sites")
	watchCmd.Flags().String("cron", "@every 6h", "cron schedule (UTC)")
	watchCmd.Flags().String("metrics-addr", ":9090", "address for the Prometheus /metrics endpoint; empty disables it")
	watchCmd.Flags().Bool("archive", false, "save every digest to the archive database")
	watchCmd.Flags().Bool("now", false, "run one digest immediately")
	_ = watchCmd.MarkFlagRequired("keyword")

	rootCmd.AddCommand(watchCmd)
}
