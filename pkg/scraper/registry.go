package scraper

import (
	"context"

	"github.com/xhad/skim/internal/types"
	"github.com/xhad/skim/pkg/acquire"
	"github.com/xhad/skim/pkg/config"
)

const (
	DefaultMaxArticles = 6

	Medium = "medium"
	Devto  = "devto"
	Wix    = "wix"
)

// DefaultRegistry registers the medium, devto and wix adapters. Every factory
// call builds a fresh adapter with its own fetcher.
func DefaultRegistry(cfg config.ScraperConfig) *acquire.Registry {
	reg := acquire.NewRegistry()
	Register(reg, cfg)
	return reg
}

func Register(reg *acquire.Registry, cfg config.ScraperConfig) {
	fetcher := func() *Fetcher {
		return NewFetcher(FetcherConfig{
			RateLimit: cfg.RateLimit,
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
		})
	}

	reg.Register(Medium, func(ctx context.Context) (types.SourceAdapter, error) {
		return newFeedAdapter(Medium, orDefault(cfg.MediumURL, "https://medium.com"), cfg.MaxArticles, fetcher()), nil
	})
	reg.Register(Devto, func(ctx context.Context) (types.SourceAdapter, error) {
		return newFeedAdapter(Devto, orDefault(cfg.DevtoURL, "https://dev.to"), cfg.MaxArticles, fetcher()), nil
	})
	reg.Register(Wix, func(ctx context.Context) (types.SourceAdapter, error) {
		return newWixAdapter(orDefault(cfg.WixURL, "https://www.wix.com"), cfg.MaxArticles, fetcher()), nil
	})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
