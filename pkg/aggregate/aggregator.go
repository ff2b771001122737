// Package aggregate turns source outcomes into site summaries.
package aggregate

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/internal/types"
	"github.com/xhad/skim/pkg/reducer"
)

type Aggregator struct {
	pool    *reducer.Pool
	reducer types.TextReducer
}

func New(pool *reducer.Pool, r types.TextReducer) *Aggregator {
	return &Aggregator{pool: pool, reducer: r}
}

// Aggregate summarizes every successful outcome with content and maps the
// rest to error entries. The result has exactly the keys of outcomes.
func (a *Aggregator) Aggregate(ctx context.Context, outcomes map[string]models.SourceOutcome) map[string]models.SiteSummary {
	results := make(map[string]models.SiteSummary, len(outcomes))
	if len(outcomes) == 0 {
		return results
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(len(outcomes))

	for source, outcome := range outcomes {
		g.Go(func() error {
			summary := a.summarize(ctx, source, outcome)

			mu.Lock()
			results[source] = summary
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (a *Aggregator) summarize(ctx context.Context, source string, outcome models.SourceOutcome) models.SiteSummary {
	if !outcome.OK() {
		reason := models.NoValidContentScraped
		if outcome.Failure != nil && outcome.Failure.Reason != "" {
			reason = outcome.Failure.Reason
		}
		return errorSummary(reason)
	}

	if strings.TrimSpace(outcome.Success.Content) == "" {
		zap.L().Info("skipping source without content",
			zap.String("source", source),
			zap.NamedError("reason", models.ErrEmptyContent))
		return errorSummary(models.NoValidContentScraped)
	}

	refs := make([]models.SourceRef, len(outcome.Success.Citations))
	for i, c := range outcome.Success.Citations {
		refs[i] = models.SourceRef{URL: c.URL, Title: c.Title, Website: source}
	}

	return models.SiteSummary{
		Summary: a.pool.Summarize(ctx, outcome.Success.Content, a.reducer),
		Sources: refs,
	}
}

func errorSummary(reason string) models.SiteSummary {
	return models.SiteSummary{Error: reason, Sources: []models.SourceRef{}}
}
