// Package digest exposes the acquire-and-summarize and raw summarization
// operations.
package digest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/internal/types"
	"github.com/xhad/skim/pkg/acquire"
	"github.com/xhad/skim/pkg/aggregate"
	"github.com/xhad/skim/pkg/reducer"
)

type Service struct {
	orchestrator *acquire.Orchestrator
	aggregator   *aggregate.Aggregator
	pool         *reducer.Pool
	reducer      types.TextReducer
	archive      types.Archive
	now          func() time.Time
}

type Option func(*Service)

// WithArchive saves every digest produced by AcquireAndSummarize.
func WithArchive(archive types.Archive) Option {
	return func(s *Service) {
		s.archive = archive
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(orchestrator *acquire.Orchestrator, pool *reducer.Pool, r types.TextReducer, opts ...Option) *Service {
	s := &Service{
		orchestrator: orchestrator,
		aggregator:   aggregate.New(pool, r),
		pool:         pool,
		reducer:      r,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AcquireAndSummarize fetches keyword from every requested source and
// summarizes each one. Source failures are reported inside the digest; the
// only error is ErrNoSources for an empty source list.
func (s *Service) AcquireAndSummarize(ctx context.Context, keyword string, sources []string) (*models.Digest, error) {
	names := normalizeSources(sources)
	if len(names) == 0 {
		return nil, eris.Wrap(models.ErrNoSources, "digest: acquire and summarize")
	}

	digest := &models.Digest{
		ID:        uuid.New(),
		Keyword:   strings.TrimSpace(keyword),
		CreatedAt: s.now().UTC(),
	}
	log := zap.L().With(zap.Stringer("digest_id", digest.ID), zap.String("keyword", digest.Keyword))
	log.Info("digest started", zap.Strings("sources", names))

	outcomes := s.orchestrator.AcquireAll(ctx, models.SourceRequest{
		Keyword: digest.Keyword,
		Sources: names,
	})
	digest.Results = s.aggregator.Aggregate(ctx, outcomes)

	failed := 0
	for _, res := range digest.Results {
		if res.Failed() {
			failed++
		}
	}
	log.Info("digest finished",
		zap.Int("sources", len(digest.Results)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", s.now().Sub(digest.CreatedAt)))

	if s.archive != nil && failed < len(digest.Results) {
		if err := s.archive.Save(ctx, digest); err != nil {
			log.Error("archive digest", zap.Error(err))
		}
	}

	return digest, nil
}

// SummarizeRaw chunks, reduces and joins caller supplied text.
func (s *Service) SummarizeRaw(ctx context.Context, content string) string {
	return s.pool.Summarize(ctx, content, s.reducer)
}

// Sources returns the registered source names in sorted order.
func (s *Service) Sources() []string {
	return s.orchestrator.Registry().Names()
}

// ParseSources splits a comma separated site list such as "medium, Wix".
func ParseSources(list string) []string {
	return normalizeSources(strings.Split(list, ","))
}

func normalizeSources(sources []string) []string {
	seen := make(map[string]struct{}, len(sources))
	names := make([]string, 0, len(sources))
	for _, raw := range sources {
		name := acquire.Normalize(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
