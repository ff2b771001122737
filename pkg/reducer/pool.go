package reducer

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xhad/skim/internal/metrics"
	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/internal/types"
	"github.com/xhad/skim/pkg/processor"
)

const (
	DefaultMaxWorkers = 6
	DefaultMaxLen     = 100
	DefaultMinLen     = 30

	// minWords is the smallest chunk worth sending to the reducer.
	minWords = 5
)

// Params bounds the length of each chunk summary.
type Params struct {
	MaxLen int
	MinLen int
}

type Config struct {
	MaxWorkers int
	ChunkSize  int
	Params     Params
	// Timeout bounds one Reduce batch. Zero means no deadline.
	Timeout time.Duration
}

// Pool reduces batches of chunks with bounded parallelism.
type Pool struct {
	config    Config
	processor processor.Processor
}

func New(config Config) *Pool {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultMaxWorkers
	}
	if config.Params.MaxLen <= 0 {
		config.Params.MaxLen = DefaultMaxLen
	}
	if config.Params.MinLen <= 0 {
		config.Params.MinLen = DefaultMinLen
	}

	return &Pool{
		config:    config,
		processor: processor.NewWithConfig(processor.ProcessorConfig{ChunkSize: config.ChunkSize}),
	}
}

// Params returns the default summary bounds of the pool.
func (p *Pool) Params() Params {
	return p.config.Params
}

// Summarize chunks text, reduces every chunk and joins the summaries. Blank
// text never reaches the reducer.
func (p *Pool) Summarize(ctx context.Context, text string, r types.TextReducer) string {
	if strings.TrimSpace(text) == "" {
		return models.NoValidContentProvided
	}

	chunks := p.processor.Split(text)
	return Join(p.Reduce(ctx, chunks, r, p.config.Params))
}

// Reduce summarizes every chunk and returns exactly one result per chunk,
// sorted by chunk index. A failing chunk yields an "Error: ..." summary and
// never affects its siblings.
func (p *Pool) Reduce(
	ctx context.Context,
	chunks []models.Chunk,
	r types.TextReducer,
	params Params,
) []models.ChunkResult {
	results := make([]models.ChunkResult, len(chunks))
	if len(chunks) == 0 {
		return results
	}

	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	// Plain group: one chunk failing must not cancel the others.
	var g errgroup.Group
	g.SetLimit(min(p.config.MaxWorkers, len(chunks)))

	for i, c := range chunks {
		g.Go(func() error {
			results[i] = models.ChunkResult{
				Index:   c.Index,
				Summary: p.reduceChunk(ctx, c, r, params),
			}
			return nil
		})
	}
	_ = g.Wait()

	slices.SortStableFunc(results, func(a, b models.ChunkResult) int {
		return cmp.Compare(a.Index, b.Index)
	})

	return results
}

// Join concatenates summaries in index order separated by a single space.
func Join(results []models.ChunkResult) string {
	summaries := make([]string, len(results))
	for i, res := range results {
		summaries[i] = res.Summary
	}
	return strings.Join(summaries, " ")
}

type reply struct {
	summary string
	err     error
}

func (p *Pool) reduceChunk(
	ctx context.Context,
	c models.Chunk,
	r types.TextReducer,
	params Params,
) string {
	if strings.TrimSpace(c.Text) == "" {
		metrics.RecordChunk(metrics.ChunkSkipped, 0)
		return models.NoValidContent
	}
	if processor.CountWords(c.Text) < minWords {
		metrics.RecordChunk(metrics.ChunkSkipped, 0)
		return models.TooShortToSummarize
	}

	// Past the deadline no new reducer call starts, so calls that ignore
	// ctx never exceed the worker cap.
	if err := ctx.Err(); err != nil {
		metrics.RecordChunk(metrics.ChunkError, 0)
		return "Error: " + err.Error()
	}

	start := time.Now()

	// The reducer runs in its own goroutine so an expired deadline returns
	// even when the backend ignores ctx.
	replyCh := make(chan reply, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				replyCh <- reply{err: fmt.Errorf("reducer panic: %v", rec)}
			}
		}()
		summary, err := r.Reduce(ctx, c.Text, params.MaxLen, params.MinLen)
		replyCh <- reply{summary: summary, err: err}
	}()

	var rep reply
	select {
	case <-ctx.Done():
		rep.err = ctx.Err()
	case rep = <-replyCh:
	}

	if rep.err != nil {
		metrics.RecordChunk(metrics.ChunkError, time.Since(start))
		zap.L().Warn("chunk reduction failed",
			zap.Int("chunk", c.Index),
			zap.Int("chars", len(c.Text)),
			zap.Error(rep.err))
		return "Error: " + rep.err.Error()
	}

	metrics.RecordChunk(metrics.ChunkOK, time.Since(start))
	return strings.TrimSpace(rep.summary)
}
