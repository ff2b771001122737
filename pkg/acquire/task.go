// Package acquire runs source adapters concurrently and turns each run into
// a SourceOutcome.
package acquire

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xhad/skim/internal/metrics"
	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/internal/types"
)

// Task acquires one source. It never returns an error: creation failures,
// fetch errors, panics and deadline expiry all become a Failure outcome. The
// adapter is closed exactly once, after Fetch has returned.
func Task(ctx context.Context, source, keyword string, factory types.AdapterFactory) models.SourceOutcome {
	log := zap.L().With(zap.String("source", source), zap.String("keyword", keyword))
	start := time.Now()

	var outcome models.SourceOutcome
	if err := ctx.Err(); err != nil {
		// No adapter is created for an already finished request.
		outcome = models.Failed(models.AcquisitionFailure, err.Error())
	} else {
		// Buffered so a late result does not block the worker after a deadline.
		done := make(chan models.SourceOutcome, 1)
		go func() {
			done <- run(ctx, source, keyword, factory)
		}()

		select {
		case outcome = <-done:
		case <-ctx.Done():
			outcome = models.Failed(models.AcquisitionFailure, ctx.Err().Error())
		}
	}

	elapsed := time.Since(start)
	metrics.RecordAcquisition(source, outcome.OK(), elapsed)

	if outcome.OK() {
		log.Info("source acquired",
			zap.Int("chars", len(outcome.Success.Content)),
			zap.Int("citations", len(outcome.Success.Citations)),
			zap.Duration("elapsed", elapsed))
	} else {
		log.Warn("source failed",
			zap.String("reason", outcome.Failure.Reason),
			zap.Stringer("kind", outcome.Failure.Kind),
			zap.Duration("elapsed", elapsed))
	}

	return outcome
}

func run(ctx context.Context, source, keyword string, factory types.AdapterFactory) (outcome models.SourceOutcome) {
	var adapter types.SourceAdapter

	defer func() {
		if rec := recover(); rec != nil {
			outcome = models.Failed(models.AcquisitionFailure, fmt.Sprintf("%s adapter panic: %v", source, rec))
		}
		if adapter != nil {
			if err := adapter.Close(); err != nil {
				zap.L().Warn("adapter close failed", zap.String("source", source), zap.Error(err))
			}
		}
	}()

	adapter, err := factory(ctx)
	if err != nil {
		return models.Failed(models.AcquisitionFailure, err.Error())
	}
	if adapter == nil {
		return models.Failed(models.AcquisitionFailure, models.ErrAcquisition.Error())
	}

	docs, err := adapter.Fetch(ctx, keyword)
	if err != nil {
		return models.Failed(models.AcquisitionFailure, err.Error())
	}

	return normalize(docs)
}

// normalize joins document contents and collects citations for documents
// that carry a URL.
func normalize(docs []models.Document) models.SourceOutcome {
	parts := make([]string, 0, len(docs))
	citations := make([]models.Citation, 0, len(docs))

	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) != "" {
			parts = append(parts, doc.Content)
		}
		if doc.URL != "" {
			citations = append(citations, models.Citation{URL: doc.URL, Title: doc.DisplayTitle()})
		}
	}

	if len(parts) == 0 && len(citations) == 0 {
		return models.Failed(models.AcquisitionFailure, models.NoDataForKeyword)
	}
	return models.Succeeded(strings.Join(parts, " "), citations)
}
