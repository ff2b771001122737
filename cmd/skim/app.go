package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/xhad/skim/pkg/acquire"
	"github.com/xhad/skim/pkg/digest"
	"github.com/xhad/skim/pkg/llm"
	"github.com/xhad/skim/pkg/reducer"
	"github.com/xhad/skim/pkg/scraper"
	"github.com/xhad/skim/pkg/store"
)

const defaultSites = "medium,devto,wix"

func newPool() *reducer.Pool {
	return reducer.New(reducer.Config{
		MaxWorkers: cfg.Reduce.MaxWorkers,
		ChunkSize:  cfg.Reduce.ChunkSize,
		Params: reducer.Params{
			MaxLen: cfg.Reduce.MaxLength,
			MinLen: cfg.Reduce.MinLength,
		},
		Timeout: cfg.Reduce.Timeout,
	})
}

// newService wires the digest service from the loaded config. The returned
// cleanup releases the archive when one was opened.
func newService(ctx context.Context, withArchive bool) (*digest.Service, func(), error) {
	r, err := llm.Shared(cfg.LLM)
	if err != nil {
		return nil, nil, eris.Wrap(err, "init text reducer")
	}

	orchestrator := acquire.NewOrchestrator(
		scraper.DefaultRegistry(cfg.Scraper),
		acquire.Config{Timeout: cfg.Acquire.Timeout},
	)

	var (
		opts    []digest.Option
		cleanup = func() {}
	)
	if withArchive {
		archive, err := openArchive(ctx)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, digest.WithArchive(archive))
		cleanup = archive.Close
	}

	return digest.New(orchestrator, newPool(), r, opts...), cleanup, nil
}

func openArchive(ctx context.Context) (*store.Archive, error) {
	if cfg.Database.URL == "" {
		return nil, eris.New("archive: database.url (DATABASE_URL) is not configured")
	}

	emb, err := llm.NewEmbedder(llm.EmbedderConfig{
		Model:   cfg.LLM.EmbeddingModel,
		BaseURL: cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	archive, err := store.Connect(ctx, cfg.Database.URL, emb, store.Config{
		TableName:   cfg.Database.TableName,
		VectorDim:   cfg.Database.VectorDim,
		SearchLimit: cfg.Database.SearchLimit,
	})
	if err != nil {
		return nil, err
	}

	if err := archive.Init(ctx); err != nil {
		archive.Close()
		return nil, err
	}
	return archive, nil
}
