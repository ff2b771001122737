// Package acquiretest provides scriptable source adapters for tests.
package acquiretest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/internal/types"
)

// Adapter returns Docs or Err after Delay. A non-nil Panic value is raised
// from Fetch.
type Adapter struct {
	Docs     []models.Document
	Err      error
	Delay    time.Duration
	Panic    any
	CloseErr error

	// IgnoreContext makes Fetch sleep through cancellation.
	IgnoreContext bool

	fetches atomic.Int32
	closes  atomic.Int32
}

func (a *Adapter) Fetch(ctx context.Context, keyword string) ([]models.Document, error) {
	a.fetches.Add(1)

	if a.Delay > 0 {
		if a.IgnoreContext {
			time.Sleep(a.Delay)
		} else {
			select {
			case <-time.After(a.Delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if a.Panic != nil {
		panic(a.Panic)
	}
	return a.Docs, a.Err
}

func (a *Adapter) Close() error {
	a.closes.Add(1)
	return a.CloseErr
}

func (a *Adapter) Fetches() int { return int(a.fetches.Load()) }
func (a *Adapter) Closes() int  { return int(a.closes.Load()) }

// Factory hands out a and counts how often it was asked to.
type Factory struct {
	Adapter *Adapter
	Err     error

	calls atomic.Int32
}

func (f *Factory) New(ctx context.Context) (types.SourceAdapter, error) {
	f.calls.Add(1)
	if f.Adapter == nil {
		return nil, f.Err
	}
	return f.Adapter, f.Err
}

func (f *Factory) Calls() int { return int(f.calls.Load()) }
