package acquire

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/internal/types"
)

const DefaultTimeout = time.Minute

type Config struct {
	// Timeout bounds each Source Task. Zero means DefaultTimeout, negative
	// means no deadline.
	Timeout time.Duration
}

// Orchestrator runs one Source Task per supported source.
type Orchestrator struct {
	registry *Registry
	config   Config
}

func NewOrchestrator(registry *Registry, config Config) *Orchestrator {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	return &Orchestrator{
		registry: registry,
		config:   config,
	}
}

func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// AcquireAll returns exactly one outcome per distinct normalized source name.
// Unknown sources are rejected before any adapter is created.
func (o *Orchestrator) AcquireAll(ctx context.Context, req models.SourceRequest) map[string]models.SourceOutcome {
	results := make(map[string]models.SourceOutcome, len(req.Sources))
	supported := make(map[string]types.AdapterFactory, len(req.Sources))

	for _, raw := range req.Sources {
		name := Normalize(raw)
		if name == "" {
			continue
		}
		if _, seen := results[name]; seen {
			continue
		}
		if _, seen := supported[name]; seen {
			continue
		}

		factory, err := o.registry.Lookup(name)
		if err != nil {
			zap.L().Warn("unsupported source", zap.String("source", name))
			results[name] = models.Failed(models.UnsupportedSource, models.UnsupportedSite)
			continue
		}
		supported[name] = factory
	}

	if len(supported) == 0 {
		return results
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(len(supported))

	for name, factory := range supported {
		g.Go(func() error {
			taskCtx, cancel := o.taskContext(ctx)
			defer cancel()

			outcome := Task(taskCtx, name, req.Keyword, factory)

			mu.Lock()
			results[name] = outcome
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (o *Orchestrator) taskContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.config.Timeout < 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.config.Timeout)
}
