package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Chunk reduction statuses.
const (
	ChunkOK      = "ok"
	ChunkSkipped = "skipped"
	ChunkError   = "error"
)

var (
	SourceAcquisitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skim_source_acquisitions_total",
			Help: "Total number of source acquisitions by outcome",
		},
		[]string{"source", "status"},
	)

	SourceAcquisitionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skim_source_acquisition_duration_seconds",
			Help:    "Duration of source acquisitions in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"source"},
	)

	ChunkReductionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skim_chunk_reductions_total",
			Help: "Total number of chunk reductions by outcome",
		},
		[]string{"status"},
	)

	ChunkReductionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skim_chunk_reduction_duration_seconds",
			Help:    "Duration of calls to the text reducer in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)
)

// RecordAcquisition updates the acquisition metrics for one source.
func RecordAcquisition(source string, ok bool, d time.Duration) {
	status := "success"
	if !ok {
		status = "failure"
	}
	SourceAcquisitionsTotal.WithLabelValues(source, status).Inc()
	SourceAcquisitionDuration.WithLabelValues(source).Observe(d.Seconds())
}

func RecordChunk(status string, d time.Duration) {
	ChunkReductionsTotal.WithLabelValues(status).Inc()
	if status != ChunkSkipped {
		ChunkReductionDuration.Observe(d.Seconds())
	}
}

// Server exposes /metrics over HTTP.
type Server struct {
	srv *http.Server
}

// Start begins listening on addr and serves the default registry.
func Start(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Error("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()

	return &Server{srv: srv}
}

func (s *Server) Stop(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
