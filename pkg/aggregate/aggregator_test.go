package aggregate_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/pkg/aggregate"
	"github.com/xhad/skim/pkg/llm/llmtest"
	"github.com/xhad/skim/pkg/reducer"
)

func TestAggregate(t *testing.T) {
	fake := &llmtest.Reducer{}
	agg := aggregate.New(reducer.New(reducer.Config{}), fake)

	outcomes := map[string]models.SourceOutcome{
		"medium": models.Succeeded("goroutines make concurrency cheap and easy", []models.Citation{
			{URL: "https://medium.com/p/1", Title: "Goroutines"},
		}),
		"devto":   models.Failed(models.AcquisitionFailure, "connection reset"),
		"wix":     models.Succeeded("  \n ", nil),
		"myspace": models.Failed(models.UnsupportedSource, models.UnsupportedSite),
		"empty":   models.Failed(models.AcquisitionFailure, ""),
	}

	results := agg.Aggregate(context.Background(), outcomes)
	require.Len(t, results, len(outcomes))

	assert.Equal(t, models.SiteSummary{
		Summary: "sum:goroutines",
		Sources: []models.SourceRef{{URL: "https://medium.com/p/1", Title: "Goroutines", Website: "medium"}},
	}, results["medium"])

	assert.Equal(t, models.SiteSummary{Error: "connection reset", Sources: []models.SourceRef{}}, results["devto"])
	assert.Equal(t, models.SiteSummary{Error: models.NoValidContentScraped, Sources: []models.SourceRef{}}, results["wix"])
	assert.Equal(t, models.UnsupportedSite, results["myspace"].Error)
	assert.Equal(t, models.NoValidContentScraped, results["empty"].Error)

	// Only the one source with content reached the reducer.
	assert.Equal(t, 1, fake.Calls())
}

func TestAggregate_LongContentIsChunked(t *testing.T) {
	fake := &llmtest.Reducer{}
	agg := aggregate.New(reducer.New(reducer.Config{ChunkSize: 30}), fake)

	content := strings.Repeat("alpha beta gamma delta eps ", 2) + strings.Repeat("kappa beta gamma delta eps ", 2)
	results := agg.Aggregate(context.Background(), map[string]models.SourceOutcome{
		"medium": models.Succeeded(content, nil),
	})

	// The last 18-character chunk has four words and is never reduced.
	assert.Equal(t, 3, fake.Calls())
	assert.Equal(t, "sum:alpha sum:ha sum:beta "+models.TooShortToSummarize, results["medium"].Summary)
	assert.NotNil(t, results["medium"].Sources)
}

func TestSiteSummaryJSON(t *testing.T) {
	agg := aggregate.New(reducer.New(reducer.Config{}), &llmtest.Reducer{})
	results := agg.Aggregate(context.Background(), map[string]models.SourceOutcome{
		"devto": models.Failed(models.AcquisitionFailure, "timeout"),
	})

	out, err := json.Marshal(results)
	require.NoError(t, err)
	assert.JSONEq(t, `{"devto":{"error":"timeout","sources":[]}}`, string(out))
}

func TestAggregate_Empty(t *testing.T) {
	agg := aggregate.New(reducer.New(reducer.Config{}), &llmtest.Reducer{})
	assert.Empty(t, agg.Aggregate(context.Background(), nil))
}
