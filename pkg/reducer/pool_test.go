package reducer_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/skim/internal/models"
	"github.com/xhad/skim/pkg/llm/llmtest"
	"github.com/xhad/skim/pkg/processor"
	"github.com/xhad/skim/pkg/reducer"
)

const sentence = "the quick brown fox jumps over the lazy dog"

func words(word string, n int) string {
	return strings.Repeat(word+" ", n)
}

func TestReduce_PreservesOrderUnderLatency(t *testing.T) {
	const n = 8
	chunks := make([]models.Chunk, n)
	for i := range chunks {
		chunks[i] = models.Chunk{Index: i, Text: strings.Repeat("x", i+1) + " " + sentence}
	}

	// Earlier chunks finish last.
	fake := &llmtest.Reducer{Fn: func(ctx context.Context, text string, maxLen, minLen int) (string, error) {
		first := strings.Fields(text)[0]
		time.Sleep(time.Duration(n-len(first)) * 5 * time.Millisecond)
		return first, nil
	}}

	pool := reducer.New(reducer.Config{MaxWorkers: n})
	results := pool.Reduce(context.Background(), chunks, fake, pool.Params())

	require.Len(t, results, n)
	for i, res := range results {
		assert.Equal(t, i, res.Index)
		assert.Equal(t, strings.Repeat("x", i+1), res.Summary)
	}
	assert.Equal(t, n, fake.Calls())
}

func TestReduce_RestoresIndexOrderOfShuffledInput(t *testing.T) {
	chunks := []models.Chunk{
		{Index: 2, Text: "charlie " + sentence},
		{Index: 0, Text: "alpha " + sentence},
		{Index: 1, Text: "bravo " + sentence},
	}

	pool := reducer.New(reducer.Config{MaxWorkers: 2})
	results := pool.Reduce(context.Background(), chunks, &llmtest.Reducer{}, pool.Params())

	assert.Equal(t, "sum:alpha sum:bravo sum:charlie", reducer.Join(results))
}

func TestReduce_ChunkFailureIsLocal(t *testing.T) {
	chunks := []models.Chunk{
		{Index: 0, Text: "good " + sentence},
		{Index: 1, Text: "bad " + sentence},
		{Index: 2, Text: "fine " + sentence},
	}
	fake := &llmtest.Reducer{Fn: func(ctx context.Context, text string, maxLen, minLen int) (string, error) {
		if strings.HasPrefix(text, "bad") {
			return "", errors.New("model overloaded")
		}
		return strings.Fields(text)[0], nil
	}}

	pool := reducer.New(reducer.Config{})
	results := pool.Reduce(context.Background(), chunks, fake, pool.Params())

	require.Len(t, results, 3)
	assert.Equal(t, "good", results[0].Summary)
	assert.Equal(t, "Error: model overloaded", results[1].Summary)
	assert.Equal(t, "fine", results[2].Summary)
}

func TestReduce_ReducerPanicIsLocal(t *testing.T) {
	chunks := []models.Chunk{
		{Index: 0, Text: "panic " + sentence},
		{Index: 1, Text: "calm " + sentence},
	}
	fake := &llmtest.Reducer{Fn: func(ctx context.Context, text string, maxLen, minLen int) (string, error) {
		if strings.HasPrefix(text, "panic") {
			panic("tensor shape mismatch")
		}
		return "ok", nil
	}}

	pool := reducer.New(reducer.Config{})
	results := pool.Reduce(context.Background(), chunks, fake, pool.Params())

	assert.Equal(t, "Error: reducer panic: tensor shape mismatch", results[0].Summary)
	assert.Equal(t, "ok", results[1].Summary)
}

func TestReduce_DegenerateChunksSkipReducer(t *testing.T) {
	chunks := []models.Chunk{
		{Index: 0, Text: "   \n\t"},
		{Index: 1, Text: "only four short words"},
		{Index: 2, Text: sentence},
	}
	fake := &llmtest.Reducer{}

	pool := reducer.New(reducer.Config{})
	results := pool.Reduce(context.Background(), chunks, fake, pool.Params())

	assert.Equal(t, models.NoValidContent, results[0].Summary)
	assert.Equal(t, models.TooShortToSummarize, results[1].Summary)
	assert.Equal(t, "sum:the", results[2].Summary)
	assert.Equal(t, 1, fake.Calls())
	assert.Equal(t, []string{sentence}, fake.Texts())
}

func TestReduce_PassesParams(t *testing.T) {
	var gotMax, gotMin int
	fake := &llmtest.Reducer{Fn: func(ctx context.Context, text string, maxLen, minLen int) (string, error) {
		gotMax, gotMin = maxLen, minLen
		return "ok", nil
	}}

	pool := reducer.New(reducer.Config{})
	pool.Reduce(context.Background(), []models.Chunk{{Text: sentence}}, fake, reducer.Params{MaxLen: 60, MinLen: 10})

	assert.Equal(t, 60, gotMax)
	assert.Equal(t, 10, gotMin)
	assert.Equal(t, reducer.Params{MaxLen: reducer.DefaultMaxLen, MinLen: reducer.DefaultMinLen}, pool.Params())
}

func TestReduce_BoundsParallelism(t *testing.T) {
	tests := []struct {
		name       string
		maxWorkers int
		chunks     int
		wantMax    int32
	}{
		{"capped by workers", 2, 6, 2},
		{"capped by chunks", 10, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inFlight, peak atomic.Int32
			fake := &llmtest.Reducer{Fn: func(ctx context.Context, text string, maxLen, minLen int) (string, error) {
				cur := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					old := peak.Load()
					if cur <= old || peak.CompareAndSwap(old, cur) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			}}

			chunks := make([]models.Chunk, tt.chunks)
			for i := range chunks {
				chunks[i] = models.Chunk{Index: i, Text: sentence}
			}

			pool := reducer.New(reducer.Config{MaxWorkers: tt.maxWorkers})
			results := pool.Reduce(context.Background(), chunks, fake, pool.Params())

			assert.Len(t, results, tt.chunks)
			assert.LessOrEqual(t, peak.Load(), tt.wantMax)
			assert.Equal(t, tt.chunks, fake.Calls())
		})
	}
}

func TestReduce_TimeoutFallsBackToErrorText(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	fake := &llmtest.Reducer{Fn: func(ctx context.Context, text string, maxLen, minLen int) (string, error) {
		<-block
		return "too late", nil
	}}

	pool := reducer.New(reducer.Config{Timeout: 20 * time.Millisecond})

	start := time.Now()
	results := pool.Reduce(context.Background(), []models.Chunk{{Text: sentence}}, fake, pool.Params())

	assert.Less(t, time.Since(start), time.Second)
	require.Len(t, results, 1)
	assert.Equal(t, "Error: "+context.DeadlineExceeded.Error(), results[0].Summary)
}

func TestReduce_BoundsParallelismAfterTimeout(t *testing.T) {
	var inFlight, peak atomic.Int32
	fake := &llmtest.Reducer{Fn: func(ctx context.Context, text string, maxLen, minLen int) (string, error) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(100 * time.Millisecond)
		return "late", nil
	}}

	chunks := make([]models.Chunk, 200)
	for i := range chunks {
		chunks[i] = models.Chunk{Index: i, Text: sentence}
	}

	pool := reducer.New(reducer.Config{MaxWorkers: 2, Timeout: 20 * time.Millisecond})
	results := pool.Reduce(context.Background(), chunks, fake, pool.Params())

	require.Len(t, results, 200)
	for _, res := range results {
		assert.Equal(t, "Error: "+context.DeadlineExceeded.Error(), res.Summary)
	}

	// Let calls abandoned at the deadline finish before reading the peak.
	assert.Eventually(t, func() bool { return inFlight.Load() == 0 }, time.Second, 10*time.Millisecond)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.LessOrEqual(t, fake.Calls(), 2)
}

func TestReduce_Empty(t *testing.T) {
	pool := reducer.New(reducer.Config{})
	assert.Empty(t, pool.Reduce(context.Background(), nil, &llmtest.Reducer{}, pool.Params()))
}

func TestSummarize_BlankTextNeverReachesReducer(t *testing.T) {
	fake := &llmtest.Reducer{}
	pool := reducer.New(reducer.Config{})

	assert.Equal(t, models.NoValidContentProvided, pool.Summarize(context.Background(), "", fake))
	assert.Equal(t, models.NoValidContentProvided, pool.Summarize(context.Background(), " \n ", fake))
	assert.Equal(t, 0, fake.Calls())
}

func TestSummarize_NineThousandCharacters(t *testing.T) {
	// Six-character tokens so every chunk boundary falls between words.
	text := words("alpha", 500) + words("bravo", 500) + words("delta", 500)
	require.Len(t, text, 9000)

	fake := &llmtest.Reducer{}
	pool := reducer.New(reducer.Config{ChunkSize: 3000})

	chunks := processor.Chunk(text, 3000)
	require.Len(t, chunks, 3)

	results := pool.Reduce(context.Background(), chunks, fake, pool.Params())
	require.Len(t, results, 3)

	summary := pool.Summarize(context.Background(), text, fake)
	assert.Equal(t, "sum:alpha sum:bravo sum:delta", summary)
	assert.Equal(t, reducer.Join(results), summary)
	assert.Equal(t, 6, fake.Calls())
}
