// Package llmtest provides a scriptable TextReducer for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
)

// Reducer records every call. With a nil Fn it returns "sum:" followed by
// the first word of the text.
type Reducer struct {
	Fn func(ctx context.Context, text string, maxLen, minLen int) (string, error)

	calls atomic.Int64
	mu    sync.Mutex
	texts []string
}

func (r *Reducer) Reduce(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	r.calls.Add(1)
	r.mu.Lock()
	r.texts = append(r.texts, text)
	r.mu.Unlock()

	if r.Fn != nil {
		return r.Fn(ctx, text, maxLen, minLen)
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "sum:", nil
	}
	return "sum:" + fields[0], nil
}

// Calls returns the number of Reduce invocations.
func (r *Reducer) Calls() int {
	return int(r.calls.Load())
}

// Texts returns the texts passed to Reduce in call order.
func (r *Reducer) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}
