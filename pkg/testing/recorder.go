package testing

import "sync"

// ResultRecorder records every value delivered to the callback it hands out.
// It is safe for concurrent use.
type ResultRecorder struct {
	mu      sync.Mutex
	results []any
}

// NewResultRecorder returns an empty recorder.
func NewResultRecorder() *ResultRecorder {
	return &ResultRecorder{}
}

// Callback returns a function suitable as a result callback.
func (r *ResultRecorder) Callback() func(any) {
	return func(result any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.results = append(r.results, result)
	}
}

// Calls returns how many times the callback ran.
func (r *ResultRecorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

// Results returns a copy of the delivered values in order.
func (r *ResultRecorder) Results() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.results))
	copy(out, r.results)
	return out
}

// Last returns the most recent delivery and whether there was one.
func (r *ResultRecorder) Last() (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.results) == 0 {
		return nil, false
	}
	return r.results[len(r.results)-1], true
}
