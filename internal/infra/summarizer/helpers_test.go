package summarizer

import (
	"context"
	"sync"
	"time"

	"quickmind/internal/resilience/circuitbreaker"
	"quickmind/internal/resilience/retry"
)

type fakeMetrics struct {
	mu        sync.Mutex
	calls     []bool
	lengths   []int
	truncated int
}

func (f *fakeMetrics) RecordCall(_ Provider, success bool, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, success)
}

func (f *fakeMetrics) RecordOutputLength(_ string, length int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lengths = append(f.lengths, length)
}

func (f *fakeMetrics) RecordTruncated(Provider) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.truncated++
}

// scriptedBackend answers from a list of results, repeating the last one.
type scriptedBackend struct {
	mu      sync.Mutex
	results []scripted
	systems []string
	inputs  []string
}

type scripted struct {
	out string
	err error
}

func (s *scriptedBackend) provider() Provider { return "scripted" }

func (s *scriptedBackend) probe(context.Context) error { return nil }

func (s *scriptedBackend) complete(_ context.Context, system, input string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systems = append(s.systems, system)
	s.inputs = append(s.inputs, input)
	r := s.results[min(len(s.inputs)-1, len(s.results)-1)]
	return r.out, r.err
}

func (s *scriptedBackend) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inputs)
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.RateLimit = 1000
	cfg.Burst = 100
	cfg.Timeout = 5 * time.Second
	return cfg
}

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func newScriptedPrimitive(b backend, cfg Config, fm *fakeMetrics) *Primitive {
	p, err := newPrimitive(b, cfg, circuitbreaker.Config{
		Name:             "test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 1.0,
		MinRequests:      5,
	}, fastRetry())
	if err != nil {
		panic(err)
	}
	p.metricsRecorder = fm
	return p
}
