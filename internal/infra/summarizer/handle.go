package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"quickmind/internal/domain/entity"
	"quickmind/internal/observability/metrics"
	"quickmind/internal/usecase/pipeline"

	"golang.org/x/sync/singleflight"
)

// Factory creates a ready-to-use Primitive. It may be slow (model download or load).
type Factory func(ctx context.Context) (pipeline.Primitive, error)

const (
	handleKey            = "primitive"
	defaultCreateTimeout = 5 * time.Minute
)

// Handle owns the process-wide model primitive.
// Concurrent Acquire calls share one in-flight creation; a failed creation is
// not cached, so the next Acquire tries again.
type Handle struct {
	factory       Factory
	createTimeout time.Duration
	logger        *slog.Logger

	group     singleflight.Group
	mu        sync.RWMutex
	primitive pipeline.Primitive
}

// NewHandle returns a Handle that creates its primitive with factory.
func NewHandle(factory Factory) *Handle {
	return &Handle{
		factory:       factory,
		createTimeout: defaultCreateTimeout,
		logger:        slog.Default(),
	}
}

// tripper is implemented by primitives that can report an open circuit breaker.
type tripper interface {
	Tripped() bool
}

// current returns the cached primitive. A primitive whose breaker has opened
// is dropped, so the next Acquire rebuilds and re-probes the model.
func (h *Handle) current() pipeline.Primitive {
	h.mu.RLock()
	p := h.primitive
	h.mu.RUnlock()

	if t, ok := p.(tripper); ok && t.Tripped() {
		h.logger.Warn("model circuit breaker open, dropping model handle")
		h.Reset()
		return nil
	}
	return p
}

// Available reports whether the primitive has been created.
func (h *Handle) Available() bool {
	return h.current() != nil
}

// Acquire returns the cached primitive, creating it on first use.
// Waiters block on the shared creation until it finishes or ctx is done.
// Errors wrap entity.ErrModelUnavailable.
func (h *Handle) Acquire(ctx context.Context) (pipeline.Primitive, error) {
	if p := h.current(); p != nil {
		return p, nil
	}

	ch := h.group.DoChan(handleKey, func() (interface{}, error) {
		if p := h.current(); p != nil {
			return p, nil
		}

		// Detached from the first caller: its cancellation must not fail the other waiters.
		createCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.createTimeout)
		defer cancel()

		start := time.Now()
		p, err := h.factory(createCtx)
		if err != nil {
			h.logger.Warn("model initialization failed",
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err))
			return nil, err
		}

		h.mu.Lock()
		h.primitive = p
		h.mu.Unlock()
		metrics.SetModelHandleReady(true)
		h.logger.Info("model initialized", slog.Duration("duration", time.Since(start)))
		return p, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %w", entity.ErrModelUnavailable, res.Err)
		}
		return res.Val.(pipeline.Primitive), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", entity.ErrModelUnavailable, ctx.Err())
	}
}

// Warm starts creation in the background and returns immediately.
func (h *Handle) Warm() {
	if h.Available() {
		return
	}
	go func() {
		if _, err := h.Acquire(context.Background()); err != nil {
			h.logger.Debug("background model warm-up failed", slog.Any("error", err))
		}
	}()
}

// Reset drops the cached primitive. The next Acquire creates a new one.
func (h *Handle) Reset() {
	h.mu.Lock()
	h.primitive = nil
	h.mu.Unlock()
	metrics.SetModelHandleReady(false)
}
