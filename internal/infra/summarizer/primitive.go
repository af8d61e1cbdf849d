// Package summarizer adapts language model backends to the pipeline Primitive.
// Every backend (local Ollama, Claude, OpenAI or the offline NoOp) is wrapped
// in the same call path: rate limiter, retry with backoff, circuit breaker,
// per-call timeout, structured logging and Prometheus metrics.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quickmind/internal/domain/entity"
	"quickmind/internal/observability/logging"
	"quickmind/internal/observability/tracing"
	"quickmind/internal/resilience/circuitbreaker"
	"quickmind/internal/resilience/retry"
	"quickmind/internal/utils/text"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// backend performs one raw completion without any reliability wrapping.
type backend interface {
	provider() Provider
	complete(ctx context.Context, system, input string) (string, error)
	// probe checks that the backend can serve calls, loading the model if needed.
	probe(ctx context.Context) error
}

// Primitive implements pipeline.Primitive on top of a backend.
// It is safe for concurrent use.
type Primitive struct {
	backend         backend
	config          Config
	limiter         *RateLimiter
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	metricsRecorder ModelMetricsRecorder
	logger          *slog.Logger
}

func newPrimitive(b backend, cfg Config, cb circuitbreaker.Config, rc retry.Config) (*Primitive, error) {
	cfg.Preset = cfg.Preset.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s configuration: %w", b.provider(), err)
	}
	return &Primitive{
		backend:         b,
		config:          cfg,
		limiter:         NewRateLimiter(cfg.RateLimit, cfg.Burst),
		circuitBreaker:  circuitbreaker.New(cb),
		retryConfig:     rc,
		metricsRecorder: NewPrometheusModelMetrics(),
		logger:          slog.Default(),
	}, nil
}

// Tripped reports whether the circuit breaker is rejecting calls.
func (p *Primitive) Tripped() bool {
	return p.circuitBreaker.IsOpen()
}

// Provider returns the backend name.
func (p *Primitive) Provider() Provider {
	return p.backend.provider()
}

// Preset returns the summary style in effect.
func (p *Primitive) Preset() Preset {
	return p.config.Preset
}

// Probe checks that the backend is reachable and its model is loaded.
func (p *Primitive) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()
	if err := p.backend.probe(ctx); err != nil {
		return fmt.Errorf("%s probe: %w", p.backend.provider(), err)
	}
	return nil
}

// Transform runs one task against the model.
// It uses circuit breaker and retry logic for improved reliability.
func (p *Primitive) Transform(ctx context.Context, task entity.Task) (string, error) {
	provider := p.backend.provider()
	ctx, span := tracing.GetTracer().Start(ctx, "model.transform", trace.WithAttributes(
		attribute.String("model.provider", string(provider)),
		attribute.String("task.kind", task.Kind.String()),
	))
	defer span.End()

	logger := logging.WithRequestID(ctx, p.logger).With(
		slog.String("call_id", uuid.New().String()),
		slog.String("provider", string(provider)),
		slog.String("kind", task.Kind.String()))

	input := task.Input
	inputLength := text.CountRunes(input)
	if inputLength > p.config.MaxInputRunes {
		input = text.Truncate(input, p.config.MaxInputRunes)
		p.metricsRecorder.RecordTruncated(provider)
		logger.Warn("input truncated for model call",
			slog.Int("original_length", inputLength),
			slog.Int("truncated_length", p.config.MaxInputRunes))
	}
	system := systemPrompt(task, p.config.Preset)

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	logger.Debug("model call started", slog.Int("input_length", text.CountRunes(input)))
	start := time.Now()

	var result string
	retryErr := retry.WithBackoff(ctx, p.retryConfig, func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		cbResult, err := p.circuitBreaker.Execute(func() (interface{}, error) {
			return p.backend.complete(ctx, system, input)
		})
		if err != nil {
			if circuitbreaker.IsRejection(err) {
				logger.Warn("model circuit breaker open, request rejected",
					slog.String("circuit", p.circuitBreaker.Name()),
					slog.String("state", p.circuitBreaker.State().String()))
				return fmt.Errorf("%s unavailable: circuit breaker open: %w", provider, err)
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	duration := time.Since(start)
	p.metricsRecorder.RecordCall(provider, retryErr == nil, duration)

	if retryErr != nil {
		span.RecordError(retryErr)
		span.SetStatus(codes.Error, "model call failed")
		logger.Warn("model call failed",
			slog.Duration("duration", duration),
			slog.Any("error", retryErr))
		return "", fmt.Errorf("%s transform: %w", provider, retryErr)
	}

	outputLength := text.CountRunes(result)
	p.metricsRecorder.RecordOutputLength(task.Kind.String(), outputLength)
	span.SetAttributes(attribute.Int("output.runes", outputLength))
	logger.Debug("model call completed",
		slog.Int("output_length", outputLength),
		slog.Duration("duration", duration))

	return result, nil
}
