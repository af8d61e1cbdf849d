package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"quickmind/internal/domain/entity"
	"quickmind/internal/observability/logging"
	"quickmind/internal/observability/tracing"
	"quickmind/internal/utils/text"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	kindSummarize = "summarize"
	kindTranslate = "translate"
)

// Option customizes a Summarizer or Translator.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	recorder MetricsRecorder
}

// WithLogger sets the logger used for pipeline events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsRecorder sets the metrics sink. Defaults to PrometheusRecorder.
func WithMetricsRecorder(r MetricsRecorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default(), recorder: PrometheusRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Summarizer condenses text of any length through recursive map-reduce.
type Summarizer struct {
	primitive Primitive
	cfg       Config
	logger    *slog.Logger
	recorder  MetricsRecorder
}

// NewSummarizer validates cfg and returns a Summarizer over p.
func NewSummarizer(p Primitive, cfg Config, opts ...Option) (*Summarizer, error) {
	if p == nil {
		return nil, errors.New("primitive is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Summarizer{primitive: p, cfg: cfg, logger: o.logger, recorder: o.recorder}, nil
}

// Config returns the configuration the Summarizer was built with.
func (s *Summarizer) Config() Config {
	return s.cfg
}

// request carries per-call bookkeeping through the recursion.
type request struct {
	stage   stage
	logger  *slog.Logger
	deepest int
}

// SummarizeLongText summarizes input, chunking and reducing as needed.
// It always returns a Result: StatusOK with the summary, StatusNoResult when a
// single direct call produced nothing, or StatusFailed with
// entity.SummaryFailedMessage when reduction could not converge.
func (s *Summarizer) SummarizeLongText(ctx context.Context, input string) entity.Result {
	start := time.Now()
	calls := new(atomic.Int64)
	req := &request{
		stage: stage{
			primitive:   s.primitive,
			parallelism: s.cfg.Parallelism,
			minRunes:    s.cfg.chunkFloor(),
			recorder:    s.recorder,
			calls:       calls,
		},
		logger: logging.WithRequestID(ctx, s.logger),
	}

	res := s.reduce(ctx, req, input, false, 1)
	res.Levels = req.deepest
	res.Calls = int(calls.Load())

	s.recorder.RecordRun(kindSummarize, Outcome{Status: res.Status.String(), Levels: res.Levels}, time.Since(start))
	req.logger.Info("summarization finished",
		slog.String("status", res.Status.String()),
		slog.Int("levels", res.Levels),
		slog.Int("calls", res.Calls),
		slog.Duration("duration", time.Since(start)))
	return res
}

func (s *Summarizer) reduce(ctx context.Context, req *request, input string, reductionPass bool, level int) entity.Result {
	length := text.CountRunes(input)
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.reduce", trace.WithAttributes(
		attribute.Int("reduction.level", level),
		attribute.Bool("reduction.pass", reductionPass),
		attribute.Int("input.runes", length),
	))
	defer span.End()

	logger := req.logger.With(slog.Int("level", level))

	if err := ctx.Err(); err != nil {
		logger.Warn("summarization cancelled", slog.Any("error", err))
		return entity.Failed(entity.SummaryFailedMessage)
	}
	if level > s.cfg.MaxDepth {
		logger.Warn("reduction did not converge",
			slog.Int("max_depth", s.cfg.MaxDepth),
			slog.Int("input_runes", length))
		return entity.Failed(entity.SummaryFailedMessage)
	}
	req.deepest = max(req.deepest, level)

	if length <= s.cfg.WindowSize && !reductionPass {
		return s.direct(ctx, req, logger, input)
	}

	chunks, err := Split(input, s.cfg.WindowSize, s.cfg.Overlap)
	if err != nil {
		logger.Error("chunking failed", slog.Any("error", err))
		return entity.Failed(entity.SummaryFailedMessage)
	}

	pass := PassInitial
	if reductionPass {
		pass = PassReduction
	}
	logger.Debug("map stage started", slog.String("pass", string(pass)), slog.Int("chunks", len(chunks)))

	results := req.stage.mapChunks(ctx, chunks, pass, pass.instruction())
	combined, usable := combine(results)
	combinedLen := text.CountRunes(combined)
	s.recorder.RecordCombinedLength(combinedLen)
	span.SetAttributes(
		attribute.Int("chunks.total", len(chunks)),
		attribute.Int("chunks.usable", usable),
		attribute.Int("combined.runes", combinedLen),
	)
	logger.Info("map stage finished",
		slog.String("pass", string(pass)),
		slog.Int("chunks", len(chunks)),
		slog.Int("usable", usable),
		slog.Int("combined_runes", combinedLen))

	if combinedLen < s.cfg.MinUsableLength {
		logger.Warn("combined text too short", slog.Int("combined_runes", combinedLen))
		return entity.Failed(entity.SummaryFailedMessage)
	}
	if combinedLen > s.cfg.WindowSize {
		return s.reduce(ctx, req, combined, true, level+1)
	}
	if err := ctx.Err(); err != nil {
		logger.Warn("summarization cancelled before final call", slog.Any("error", err))
		return entity.Failed(entity.SummaryFailedMessage)
	}

	req.stage.calls.Add(1)
	out, err := s.primitive.Transform(ctx, entity.Task{Instruction: FinalInstruction, Input: combined})
	if err != nil || strings.TrimSpace(out) == "" {
		logger.Warn("final summary call failed", slog.Any("error", err))
		return entity.Failed(entity.SummaryFailedMessage)
	}
	return entity.OK(out)
}

// direct sends input that already fits into one window unchanged.
func (s *Summarizer) direct(ctx context.Context, req *request, logger *slog.Logger, input string) entity.Result {
	req.stage.calls.Add(1)
	out, err := s.primitive.Transform(ctx, entity.Task{Instruction: SummarizeInstruction, Input: input})
	if err != nil {
		logger.Warn("direct summary call failed", slog.Any("error", err))
		return entity.NoResult()
	}
	if strings.TrimSpace(out) == "" {
		logger.Warn("direct summary call returned nothing")
		return entity.NoResult()
	}
	return entity.OK(out)
}
