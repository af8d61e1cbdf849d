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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LanguageDetector identifies the language of a text by ISO 639-1 code.
type LanguageDetector interface {
	// Detect returns the lowercase ISO 639-1 code, or false when unsure.
	Detect(text string) (string, bool)
	// DisplayName returns the English name of a language code.
	DisplayName(code string) string
}

// Translator translates text of any length window by window.
type Translator struct {
	primitive Primitive
	detector  LanguageDetector
	cfg       Config
	logger    *slog.Logger
	recorder  MetricsRecorder
}

// NewTranslator validates cfg and returns a Translator over p.
func NewTranslator(p Primitive, detector LanguageDetector, cfg Config, opts ...Option) (*Translator, error) {
	if p == nil {
		return nil, errors.New("primitive is required")
	}
	if detector == nil {
		return nil, errors.New("language detector is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Translator{primitive: p, detector: detector, cfg: cfg, logger: o.logger, recorder: o.recorder}, nil
}

// Translate renders input in the target language (ISO 639-1 code).
// Input already in the target language comes back unchanged without a model
// call. If any window fails the result is StatusFailed with
// entity.TranslationFailedMessage; partial translations are never returned.
func (t *Translator) Translate(ctx context.Context, input, target string) entity.Result {
	start := time.Now()
	target = strings.ToLower(strings.TrimSpace(target))
	logger := logging.WithRequestID(ctx, t.logger).With(slog.String("target", target))

	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.translate", trace.WithAttributes(
		attribute.String("language.target", target),
	))
	defer span.End()

	res := t.translate(ctx, logger, span, input, target)
	t.recorder.RecordRun(kindTranslate, Outcome{Status: res.Status.String(), Levels: res.Levels}, time.Since(start))
	logger.Info("translation finished",
		slog.String("status", res.Status.String()),
		slog.Int("calls", res.Calls),
		slog.Duration("duration", time.Since(start)))
	return res
}

func (t *Translator) translate(ctx context.Context, logger *slog.Logger, span trace.Span, input, target string) entity.Result {
	if strings.TrimSpace(input) == "" {
		return entity.NoResult()
	}

	source, detected := t.detector.Detect(input)
	span.SetAttributes(attribute.String("language.source", source))
	if detected && source == target {
		logger.Debug("input already in target language")
		res := entity.OK(input)
		res.Levels = 1
		return res
	}

	if err := ctx.Err(); err != nil {
		logger.Warn("translation cancelled", slog.Any("error", err))
		return entity.Failed(entity.TranslationFailedMessage)
	}

	chunks, err := SplitAtBoundaries(input, t.cfg.WindowSize)
	if err != nil {
		logger.Error("chunking failed", slog.Any("error", err))
		return entity.Failed(entity.TranslationFailedMessage)
	}

	sourceName := ""
	if detected {
		sourceName = t.detector.DisplayName(source)
	}
	instruction := TranslateInstruction(sourceName, t.detector.DisplayName(target))

	calls := new(atomic.Int64)
	st := stage{
		primitive:   t.primitive,
		parallelism: t.cfg.Parallelism,
		recorder:    t.recorder,
		calls:       calls,
		kind:        entity.TaskTranslate,
	}
	results := st.mapChunks(ctx, chunks, PassTranslate, instruction)

	var b strings.Builder
	for _, r := range results {
		if !r.OK {
			logger.Warn("translation window failed",
				slog.Int("window", r.Index),
				slog.Int("windows", len(results)),
				slog.Any("error", r.Err))
			res := entity.Failed(entity.TranslationFailedMessage)
			res.Levels, res.Calls = 1, int(calls.Load())
			return res
		}
		b.WriteString(rejoin(chunks[r.Index].Text, r.Output))
	}

	res := entity.OK(b.String())
	res.Levels, res.Calls = 1, int(calls.Load())
	return res
}

// rejoin wraps a translated window in the whitespace that surrounded its source.
func rejoin(source, translated string) string {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return source
	}
	lead := source[:strings.Index(source, trimmed)]
	trail := source[len(lead)+len(trimmed):]
	return lead + strings.TrimSpace(translated) + trail
}
