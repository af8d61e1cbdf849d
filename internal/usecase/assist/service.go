package assist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quickmind/internal/domain/entity"
	"quickmind/internal/observability/logging"
	"quickmind/internal/observability/metrics"
	"quickmind/internal/repository"
	"quickmind/internal/usecase/pipeline"
)

const (
	modeSummarize = "summarize"
	modeTranslate = "translate"
)

// ModelHandle hands out the shared model primitive.
type ModelHandle interface {
	Acquire(ctx context.Context) (pipeline.Primitive, error)
	Available() bool
	Warm()
}

// PageSource extracts text from a web page.
type PageSource interface {
	FetchText(ctx context.Context, url, selector string) (string, error)
}

// Detector detects languages and validates translation targets.
type Detector interface {
	pipeline.LanguageDetector
	ValidateTarget(code string) error
}

// Request is the input of Summarize and Translate.
// Text wins over URL; Selector narrows the page to the matching nodes.
type Request struct {
	Text     string
	URL      string
	Selector string
	// Target is the ISO 639-1 code to translate into. Ignored by Summarize.
	Target string
}

// Response carries the pipeline result.
type Response struct {
	Result entity.Result
	Cached bool
}

// StatusInfo describes model readiness.
type StatusInfo struct {
	Ready    bool
	Provider string
	Message  string
}

// Config holds the service settings.
type Config struct {
	Pipeline pipeline.Config
	// Fingerprint identifies the model and summary options; it is part of every cache key.
	Fingerprint string
	// Provider is reported by Status.
	Provider string
	// CacheTTL is how long a cached result stays valid.
	CacheTTL time.Duration
}

// Service implements the user operations.
type Service struct {
	handle   ModelHandle
	detector Detector
	pages    PageSource
	cache    repository.ResultCacheRepository
	cfg      Config
	logger   *slog.Logger
	opts     []pipeline.Option
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithCache enables the result cache.
func WithCache(repo repository.ResultCacheRepository) Option {
	return func(s *Service) { s.cache = repo }
}

// WithPageSource enables requests by URL.
func WithPageSource(p PageSource) Option {
	return func(s *Service) { s.pages = p }
}

// WithLogger sets the service logger, which is also handed to the pipelines.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithPipelineOptions passes options to every Summarizer and Translator.
func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(s *Service) { s.opts = append(s.opts, opts...) }
}

// NewService validates cfg and builds a Service.
func NewService(handle ModelHandle, detector Detector, cfg Config, opts ...Option) (*Service, error) {
	if handle == nil {
		return nil, fmt.Errorf("model handle is required")
	}
	if detector == nil {
		return nil, fmt.Errorf("language detector is required")
	}
	if err := cfg.Pipeline.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	s := &Service{
		handle:   handle,
		detector: detector,
		cfg:      cfg,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.opts = append([]pipeline.Option{pipeline.WithLogger(s.logger)}, s.opts...)
	return s, nil
}

// Summarize condenses the requested text.
// It returns entity.ErrEmptyInput for blank text and an error wrapping
// entity.ErrModelUnavailable when the model cannot be acquired.
func (s *Service) Summarize(ctx context.Context, req Request) (*Response, error) {
	text, err := s.resolveText(ctx, req)
	if err != nil {
		return nil, err
	}

	key := CacheKey(modeSummarize, s.cfg.Fingerprint, "", text)
	if resp := s.lookup(ctx, key); resp != nil {
		return resp, nil
	}

	p, err := s.handle.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	summarizer, err := pipeline.NewSummarizer(p, s.cfg.Pipeline, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("create summarizer: %w", err)
	}

	res := summarizer.SummarizeLongText(ctx, text)
	s.store(ctx, key, modeSummarize, res)
	return &Response{Result: res}, nil
}

// Translate renders the requested text in req.Target.
func (s *Service) Translate(ctx context.Context, req Request) (*Response, error) {
	target := strings.ToLower(strings.TrimSpace(req.Target))
	if err := s.detector.ValidateTarget(target); err != nil {
		return nil, err
	}

	text, err := s.resolveText(ctx, req)
	if err != nil {
		return nil, err
	}

	key := CacheKey(modeTranslate, s.cfg.Fingerprint, target, text)
	if resp := s.lookup(ctx, key); resp != nil {
		return resp, nil
	}

	p, err := s.handle.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	translator, err := pipeline.NewTranslator(p, s.detector, s.cfg.Pipeline, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("create translator: %w", err)
	}

	res := translator.Translate(ctx, text, target)
	s.store(ctx, key, modeTranslate+":"+target, res)
	return &Response{Result: res}, nil
}

// Status reports whether the model is ready. When it is not, creation is
// started in the background and Status returns without waiting.
func (s *Service) Status() StatusInfo {
	if s.handle.Available() {
		return StatusInfo{Ready: true, Provider: s.cfg.Provider}
	}
	s.handle.Warm()
	return StatusInfo{Provider: s.cfg.Provider, Message: ModelNotReadyMessage}
}

func (s *Service) resolveText(ctx context.Context, req Request) (string, error) {
	text := req.Text
	if strings.TrimSpace(text) == "" && req.URL != "" && s.pages != nil {
		fetched, err := s.pages.FetchText(ctx, req.URL, req.Selector)
		if err != nil {
			return "", fmt.Errorf("fetch page: %w", err)
		}
		text = fetched
	}
	if err := entity.ValidateText(text); err != nil {
		return "", err
	}
	return text, nil
}

func (s *Service) lookup(ctx context.Context, key string) *Response {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, key, s.now())
	switch {
	case err != nil:
		metrics.RecordCacheLookup("error")
		logging.WithRequestID(ctx, s.logger).Warn("result cache lookup failed", slog.Any("error", err))
		return nil
	case cached == nil:
		metrics.RecordCacheLookup("miss")
		return nil
	default:
		metrics.RecordCacheLookup("hit")
		return &Response{Result: cached.Result(), Cached: true}
	}
}

// store caches successful results only. Failures are logged, never returned.
func (s *Service) store(ctx context.Context, key, mode string, res entity.Result) {
	if s.cache == nil || res.Status != entity.StatusOK {
		return
	}
	now := s.now()
	err := s.cache.Put(ctx, &entity.CachedResult{
		Key:       key,
		Mode:      mode,
		Output:    res.Output,
		Levels:    res.Levels,
		Calls:     res.Calls,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.CacheTTL),
	})
	if err != nil {
		logging.WithRequestID(ctx, s.logger).Warn("result cache store failed", slog.Any("error", err))
	}
}
