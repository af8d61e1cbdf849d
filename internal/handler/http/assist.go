package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"quickmind/internal/domain/entity"
	"quickmind/internal/handler/http/respond"
	"quickmind/internal/infra/fetcher"
	"quickmind/internal/resilience/circuitbreaker"
	"quickmind/internal/usecase/assist"
)

// Assistant is the use case behind the /v1 endpoints.
type Assistant interface {
	Summarize(ctx context.Context, req assist.Request) (*assist.Response, error)
	Translate(ctx context.Context, req assist.Request) (*assist.Response, error)
	Status() assist.StatusInfo
}

// SummarizeRequest is the body of POST /v1/summarize.
// Text wins over URL when both are set.
type SummarizeRequest struct {
	Text     string `json:"text"`
	URL      string `json:"url,omitempty"`
	Selector string `json:"selector,omitempty"`
}

// TranslateRequest is the body of POST /v1/translate.
type TranslateRequest struct {
	SummarizeRequest
	Target string `json:"target"`
}

// ResultResponse carries a pipeline result. Output is null when nothing was produced.
type ResultResponse struct {
	Output *string       `json:"output"`
	Status entity.Status `json:"status" swaggertype:"string" enums:"no_result,ok,failed"`
	Levels int           `json:"levels"`
	Calls  int           `json:"calls"`
	Cached bool          `json:"cached"`
}

// StatusResponse is the body of GET /v1/status.
type StatusResponse struct {
	Ready    bool   `json:"ready"`
	Provider string `json:"provider"`
	Message  string `json:"message,omitempty"`
}

// AssistHandler serves the summarize, translate and status endpoints.
type AssistHandler struct {
	svc     Assistant
	timeout time.Duration
}

// NewAssistHandler creates the handler. timeout bounds one request; zero means none.
func NewAssistHandler(svc Assistant, timeout time.Duration) *AssistHandler {
	return &AssistHandler{svc: svc, timeout: timeout}
}

// Register mounts the endpoints on mux.
func (h *AssistHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/summarize", h.Summarize)
	mux.HandleFunc("POST /v1/translate", h.Translate)
	mux.HandleFunc("GET /v1/status", h.Status)
}

// Summarize handles POST /v1/summarize.
// @Summary      Summarize text
// @Description  Condenses text of any length with map-reduce summarization. The text comes from the body or from a page URL with an optional CSS selector.
// @Tags         assist
// @Accept       json
// @Produce      json
// @Param        request body SummarizeRequest true "Text or page to summarize"
// @Success      200 {object} ResultResponse
// @Failure      400 {object} respond.ErrorBody "Empty input or invalid URL"
// @Failure      413 {object} respond.ErrorBody "Request body too large"
// @Failure      422 {object} respond.ErrorBody "Page could not be read"
// @Failure      503 {object} respond.ErrorBody "Model not ready"
// @Failure      504 {object} respond.ErrorBody "Request timed out"
// @Router       /v1/summarize [post]
func (h *AssistHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var body SummarizeRequest
	if err := decode(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	resp, err := h.svc.Summarize(ctx, assist.Request{Text: body.Text, URL: body.URL, Selector: body.Selector})
	if err != nil {
		respond.Error(w, r, mapError(err))
		return
	}
	respond.JSON(w, http.StatusOK, toResultResponse(resp))
}

// Translate handles POST /v1/translate.
// @Summary      Translate text
// @Description  Translates text of any length window by window into the target language (ISO 639-1 code).
// @Tags         assist
// @Accept       json
// @Produce      json
// @Param        request body TranslateRequest true "Text or page to translate and the target language"
// @Success      200 {object} ResultResponse
// @Failure      400 {object} respond.ErrorBody "Empty input, invalid URL or unsupported target language"
// @Failure      413 {object} respond.ErrorBody "Request body too large"
// @Failure      422 {object} respond.ErrorBody "Page could not be read"
// @Failure      503 {object} respond.ErrorBody "Model not ready"
// @Failure      504 {object} respond.ErrorBody "Request timed out"
// @Router       /v1/translate [post]
func (h *AssistHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var body TranslateRequest
	if err := decode(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	resp, err := h.svc.Translate(ctx, assist.Request{
		Text:     body.Text,
		URL:      body.URL,
		Selector: body.Selector,
		Target:   body.Target,
	})
	if err != nil {
		respond.Error(w, r, mapError(err))
		return
	}
	respond.JSON(w, http.StatusOK, toResultResponse(resp))
}

// Status handles GET /v1/status. A cold model starts loading.
// @Summary      Model status
// @Description  Reports whether the language model is ready.
// @Tags         assist
// @Produce      json
// @Success      200 {object} StatusResponse
// @Router       /v1/status [get]
func (h *AssistHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Status()
	respond.JSON(w, http.StatusOK, StatusResponse{Ready: st.Ready, Provider: st.Provider, Message: st.Message})
}

func (h *AssistHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

func toResultResponse(resp *assist.Response) ResultResponse {
	return ResultResponse{
		Output: resp.Result.OutputPtr(),
		Status: resp.Result.Status,
		Levels: resp.Result.Levels,
		Calls:  resp.Result.Calls,
		Cached: resp.Cached,
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return respond.NewAppError(http.StatusRequestEntityTooLarge, "request body too large", err)
		}
		return respond.NewAppError(http.StatusBadRequest, "invalid request body", err)
	}
	return nil
}

// mapError converts use case errors into HTTP errors with user-facing messages.
func mapError(err error) error {
	if msg := assist.UserMessage(err); msg != "" {
		code := http.StatusBadRequest
		if errors.Is(err, entity.ErrModelUnavailable) {
			code = http.StatusServiceUnavailable
		}
		return respond.NewAppError(code, msg, err)
	}

	var vErr *entity.ValidationError
	switch {
	case errors.As(err, &vErr):
		return respond.NewAppError(http.StatusBadRequest, vErr.Error(), err)
	case errors.Is(err, entity.ErrUnsupportedLanguage):
		return respond.NewAppError(http.StatusBadRequest, "unsupported target language", err)
	case errors.Is(err, fetcher.ErrInvalidURL), errors.Is(err, fetcher.ErrPrivateIP):
		return respond.NewAppError(http.StatusBadRequest, "invalid url", err)
	case errors.Is(err, fetcher.ErrTooManyRedirects),
		errors.Is(err, fetcher.ErrBodyTooLarge),
		errors.Is(err, fetcher.ErrReadabilityFailed):
		return respond.NewAppError(http.StatusUnprocessableEntity, "could not read the page", err)
	case errors.Is(err, fetcher.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return respond.NewAppError(http.StatusGatewayTimeout, "request timed out", err)
	case circuitbreaker.IsRejection(err):
		return respond.NewAppError(http.StatusServiceUnavailable, "page fetching is temporarily unavailable", err)
	default:
		return err
	}
}
