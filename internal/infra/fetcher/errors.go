package fetcher

import "errors"

// Sentinel errors for page fetching.
var (
	// ErrInvalidURL indicates the URL format is invalid or uses an unsupported scheme.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a private, loopback or link-local address.
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrReadabilityFailed indicates no readable article text could be extracted.
	ErrReadabilityFailed = errors.New("content extraction failed")

	// ErrEmptySelection indicates the selector matched no text.
	// Its message is shown to users as is.
	ErrEmptySelection = errors.New("Please highlight some text before running QuickMind.") //nolint:staticcheck // user-facing sentence
)
