package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
const maxURLLength = 2048

// ValidateWindow checks chunk window parameters.
// The step size window-overlap must be positive or chunking would never advance.
func ValidateWindow(window, overlap int) error {
	if window <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidWindow, window)
	}
	if overlap < 0 {
		return fmt.Errorf("%w: overlap cannot be negative, got %d", ErrInvalidWindow, overlap)
	}
	if overlap >= window {
		return fmt.Errorf("%w: overlap %d must be smaller than window %d", ErrInvalidWindow, overlap, window)
	}
	return nil
}

// ValidateText rejects input with nothing but whitespace.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}
	return nil
}

// ValidateURL validates the format of a page URL.
// It checks that the URL is well-formed, uses HTTP/HTTPS scheme, and has a valid host.
// Private network checks happen in the fetcher after DNS resolution.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}

	// DoS protection: enforce maximum URL length
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "url is invalid"}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}

	return nil
}
