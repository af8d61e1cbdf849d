package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Loaded is the outcome of reading one environment variable.
// When the raw value fails to parse or validate, Value holds the default,
// FallbackApplied is set and Warning explains why.
type Loaded[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// LoadEnv reads envKey, parses it and validates the result. It never fails:
// an unset variable yields the default silently, a bad one yields the default
// with a warning. validate may be nil.
func LoadEnv[T any](envKey string, defaultValue T, parse func(string) (T, error), validate func(T) error) Loaded[T] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Loaded[T]{Value: defaultValue}
	}

	fallback := func(err error) Loaded[T] {
		return Loaded[T]{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}

	value, err := parse(raw)
	if err != nil {
		return fallback(err)
	}
	if validate != nil {
		if err := validate(value); err != nil {
			return fallback(err)
		}
	}
	return Loaded[T]{Value: value}
}

// LoadEnvString loads a string, validated when validate is non-nil.
func LoadEnvString(envKey, defaultValue string, validate func(string) error) Loaded[string] {
	return LoadEnv(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validate)
}

// LoadEnvInt loads a base-10 integer.
func LoadEnvInt(envKey string, defaultValue int, validate func(int) error) Loaded[int] {
	return LoadEnv(envKey, defaultValue, strconv.Atoi, validate)
}

// LoadEnvDuration loads a duration such as "30s" or "1h".
func LoadEnvDuration(envKey string, defaultValue time.Duration, validate func(time.Duration) error) Loaded[time.Duration] {
	return LoadEnv(envKey, defaultValue, time.ParseDuration, validate)
}

// LoadEnvBool loads a boolean in any form strconv.ParseBool accepts.
func LoadEnvBool(envKey string, defaultValue bool) Loaded[bool] {
	return LoadEnv(envKey, defaultValue, strconv.ParseBool, nil)
}
