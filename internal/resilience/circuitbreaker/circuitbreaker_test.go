package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Name:             "test-circuit",
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          50 * time.Millisecond,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig())
	require.NotNil(t, cb)
	assert.Equal(t, "test-circuit", cb.Name())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.False(t, cb.IsOpen())
}

func TestCircuitBreaker_TripsAndRecovers(t *testing.T) {
	cb := New(testConfig())
	boom := errors.New("model down")

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	}
	require.True(t, cb.IsOpen())

	_, err := cb.Execute(func() (interface{}, error) { return "never", nil })
	assert.True(t, IsRejection(err))

	time.Sleep(60 * time.Millisecond)
	res, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_StaysClosedBelowMinRequests(t *testing.T) {
	cb := New(testConfig())
	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, errors.New("x") })
	}
	assert.False(t, cb.IsOpen())
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(gobreaker.ErrOpenState))
	assert.True(t, IsRejection(gobreaker.ErrTooManyRequests))
	assert.False(t, IsRejection(errors.New("other")))
	assert.False(t, IsRejection(nil))
}

func TestPresetConfigs(t *testing.T) {
	tests := []struct {
		cfg  Config
		name string
	}{
		{cfg: ModelConfig("claude"), name: "claude-api"},
		{cfg: ModelConfig("openai"), name: "openai-api"},
		{cfg: LocalModelConfig("ollama"), name: "ollama-local"},
		{cfg: PageFetchConfig(), name: "page-fetch"},
		{cfg: DBConfig(), name: "result-cache"},
		{cfg: DefaultConfig("custom"), name: "custom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.cfg.Name)
			assert.Positive(t, tt.cfg.MaxRequests)
			assert.Positive(t, tt.cfg.MinRequests)
			assert.Greater(t, tt.cfg.FailureThreshold, 0.0)
			assert.LessOrEqual(t, tt.cfg.FailureThreshold, 1.0)
		})
	}
}
