package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quickmind/internal/domain/entity"
	"quickmind/internal/utils/text"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestSummarizer(t *testing.T, p Primitive, cfg Config) *Summarizer {
	t.Helper()
	s, err := NewSummarizer(p, cfg, quietOptions()...)
	require.NoError(t, err)
	return s
}

// sixtyRunes answers chunk tasks with 60 runes derived from the chunk and
// the final task with a fixed summary.
func sixtyRunes(ctx context.Context, task entity.Task) (string, error) {
	if task.Instruction == FinalInstruction {
		return "final summary", nil
	}
	first := []rune(task.Input)[0]
	return strings.Repeat(string(first), 60), nil
}

func TestSummarizeLongText_DirectPath(t *testing.T) {
	input := "  A short note.\nIt fits into one window.  "
	p := newRecording(fixed("A short summary."))
	s := newTestSummarizer(t, p, testConfig(3000, 200))

	res := s.SummarizeLongText(context.Background(), input)

	assert.Equal(t, entity.StatusOK, res.Status)
	assert.Equal(t, "A short summary.", res.Output)
	assert.Equal(t, 1, res.Levels)
	assert.Equal(t, 1, res.Calls)

	tasks := p.recorded()
	require.Len(t, tasks, 1)
	assert.Equal(t, input, tasks[0].Input, "direct path must send the input unmodified")
	assert.Equal(t, SummarizeInstruction, tasks[0].Instruction)
	assert.Equal(t, entity.TaskSummarize, tasks[0].Kind)
}

func TestSummarizeLongText_DirectPathAtExactWindow(t *testing.T) {
	p := newRecording(fixed("summary"))
	s := newTestSummarizer(t, p, testConfig(3000, 200))

	res := s.SummarizeLongText(context.Background(), document(3000))

	assert.Equal(t, entity.StatusOK, res.Status)
	assert.Len(t, p.recorded(), 1)
}

func TestSummarizeLongText_DirectPathNoResult(t *testing.T) {
	tests := []struct {
		name string
		fn   func(context.Context, entity.Task) (string, error)
	}{
		{name: "primitive error", fn: func(context.Context, entity.Task) (string, error) {
			return "", errors.New("model unavailable")
		}},
		{name: "empty output", fn: fixed("")},
		{name: "blank output", fn: fixed(" \n ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSummarizer(t, newRecording(tt.fn), testConfig(3000, 200))
			res := s.SummarizeLongText(context.Background(), "short text")

			assert.Equal(t, entity.StatusNoResult, res.Status)
			assert.Nil(t, res.OutputPtr())
			assert.Equal(t, 1, res.Calls)
		})
	}
}

func TestSummarizeLongText_EndToEnd(t *testing.T) {
	input := document(10000)
	p := newRecording(sixtyRunes)
	s := newTestSummarizer(t, p, testConfig(3000, 200))

	res := s.SummarizeLongText(context.Background(), input)

	require.Equal(t, entity.StatusOK, res.Status)
	assert.Equal(t, "final summary", res.Output)
	assert.Equal(t, 1, res.Levels)
	assert.Equal(t, 5, res.Calls)
	assert.Len(t, p.recorded(), 5)

	var chunkInputs []string
	for _, task := range p.withInstruction(SummarizeInstruction) {
		chunkInputs = append(chunkInputs, task.Input)
	}
	assert.ElementsMatch(t, []string{
		runeSlice(input, 0, 3000),
		runeSlice(input, 2800, 5800),
		runeSlice(input, 5600, 8600),
		runeSlice(input, 8400, 10000),
	}, chunkInputs)

	finals := p.withInstruction(FinalInstruction)
	require.Len(t, finals, 1)
	assert.Equal(t, 4*60+3*7, text.CountRunes(finals[0].Input))

	want := strings.Join([]string{
		strings.Repeat(runeSlice(input, 0, 1), 60),
		strings.Repeat(runeSlice(input, 2800, 2801), 60),
		strings.Repeat(runeSlice(input, 5600, 5601), 60),
		strings.Repeat(runeSlice(input, 8400, 8401), 60),
	}, Separator)
	assert.Equal(t, want, finals[0].Input, "partial summaries must be joined in chunk order")
}

func TestSummarizeLongText_PartialFailure(t *testing.T) {
	input := document(10000)
	failing := runeSlice(input, 2800, 5800)
	p := newRecording(func(ctx context.Context, task entity.Task) (string, error) {
		if task.Input == failing {
			return "", errors.New("chunk failed")
		}
		return sixtyRunes(ctx, task)
	})
	s := newTestSummarizer(t, p, testConfig(3000, 200))

	res := s.SummarizeLongText(context.Background(), input)

	require.Equal(t, entity.StatusOK, res.Status)
	finals := p.withInstruction(FinalInstruction)
	require.Len(t, finals, 1)
	assert.Equal(t, 3*60+2*7, text.CountRunes(finals[0].Input))
	assert.NotContains(t, finals[0].Input, strings.Repeat(runeSlice(input, 2800, 2801), 60))
}

func TestSummarizeLongText_TotalFailure(t *testing.T) {
	p := newRecording(func(context.Context, entity.Task) (string, error) {
		return "", errors.New("model crashed")
	})
	s := newTestSummarizer(t, p, testConfig(3000, 200))

	res := s.SummarizeLongText(context.Background(), document(10000))

	assert.Equal(t, entity.StatusFailed, res.Status)
	assert.Equal(t, entity.SummaryFailedMessage, res.Output)
	assert.Equal(t, 4, res.Calls)
	assert.Empty(t, p.withInstruction(FinalInstruction))
}

func TestSummarizeLongText_ShortChunkOutputs(t *testing.T) {
	tests := []struct {
		name       string
		reject     bool
		output     string
		wantStatus entity.Status
		wantCalls  int
	}{
		{name: "rejected when floor enabled", reject: true, output: strings.Repeat("s", 30), wantStatus: entity.StatusFailed, wantCalls: 4},
		{name: "accepted without floor", reject: false, output: strings.Repeat("s", 30), wantStatus: entity.StatusOK, wantCalls: 5},
		{name: "combined text below minimum", reject: false, output: "tiny", wantStatus: entity.StatusFailed, wantCalls: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(3000, 200)
			cfg.RejectShortChunks = tt.reject
			p := newRecording(func(ctx context.Context, task entity.Task) (string, error) {
				if task.Instruction == FinalInstruction {
					return "merged", nil
				}
				return tt.output, nil
			})
			s := newTestSummarizer(t, p, cfg)

			res := s.SummarizeLongText(context.Background(), document(10000))

			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantCalls, res.Calls)
		})
	}
}

func TestSummarizeLongText_FinalCallFailure(t *testing.T) {
	tests := []struct {
		name  string
		final func() (string, error)
	}{
		{name: "error", final: func() (string, error) { return "", errors.New("timeout") }},
		{name: "blank", final: func() (string, error) { return "   ", nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newRecording(func(ctx context.Context, task entity.Task) (string, error) {
				if task.Instruction == FinalInstruction {
					return tt.final()
				}
				return sixtyRunes(ctx, task)
			})
			s := newTestSummarizer(t, p, testConfig(3000, 200))

			res := s.SummarizeLongText(context.Background(), document(10000))

			assert.Equal(t, entity.StatusFailed, res.Status)
			assert.Equal(t, entity.SummaryFailedMessage, res.Output)
		})
	}
}

func TestSummarizeLongText_RecursiveReduction(t *testing.T) {
	// Each call shrinks its input to a quarter: 20000 -> 5714 -> 1620 -> 437.
	p := newRecording(func(ctx context.Context, task entity.Task) (string, error) {
		if task.Instruction == FinalInstruction {
			return "final", nil
		}
		return strings.Repeat("s", max(60, text.CountRunes(task.Input)/4)), nil
	})
	s := newTestSummarizer(t, p, testConfig(1000, 100))

	res := s.SummarizeLongText(context.Background(), document(20000))

	require.Equal(t, entity.StatusOK, res.Status)
	assert.Equal(t, "final", res.Output)
	assert.Equal(t, 3, res.Levels)
	assert.Len(t, p.withInstruction(SummarizeInstruction), 23)
	assert.Len(t, p.withInstruction(ReduceInstruction), 7+2)
	assert.Len(t, p.withInstruction(FinalInstruction), 1)
	assert.Equal(t, 23+9+1, res.Calls)

	for _, task := range p.recorded() {
		assert.LessOrEqual(t, text.CountRunes(task.Input), 1000, "no call may exceed the window")
	}
}

func TestSummarizeLongText_DepthBound(t *testing.T) {
	// Echoing the input never shrinks the text, so reduction cannot converge.
	p := newRecording(func(ctx context.Context, task entity.Task) (string, error) {
		return task.Input, nil
	})
	cfg := testConfig(200, 20)
	cfg.MaxDepth = 6
	s := newTestSummarizer(t, p, cfg)

	res := s.SummarizeLongText(context.Background(), document(1000))

	assert.Equal(t, entity.StatusFailed, res.Status)
	assert.Equal(t, entity.SummaryFailedMessage, res.Output)
	assert.Equal(t, 6, res.Levels)
	assert.Empty(t, p.withInstruction(FinalInstruction))
}

func TestSummarizeLongText_Cancellation(t *testing.T) {
	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := newRecording(sixtyRunes)
		s := newTestSummarizer(t, p, testConfig(3000, 200))

		res := s.SummarizeLongText(ctx, document(10000))

		assert.Equal(t, entity.StatusFailed, res.Status)
		assert.Empty(t, p.recorded())
	})

	t.Run("cancelled during map stage", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		p := newRecording(func(callCtx context.Context, task entity.Task) (string, error) {
			cancel()
			return "", callCtx.Err()
		})
		cfg := testConfig(3000, 200)
		cfg.Parallelism = 1
		s := newTestSummarizer(t, p, cfg)

		res := s.SummarizeLongText(ctx, document(10000))

		assert.Equal(t, entity.StatusFailed, res.Status)
		assert.Empty(t, p.withInstruction(FinalInstruction))
	})
}

func TestSummarizeLongText_SentinelIsDistinguishable(t *testing.T) {
	// A model could legitimately answer with the failure sentence; Status keeps them apart.
	s := newTestSummarizer(t, newRecording(fixed(entity.SummaryFailedMessage)), testConfig(3000, 200))
	ok := s.SummarizeLongText(context.Background(), "short")

	failing := newTestSummarizer(t, newRecording(func(context.Context, entity.Task) (string, error) {
		return "", errors.New("down")
	}), testConfig(3000, 200))
	failed := failing.SummarizeLongText(context.Background(), document(10000))

	assert.Equal(t, ok.Output, failed.Output)
	assert.Equal(t, entity.StatusOK, ok.Status)
	assert.Equal(t, entity.StatusFailed, failed.Status)
}

func TestSummarizeLongText_SpanPerLevel(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(sdktrace.NewTracerProvider()) })

	p := newRecording(func(ctx context.Context, task entity.Task) (string, error) {
		if task.Instruction == FinalInstruction {
			return "final", nil
		}
		return strings.Repeat("s", max(60, text.CountRunes(task.Input)/4)), nil
	})
	s := newTestSummarizer(t, p, testConfig(1000, 100))
	s.SummarizeLongText(context.Background(), document(20000))

	var levels int
	for _, sp := range exporter.GetSpans() {
		if sp.Name == "pipeline.reduce" {
			levels++
		}
	}
	assert.Equal(t, 3, levels)
}

func TestNewSummarizer_Validation(t *testing.T) {
	_, err := NewSummarizer(nil, DefaultConfig())
	assert.Error(t, err)

	_, err = NewSummarizer(newRecording(fixed("x")), testConfig(1000, 1000))
	assert.ErrorIs(t, err, entity.ErrInvalidWindow)

	s, err := NewSummarizer(newRecording(fixed("x")), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), s.Config())
}
