package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"quickmind/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedChunks(n int) []entity.Chunk {
	chunks := make([]entity.Chunk, n)
	for i := range chunks {
		chunks[i] = entity.Chunk{Index: i, Start: i * 10, End: i*10 + 10, Text: strconv.Itoa(i)}
	}
	return chunks
}

func newStage(p Primitive, parallelism, minRunes int) stage {
	return stage{
		primitive:   p,
		parallelism: parallelism,
		minRunes:    minRunes,
		recorder:    NoopRecorder{},
		calls:       new(atomic.Int64),
	}
}

func TestMapChunks_PreservesChunkOrder(t *testing.T) {
	const n = 6
	// Later chunks finish first.
	p := PrimitiveFunc(func(ctx context.Context, task entity.Task) (string, error) {
		idx, _ := strconv.Atoi(task.Input)
		time.Sleep(time.Duration(n-idx) * 5 * time.Millisecond)
		return "summary-" + task.Input, nil
	})

	st := newStage(p, n, 0)
	results := st.mapChunks(context.Background(), numberedChunks(n), PassInitial, SummarizeInstruction)

	require.Len(t, results, n)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.True(t, r.OK)
		assert.Equal(t, fmt.Sprintf("summary-%d", i), r.Output)
	}

	combined, usable := combine(results)
	assert.Equal(t, 6, usable)
	assert.Equal(t, "summary-0\n\n---\n\nsummary-1\n\n---\n\nsummary-2\n\n---\n\nsummary-3\n\n---\n\nsummary-4\n\n---\n\nsummary-5", combined)
	assert.Equal(t, int64(n), st.calls.Load())
}

func TestMapChunks_FailuresBecomeNoOutput(t *testing.T) {
	boom := errors.New("model crashed")
	p := PrimitiveFunc(func(ctx context.Context, task entity.Task) (string, error) {
		switch task.Input {
		case "1":
			return "", boom
		case "2":
			return "   \n\t", nil
		case "3":
			return "too short", nil
		default:
			return strings.Repeat("x", 60), nil
		}
	})

	st := newStage(p, 2, 50)
	results := st.mapChunks(context.Background(), numberedChunks(5), PassInitial, SummarizeInstruction)

	require.Len(t, results, 5)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.False(t, results[2].OK)
	assert.ErrorIs(t, results[2].Err, ErrUnusableOutput)
	assert.False(t, results[3].OK)
	assert.ErrorIs(t, results[3].Err, ErrUnusableOutput)
	assert.True(t, results[4].OK)

	_, usable := combine(results)
	assert.Equal(t, 2, usable)
}

func TestMapChunks_ShortOutputAllowedWithoutFloor(t *testing.T) {
	st := newStage(PrimitiveFunc(func(context.Context, entity.Task) (string, error) {
		return "ok", nil
	}), 1, 0)

	results := st.mapChunks(context.Background(), numberedChunks(3), PassTranslate, "translate")
	for _, r := range results {
		assert.True(t, r.OK)
	}
}

func TestMapChunks_BoundsParallelism(t *testing.T) {
	var inFlight, peak atomic.Int32
	p := PrimitiveFunc(func(context.Context, entity.Task) (string, error) {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return "done", nil
	})

	st := newStage(p, 2, 0)
	results := st.mapChunks(context.Background(), numberedChunks(10), PassInitial, SummarizeInstruction)

	require.Len(t, results, 10)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, int64(10), st.calls.Load())
}

func TestMapChunks_PassesInstruction(t *testing.T) {
	p := newRecording(fixed("out"))
	st := newStage(p, 4, 0)
	st.mapChunks(context.Background(), numberedChunks(3), PassReduction, PassReduction.instruction())

	for _, task := range p.recorded() {
		assert.Equal(t, ReduceInstruction, task.Instruction)
	}
	assert.Len(t, p.recorded(), 3)
}

func TestMapChunks_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := PrimitiveFunc(func(ctx context.Context, task entity.Task) (string, error) {
		return "", ctx.Err()
	})
	st := newStage(p, 1, 0)
	results := st.mapChunks(ctx, numberedChunks(4), PassInitial, SummarizeInstruction)

	for _, r := range results {
		assert.False(t, r.OK)
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestCombine_SkipsNoOutput(t *testing.T) {
	results := []entity.ChunkResult{
		entity.Produced(0, "alpha"),
		entity.NoOutput(1, errors.New("x")),
		entity.Produced(2, "gamma"),
	}
	combined, usable := combine(results)
	assert.Equal(t, "alpha"+Separator+"gamma", combined)
	assert.Equal(t, 2, usable)

	combined, usable = combine(nil)
	assert.Empty(t, combined)
	assert.Zero(t, usable)
}
