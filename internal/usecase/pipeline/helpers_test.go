package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"quickmind/internal/domain/entity"
)

// recordingPrimitive records every task and answers through fn.
type recordingPrimitive struct {
	mu    sync.Mutex
	tasks []entity.Task
	fn    func(ctx context.Context, task entity.Task) (string, error)
}

func newRecording(fn func(ctx context.Context, task entity.Task) (string, error)) *recordingPrimitive {
	return &recordingPrimitive{fn: fn}
}

func (p *recordingPrimitive) Transform(ctx context.Context, task entity.Task) (string, error) {
	p.mu.Lock()
	p.tasks = append(p.tasks, task)
	p.mu.Unlock()
	return p.fn(ctx, task)
}

func (p *recordingPrimitive) recorded() []entity.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.Task(nil), p.tasks...)
}

func (p *recordingPrimitive) withInstruction(instruction string) []entity.Task {
	var out []entity.Task
	for _, t := range p.recorded() {
		if t.Instruction == instruction {
			out = append(out, t)
		}
	}
	return out
}

func fixed(output string) func(context.Context, entity.Task) (string, error) {
	return func(context.Context, entity.Task) (string, error) { return output, nil }
}

func testConfig(window, overlap int) Config {
	cfg := DefaultConfig()
	cfg.WindowSize = window
	cfg.Overlap = overlap
	return cfg
}

func quietOptions() []Option {
	return []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetricsRecorder(NoopRecorder{}),
	}
}

// document builds n runes of repeating lowercase letters.
func document(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	return b.String()
}

func runeSlice(s string, start, end int) string {
	return string([]rune(s)[start:end])
}
