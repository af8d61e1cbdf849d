package pipeline

import (
	"context"
	"strings"
	"sync/atomic"

	"quickmind/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

// stage runs one map step: every chunk is transformed with the same instruction,
// at most parallelism calls in flight at once.
type stage struct {
	primitive   Primitive
	parallelism int
	minRunes    int
	recorder    MetricsRecorder
	calls       *atomic.Int64
	kind        entity.TaskKind
}

// mapChunks transforms each chunk concurrently. It never fails: a chunk whose
// call errors or yields unusable output is returned as a no-output marker.
// results[i] always belongs to chunks[i], whatever order the calls finish in.
func (s stage) mapChunks(ctx context.Context, chunks []entity.Chunk, pass Pass, instruction string) []entity.ChunkResult {
	results := make([]entity.ChunkResult, len(chunks))
	sem := make(chan struct{}, max(s.parallelism, 1))

	// Plain errgroup: one chunk failing must not cancel its siblings.
	var eg errgroup.Group
	for i, chunk := range chunks {
		eg.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = entity.NoOutput(chunk.Index, ctx.Err())
				s.recorder.RecordChunk(pass, false)
				return nil
			}
			defer func() { <-sem }()

			s.calls.Add(1)
			task := entity.Task{Kind: s.kind, Instruction: instruction, Input: chunk.Text}
			res := invoke(ctx, s.primitive, chunk.Index, task, s.minRunes)
			results[i] = res
			s.recorder.RecordChunk(pass, res.OK)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

// combine joins the usable outputs in chunk order.
func combine(results []entity.ChunkResult) (string, int) {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		if r.OK {
			parts = append(parts, r.Output)
		}
	}
	return strings.Join(parts, Separator), len(parts)
}
