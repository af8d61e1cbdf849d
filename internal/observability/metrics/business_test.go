package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPipelineRun(t *testing.T) {
	before := testutil.ToFloat64(PipelineRequestsTotal.WithLabelValues("summarize", "ok"))

	RecordPipelineRun("summarize", "ok", 1500*time.Millisecond)

	after := testutil.ToFloat64(PipelineRequestsTotal.WithLabelValues("summarize", "ok"))
	assert.Equal(t, before+1, after)
}

func TestRecordChunk(t *testing.T) {
	tests := []struct {
		name    string
		pass    string
		ok      bool
		outcome string
	}{
		{name: "initial ok", pass: "initial", ok: true, outcome: "ok"},
		{name: "initial failed", pass: "initial", ok: false, outcome: "no_output"},
		{name: "reduction failed", pass: "reduction", ok: false, outcome: "no_output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := ChunksTotal.WithLabelValues(tt.pass, tt.outcome)
			before := testutil.ToFloat64(counter)
			RecordChunk(tt.pass, tt.ok)
			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestRecordModelCall(t *testing.T) {
	before := testutil.ToFloat64(ModelCallsTotal.WithLabelValues("noop", "failure"))
	RecordModelCall("noop", false, 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(ModelCallsTotal.WithLabelValues("noop", "failure")))
}

func TestSetModelHandleReady(t *testing.T) {
	SetModelHandleReady(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(ModelHandleReady))
	SetModelHandleReady(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(ModelHandleReady))
}

func TestRecorders_NoPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordReductionLevels(3)
		RecordCombinedLength(261)
		RecordCacheLookup("hit")
		RecordCacheLookup("miss")
		RecordPageFetch(true)
		RecordPageFetch(false)
	})
}

func TestRecordReductionLevels_Histogram(t *testing.T) {
	read := func() *dto.Histogram {
		m := &dto.Metric{}
		require.NoError(t, ReductionLevels.Write(m))
		return m.GetHistogram()
	}

	before := read()
	RecordReductionLevels(2)
	after := read()

	assert.Equal(t, before.GetSampleCount()+1, after.GetSampleCount())
	assert.InDelta(t, before.GetSampleSum()+2, after.GetSampleSum(), 1e-9)
}
