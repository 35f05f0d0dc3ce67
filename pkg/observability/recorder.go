package observability

import (
	"context"
	"sync"
	"time"
)

// StageEvent is one completed pipeline stage.
type StageEvent struct {
	Stage       string
	Inputs      int
	Outputs     int
	Diagnostics int
	Duration    time.Duration
	Err         error
}

// Recorder keeps every pipeline and cache event in memory. The CLI uses it
// to print stage timings; tests use it to assert on stage order.
type Recorder struct {
	mu     sync.Mutex
	inputs map[string]int
	Stages []StageEvent
	Hits   map[string]int
	Misses map[string]int
	Sets   map[string]int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		inputs: make(map[string]int),
		Hits:   make(map[string]int),
		Misses: make(map[string]int),
		Sets:   make(map[string]int),
	}
}

func (r *Recorder) OnStageStart(_ context.Context, stage string, inputs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs[stage] = inputs
}

func (r *Recorder) OnStageComplete(_ context.Context, stage string, outputs, diagnostics int, d time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Stages = append(r.Stages, StageEvent{
		Stage:       stage,
		Inputs:      r.inputs[stage],
		Outputs:     outputs,
		Diagnostics: diagnostics,
		Duration:    d,
		Err:         err,
	})
}

func (r *Recorder) OnCacheHit(_ context.Context, keyType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Hits[keyType]++
}

func (r *Recorder) OnCacheMiss(_ context.Context, keyType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Misses[keyType]++
}

func (r *Recorder) OnCacheSet(_ context.Context, keyType string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sets[keyType]++
}

// StageNames returns the completed stages in order.
func (r *Recorder) StageNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.Stages))
	for i, s := range r.Stages {
		names[i] = s.Stage
	}
	return names
}

var (
	_ PipelineHooks = (*Recorder)(nil)
	_ CacheHooks    = (*Recorder)(nil)
)
