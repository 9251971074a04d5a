// Package metrics counts and times backend calls made by the UI. The default
// recorder is a no-op; Prometheus is enabled from config.
package metrics

import (
	"sync"
	"time"
)

// Recorder defines the metrics surface used across the codebase.
type Recorder interface {
	IncBackendCall(op string, success bool)
	ObserveBackendSeconds(op string, success bool, seconds float64)
	IncSearchQuery(repository string)
}

type noopRecorder struct{}

func (noopRecorder) IncBackendCall(string, bool)                 {}
func (noopRecorder) ObserveBackendSeconds(string, bool, float64) {}
func (noopRecorder) IncSearchQuery(string)                       {}

var (
	recMu    sync.RWMutex
	recorder Recorder = noopRecorder{}
)

// Default returns the current recorder.
func Default() Recorder {
	recMu.RLock()
	defer recMu.RUnlock()
	return recorder
}

// SetRecorder swaps the global recorder. Passing nil restores the no-op recorder.
func SetRecorder(r Recorder) {
	recMu.Lock()
	defer recMu.Unlock()
	if r == nil {
		r = noopRecorder{}
	}
	recorder = r
}

// TimeCall starts timing a backend call; invoke the returned func with the outcome.
func TimeCall(op string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncBackendCall(op, success)
		Default().ObserveBackendSeconds(op, success, dur)
	}
}
