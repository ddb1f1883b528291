package status

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// Metric keys written by the game session
const (
	KeyState          = "state"
	KeyEngineTicks    = "engine.ticks"
	KeyCaptureBall    = "capture.ball"
	KeyCaptureInput   = "capture.input"
	KeyReplayBall     = "replay.ball.applied"
	KeyReplayInput    = "replay.input.applied"
	KeyReplayVerified = "replay.verified"
	KeyRounds         = "rounds"
)

// Registry is the central metrics facade
// Writers cache pointers at construction and update the atomics from the tick goroutine;
// the renderer and statsview read them from their own goroutines
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns the number of metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Strings.Count()
}

// Value formats a single metric, searching strings, ints then bools
// Unregistered keys format as "-"
func (r *Registry) Value(key string) string {
	if s, ok := r.Strings.Lookup(key); ok {
		return s.Load()
	}
	if i, ok := r.Ints.Lookup(key); ok {
		return strconv.FormatInt(i.Load(), 10)
	}
	if b, ok := r.Bools.Lookup(key); ok {
		return strconv.FormatBool(b.Load())
	}
	return "-"
}

// Line formats the given keys as "key=value" pairs separated by two spaces
func (r *Registry) Line(keys ...string) string {
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(r.Value(k))
	}
	return sb.String()
}
