// Package diagnostics emits side-effect-free structured trace events for
// individual operations (glob, scan, read, hash, ...) when the operator has
// opted in via environment variable. Emission must cost nothing when no
// subscriber is attached: callers check Enabled() once per request and skip
// every downstream call entirely when it is false.
package diagnostics

import (
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// Detail controls how much of a path a trace event reveals.
type Detail int

const (
	DetailOff      Detail = 0
	DetailHashed   Detail = 1
	DetailVerbatim Detail = 2
)

// Event is one structured trace record.
type Event struct {
	TraceID   string
	Operation string
	Phase     string // "start", "end", "error"
	Path      string // "" when Detail is off
	Timestamp time.Time
	Err       string
}

// PerfSample accompanies the end-phase event of a request-level operation.
// Go has no single event loop, so event-loop-utilization is approximated
// with a goroutine-count delta and a GC-pause-derived stand-in for
// event-loop-delay percentiles.
type PerfSample struct {
	DurationNS      int64
	GoroutineDelta  int
	GCPauseDeltaNS  uint64
	HeapAllocDeltaB int64
}

// Subscriber receives emitted events and perf samples. The service layer
// wires a concrete implementation (e.g. one that forwards to the logger);
// tests can install a recording subscriber.
type Subscriber interface {
	OnEvent(Event)
	OnPerfSample(op string, sample PerfSample)
}

var (
	mu         sync.RWMutex
	enabled    bool
	detail     Detail
	subscriber Subscriber
)

// Configure toggles emission and sets the path-detail level and subscriber.
// A nil subscriber disables emission regardless of enabled.
func Configure(on bool, d Detail, sub Subscriber) {
	mu.Lock()
	defer mu.Unlock()
	enabled = on
	detail = d
	subscriber = sub
}

// Enabled reports whether a subscriber is attached and emission is on.
// Callers must check this before doing any diagnostics work so that the
// feature costs nothing when unused.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled && subscriber != nil
}

// Trace emits a start event, runs fn, then emits an end or error event plus
// a perf sample. When diagnostics are disabled, fn runs directly with no
// extra allocation.
func Trace(operation, path string, fn func() error) error {
	if !Enabled() {
		return fn()
	}

	mu.RLock()
	sub := subscriber
	d := detail
	mu.RUnlock()

	traceID := uuid.NewString()
	shownPath := renderPath(path, d)

	start := time.Now()
	var memStart runtime.MemStats
	runtime.ReadMemStats(&memStart)
	goroutinesStart := runtime.NumGoroutine()

	sub.OnEvent(Event{TraceID: traceID, Operation: operation, Phase: "start", Path: shownPath, Timestamp: start})

	err := fn()

	end := time.Now()
	phase := "end"
	errMsg := ""
	if err != nil {
		phase = "error"
		errMsg = err.Error()
	}
	sub.OnEvent(Event{TraceID: traceID, Operation: operation, Phase: phase, Path: shownPath, Timestamp: end, Err: errMsg})

	var memEnd runtime.MemStats
	runtime.ReadMemStats(&memEnd)
	sub.OnPerfSample(operation, PerfSample{
		DurationNS:      end.Sub(start).Nanoseconds(),
		GoroutineDelta:  runtime.NumGoroutine() - goroutinesStart,
		GCPauseDeltaNS:  memEnd.PauseTotalNs - memStart.PauseTotalNs,
		HeapAllocDeltaB: int64(memEnd.HeapAlloc) - int64(memStart.HeapAlloc),
	})
	return err
}

// renderPath applies the configured detail level: off hides the path
// entirely, hashed emits a short blake3 digest of it, verbatim passes it
// through unchanged.
func renderPath(path string, d Detail) string {
	switch d {
	case DetailOff:
		return ""
	case DetailHashed:
		sum := blake3.Sum256([]byte(path))
		return hexPrefix(sum[:], 16)
	default:
		return path
	}
}

func hexPrefix(b []byte, n int) string {
	const hexDigits = "0123456789abcdef"
	if n > len(b)*2 {
		n = len(b) * 2
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		v := b[i/2]
		if i%2 == 0 {
			out[i] = hexDigits[v>>4]
		} else {
			out[i] = hexDigits[v&0x0f]
		}
	}
	return string(out)
}
