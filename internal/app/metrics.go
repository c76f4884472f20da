package app

import (
	"math"
	"sync/atomic"
	"time"
)

// Metrics tracks the foreground loop's timing: frames drawn, input
// events handled, and how long each took. Counters are atomic so the
// frame path records without locking.
type Metrics struct {
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64
	frameDrops   atomic.Uint64

	inputCount   atomic.Uint64
	inputTotalNs atomic.Int64

	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64

	startedAt time.Time
}

// NewMetrics creates a tracker starting now.
func NewMetrics() *Metrics {
	m := &Metrics{startedAt: time.Now()}
	m.frameMinNs.Store(math.MaxInt64)
	return m
}

// RecordFrame records one frame's duration.
func (m *Metrics) RecordFrame(d time.Duration) {
	ns := d.Nanoseconds()
	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)
	storeMin(&m.frameMinNs, ns)
	storeMax(&m.frameMaxNs, ns)
}

// RecordDroppedFrame counts a frame skipped under load.
func (m *Metrics) RecordDroppedFrame() {
	m.frameDrops.Add(1)
}

// RecordInput records one input event's handling time.
func (m *Metrics) RecordInput(d time.Duration) {
	m.inputCount.Add(1)
	m.inputTotalNs.Add(d.Nanoseconds())
}

// RecordRender records one render pass.
func (m *Metrics) RecordRender(d time.Duration) {
	m.renderCount.Add(1)
	m.renderTotalNs.Add(d.Nanoseconds())
}

func storeMin(v *atomic.Int64, ns int64) {
	for {
		cur := v.Load()
		if ns >= cur || v.CompareAndSwap(cur, ns) {
			return
		}
	}
}

func storeMax(v *atomic.Int64, ns int64) {
	for {
		cur := v.Load()
		if ns <= cur || v.CompareAndSwap(cur, ns) {
			return
		}
	}
}

// MetricsSnapshot is a point-in-time view for the status display.
type MetricsSnapshot struct {
	Uptime         time.Duration
	FrameCount     uint64
	AvgFrameTimeNs int64
	MinFrameTimeNs int64
	MaxFrameTimeNs int64
	LastFrameNs    int64
	DroppedFrames  uint64
	InputCount     uint64
	AvgInputTimeNs int64
	RenderCount    uint64
	AvgRenderNs    int64
}

// Snapshot reads the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	avg := func(total int64, count uint64) int64 {
		if count == 0 {
			return 0
		}
		return total / int64(count)
	}

	minNs := m.frameMinNs.Load()
	if minNs == math.MaxInt64 {
		minNs = 0
	}

	frames := m.frameCount.Load()
	inputs := m.inputCount.Load()
	renders := m.renderCount.Load()
	return MetricsSnapshot{
		Uptime:         time.Since(m.startedAt),
		FrameCount:     frames,
		AvgFrameTimeNs: avg(m.frameTotalNs.Load(), frames),
		MinFrameTimeNs: minNs,
		MaxFrameTimeNs: m.frameMaxNs.Load(),
		LastFrameNs:    m.lastFrameNs.Load(),
		DroppedFrames:  m.frameDrops.Load(),
		InputCount:     inputs,
		AvgInputTimeNs: avg(m.inputTotalNs.Load(), inputs),
		RenderCount:    renders,
		AvgRenderNs:    avg(m.renderTotalNs.Load(), renders),
	}
}

// AvgFPS derives frames per second from the average frame time.
func (s MetricsSnapshot) AvgFPS() float64 {
	if s.AvgFrameTimeNs <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.AvgFrameTimeNs)
}

// DropRate is the fraction of frames dropped.
func (s MetricsSnapshot) DropRate() float64 {
	total := s.FrameCount + s.DroppedFrames
	if total == 0 {
		return 0
	}
	return float64(s.DroppedFrames) / float64(total)
}
