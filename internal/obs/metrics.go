package obs

import (
	"sync/atomic"
	"time"

	"venuestream/internal/model/enum"
)

const (
	maxUpdateKind = int(enum.UpdateKindConsolidatedChart)
	maxEventType  = int(enum.EventTypeTransportError)
)

// Metrics collects lightweight counters and latency stats of a streaming session.
type Metrics struct {
	kindCounts      [maxUpdateKind + 1]uint64
	eventCounts     [maxEventType + 1]uint64
	normalizeErrors uint64
	fatalErrors     uint64
	queueRejected   uint64
	subscriptions   int64
	connects        uint64

	deliveryLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	KindCounts      map[enum.UpdateKind]uint64
	EventCounts     map[enum.EventType]uint64
	NormalizeErrors uint64
	FatalErrors     uint64
	QueueRejected   uint64
	Subscriptions   int64
	Connects        uint64
	DeliveryLatency LatencySnapshot
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveEnqueue counts an event placed on the queue.
func (m *Metrics) ObserveEnqueue(typ enum.EventType, kind enum.UpdateKind) {
	if m == nil {
		return
	}
	if idx := int(typ); idx >= 0 && idx < len(m.eventCounts) {
		atomic.AddUint64(&m.eventCounts[idx], 1)
	}
	if idx := int(kind); idx > 0 && idx < len(m.kindCounts) {
		atomic.AddUint64(&m.kindCounts[idx], 1)
	}
}

// ObserveDelivery measures the time an event spent queued.
func (m *Metrics) ObserveDelivery(d time.Duration) {
	if m == nil {
		return
	}
	m.deliveryLatency.Observe(d)
}

// IncNormalizeError records a push that could not be normalized.
func (m *Metrics) IncNormalizeError() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.normalizeErrors, 1)
}

// IncFatalError records a connection level failure.
func (m *Metrics) IncFatalError() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.fatalErrors, 1)
}

// IncQueueRejected records a push attempted on a sealed or closed queue.
func (m *Metrics) IncQueueRejected() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queueRejected, 1)
}

func (m *Metrics) IncConnect() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.connects, 1)
}

// AddSubscriptions moves the active subscription gauge by delta.
func (m *Metrics) AddSubscriptions(delta int64) {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.subscriptions, delta)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	kindCounts := make(map[enum.UpdateKind]uint64)
	for i := range m.kindCounts {
		if v := atomic.LoadUint64(&m.kindCounts[i]); v > 0 {
			kindCounts[enum.UpdateKind(i)] = v
		}
	}
	eventCounts := make(map[enum.EventType]uint64)
	for i := range m.eventCounts {
		if v := atomic.LoadUint64(&m.eventCounts[i]); v > 0 {
			eventCounts[enum.EventType(i)] = v
		}
	}
	return Snapshot{
		KindCounts:      kindCounts,
		EventCounts:     eventCounts,
		NormalizeErrors: atomic.LoadUint64(&m.normalizeErrors),
		FatalErrors:     atomic.LoadUint64(&m.fatalErrors),
		QueueRejected:   atomic.LoadUint64(&m.queueRejected),
		Subscriptions:   atomic.LoadInt64(&m.subscriptions),
		Connects:        atomic.LoadUint64(&m.connects),
		DeliveryLatency: m.deliveryLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
