package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes Metrics to a prometheus registry.
type Collector struct {
	metrics *Metrics

	events          *prometheus.Desc
	updates         *prometheus.Desc
	normalizeErrors *prometheus.Desc
	fatalErrors     *prometheus.Desc
	queueRejected   *prometheus.Desc
	subscriptions   *prometheus.Desc
	connects        *prometheus.Desc
	deliveryCount   *prometheus.Desc
	deliveryAvg     *prometheus.Desc
	deliveryMax     *prometheus.Desc
}

func NewCollector(namespace string, m *Metrics) *Collector {
	return &Collector{
		metrics:         m,
		events:          prometheus.NewDesc(prometheus.BuildFQName(namespace, "stream", "events_total"), "Events enqueued by type.", []string{"type"}, nil),
		updates:         prometheus.NewDesc(prometheus.BuildFQName(namespace, "stream", "updates_total"), "Data events enqueued by update kind.", []string{"kind"}, nil),
		normalizeErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, "stream", "normalize_errors_total"), "Pushes that could not be normalized.", nil, nil),
		fatalErrors:     prometheus.NewDesc(prometheus.BuildFQName(namespace, "stream", "fatal_errors_total"), "Connection level failures.", nil, nil),
		queueRejected:   prometheus.NewDesc(prometheus.BuildFQName(namespace, "stream", "queue_rejected_total"), "Events pushed after the queue was sealed.", nil, nil),
		subscriptions:   prometheus.NewDesc(prometheus.BuildFQName(namespace, "stream", "subscriptions"), "Active subscriptions.", nil, nil),
		connects:        prometheus.NewDesc(prometheus.BuildFQName(namespace, "stream", "connects_total"), "Successful connects.", nil, nil),
		deliveryCount:   prometheus.NewDesc(prometheus.BuildFQName(namespace, "stream", "delivered_total"), "Events popped by the consumer.", nil, nil),
		deliveryAvg:     prometheus.NewDesc(prometheus.BuildFQName(namespace, "stream", "queue_wait_avg_seconds"), "Average time an event stayed queued.", nil, nil),
		deliveryMax:     prometheus.NewDesc(prometheus.BuildFQName(namespace, "stream", "queue_wait_max_seconds"), "Longest time an event stayed queued.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.events
	ch <- c.updates
	ch <- c.normalizeErrors
	ch <- c.fatalErrors
	ch <- c.queueRejected
	ch <- c.subscriptions
	ch <- c.connects
	ch <- c.deliveryCount
	ch <- c.deliveryAvg
	ch <- c.deliveryMax
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.metrics.Snapshot()
	for typ, v := range s.EventCounts {
		ch <- prometheus.MustNewConstMetric(c.events, prometheus.CounterValue, float64(v), typ.String())
	}
	for kind, v := range s.KindCounts {
		ch <- prometheus.MustNewConstMetric(c.updates, prometheus.CounterValue, float64(v), kind.String())
	}
	ch <- prometheus.MustNewConstMetric(c.normalizeErrors, prometheus.CounterValue, float64(s.NormalizeErrors))
	ch <- prometheus.MustNewConstMetric(c.fatalErrors, prometheus.CounterValue, float64(s.FatalErrors))
	ch <- prometheus.MustNewConstMetric(c.queueRejected, prometheus.CounterValue, float64(s.QueueRejected))
	ch <- prometheus.MustNewConstMetric(c.subscriptions, prometheus.GaugeValue, float64(s.Subscriptions))
	ch <- prometheus.MustNewConstMetric(c.connects, prometheus.CounterValue, float64(s.Connects))
	ch <- prometheus.MustNewConstMetric(c.deliveryCount, prometheus.CounterValue, float64(s.DeliveryLatency.Count))
	ch <- prometheus.MustNewConstMetric(c.deliveryAvg, prometheus.GaugeValue, s.DeliveryLatency.Avg.Seconds())
	ch <- prometheus.MustNewConstMetric(c.deliveryMax, prometheus.GaugeValue, s.DeliveryLatency.Max.Seconds())
}
