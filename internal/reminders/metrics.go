package reminders

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the reminder subsystem.
type Metrics struct {
	// Scheduled is the total number of reminders scheduled.
	Scheduled prometheus.Counter

	// Cancelled is the total number of reminders cancelled by toggle.
	Cancelled prometheus.Counter

	// CleanedUp is the total number of stale reminders removed.
	CleanedUp prometheus.Counter

	// CleanupFailures is the total number of cleanup errors.
	CleanupFailures prometheus.Counter

	// Live is the current number of live reminders.
	Live prometheus.Gauge
}

// NewMetrics creates and registers reminder metrics under namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Scheduled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_scheduled_total",
			Help:      "Total number of reminders scheduled",
		}),
		Cancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_cancelled_total",
			Help:      "Total number of reminders cancelled",
		}),
		CleanedUp: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_cleaned_up_total",
			Help:      "Total number of stale reminders removed",
		}),
		CleanupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_cleanup_failures_total",
			Help:      "Total number of reminder cleanup errors",
		}),
		Live: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reminders_live",
			Help:      "Current number of live reminders",
		}),
	}
}

// IncScheduled increments the scheduled counter.
func (m *Metrics) IncScheduled() { m.Scheduled.Inc() }

// IncCancelled increments the cancelled counter.
func (m *Metrics) IncCancelled() { m.Cancelled.Inc() }

// IncCleanedUp adds to the cleanup counter.
func (m *Metrics) IncCleanedUp(n int) { m.CleanedUp.Add(float64(n)) }

// IncCleanupFailures increments the cleanup failure counter.
func (m *Metrics) IncCleanupFailures() { m.CleanupFailures.Inc() }

// IncLive bumps the live reminder gauge.
func (m *Metrics) IncLive() { m.Live.Inc() }

// DecLive drops the live reminder gauge.
func (m *Metrics) DecLive() { m.Live.Dec() }

// SetLive sets the live reminder gauge.
func (m *Metrics) SetLive(n int) { m.Live.Set(float64(n)) }
