package observability

import (
	"context"
	"time"

	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "onlylist"

// Metrics holds the Prometheus collectors.
type Metrics struct {
	mutations  *prometheus.CounterVec
	rejections *prometheus.CounterVec
	notices    *prometheus.CounterVec
	tasks      prometheus.Gauge
	completed  prometheus.Gauge
	slotOps    *prometheus.CounterVec
	slotErrors *prometheus.CounterVec
	slotTime   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Committed task list mutations",
			},
			[]string{"op"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Inputs rejected by validation",
			},
			[]string{"kind"},
		),
		notices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notices_shown_total",
				Help:      "Transient notices posted",
			},
			[]string{"kind"},
		),
		tasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks",
			Help:      "Tasks in the list after the last change",
		}),
		completed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_completed",
			Help:      "Completed tasks in the list after the last change",
		}),
		slotOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "slot",
				Name:      "operations_total",
				Help:      "Persistence slot operations",
			},
			[]string{"op"},
		),
		slotErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "slot",
				Name:      "errors_total",
				Help:      "Failed persistence slot operations",
			},
			[]string{"op"},
		),
		slotTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "slot",
				Name:      "duration_seconds",
				Help:      "Duration of persistence slot operations",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"op"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.mutations, m.rejections, m.notices, m.tasks, m.completed, m.slotOps, m.slotErrors, m.slotTime)
	}
	return m
}

// Hooks returns lifecycle hooks that record Store activity.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChange: func(_ context.Context, e *domain.ChangeEvent) {
			m.mutations.WithLabelValues(string(e.Op)).Inc()
			done := 0
			for _, t := range e.Tasks {
				if t.Completed {
					done++
				}
			}
			m.tasks.Set(float64(len(e.Tasks)))
			m.completed.Set(float64(done))
		},
		OnReject: func(_ context.Context, e *domain.RejectEvent) {
			m.rejections.WithLabelValues(string(e.Kind)).Inc()
		},
		OnNotice: func(e *domain.NoticeEvent) {
			if e.Message != "" {
				m.notices.WithLabelValues(string(e.Kind)).Inc()
			}
		},
	}
}

// ObserveSlot implements middleware.SlotObserver.
func (m *Metrics) ObserveSlot(op string, elapsed time.Duration, err error) {
	m.slotOps.WithLabelValues(op).Inc()
	m.slotTime.WithLabelValues(op).Observe(elapsed.Seconds())
	if err != nil {
		m.slotErrors.WithLabelValues(op).Inc()
	}
}
