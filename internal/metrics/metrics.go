package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	LoginFailedAttemptsTotal    prometheus.Counter
	LoginLockoutsTotal          *prometheus.CounterVec
	LoginRejectedWhileLocked    prometheus.Counter
	LoginOutcomesTotal          *prometheus.CounterVec
	ClientStateCleanupRowsTotal prometheus.Counter
	ClientStateCleanupRunsTotal *prometheus.CounterVec
	ClientStateCleanupDuration  prometheus.Histogram
}

// New registers the gateway metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoginFailedAttemptsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ajustes_login_failed_attempts_total",
			Help: "Total number of rejected credentials counted by the login throttle",
		}),
		LoginLockoutsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ajustes_login_lockouts_total",
			Help: "Total number of login lockouts by source (local counter or server throttle)",
		}, []string{"source"}),
		LoginRejectedWhileLocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "ajustes_login_rejected_while_locked_total",
			Help: "Total number of login attempts refused locally during a lockout",
		}),
		LoginOutcomesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ajustes_login_outcomes_total",
			Help: "Total number of login submissions by outcome",
		}, []string{"outcome"}),
		ClientStateCleanupRowsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ajustes_client_state_cleanup_rows_total",
			Help: "Total number of stale client state rows removed",
		}),
		ClientStateCleanupRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ajustes_client_state_cleanup_runs_total",
			Help: "Total number of client state cleanup runs",
		}, []string{"status"}),
		ClientStateCleanupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name: "ajustes_client_state_cleanup_duration_seconds",
			Help: "Duration of client state cleanup runs in seconds",
		}),
	}
}

func (m *Metrics) IncrementFailedAttempts() {
	m.LoginFailedAttemptsTotal.Inc()
}

func (m *Metrics) IncrementLockouts(source string) {
	m.LoginLockoutsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) IncrementRejectedWhileLocked() {
	m.LoginRejectedWhileLocked.Inc()
}

func (m *Metrics) IncrementLoginOutcome(outcome string) {
	m.LoginOutcomesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementCleanupRows(count int64) {
	m.ClientStateCleanupRowsTotal.Add(float64(count))
}

func (m *Metrics) IncrementCleanupRuns(status string) {
	m.ClientStateCleanupRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveCleanupDuration(durationSeconds float64) {
	m.ClientStateCleanupDuration.Observe(durationSeconds)
}
