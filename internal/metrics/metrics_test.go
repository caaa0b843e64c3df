package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementFailedAttempts()
	m.IncrementFailedAttempts()
	m.IncrementLockouts("local")
	m.IncrementLockouts("server")
	m.IncrementLockouts("server")
	m.IncrementRejectedWhileLocked()
	m.IncrementLoginOutcome("invalid_credentials")
	m.IncrementCleanupRows(7)
	m.IncrementCleanupRuns("success")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginFailedAttemptsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginLockoutsTotal.WithLabelValues("local")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginLockoutsTotal.WithLabelValues("server")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginRejectedWhileLocked))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginOutcomesTotal.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.ClientStateCleanupRowsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClientStateCleanupRunsTotal.WithLabelValues("success")))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
