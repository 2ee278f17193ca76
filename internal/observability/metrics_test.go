package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHelpers_NoopWithoutMetrics(t *testing.T) {
	GlobalMetrics = nil

	assert.NotPanics(t, func() {
		CacheHit("login_user_request")
		CacheMiss("login_user_request")
		LoginAttempt("success")
		Logout()
		MessagePublished("login_log_queue")
		MessageConsumed("login_log_queue")
		LoginLogFailed("insert_error")
	})
}

func TestHelpers_RecordOnGlobalMetrics(t *testing.T) {
	InitMetrics()
	defer func() { GlobalMetrics = nil }()

	CacheHit("login_user_session")
	CacheHit("login_user_session")
	CacheMiss("login_user_session")
	LoginAttempt("failure")
	Logout()

	assert.Equal(t, 2.0, testutil.ToFloat64(GlobalMetrics.CacheHitsTotal.WithLabelValues("login_user_session")))
	assert.Equal(t, 1.0, testutil.ToFloat64(GlobalMetrics.CacheMissesTotal.WithLabelValues("login_user_session")))
	assert.Equal(t, 1.0, testutil.ToFloat64(GlobalMetrics.LoginAttemptsTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(GlobalMetrics.LogoutsTotal))
}
