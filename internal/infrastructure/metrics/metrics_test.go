package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCounter(reg)

	c.WithLabelValues("bookmark_created_total").Inc()
	c.WithLabelValues("bookmark_created_total").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.WithLabelValues("bookmark_created_total")))

	n, err := testutil.GatherAndCount(reg, Namespace+"_general_counters")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewRequestDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewRequestDuration(reg)
	h.WithLabelValues("GET", "/health", "200").Observe(0.01)

	n, err := testutil.GatherAndCount(reg, Namespace+"_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
