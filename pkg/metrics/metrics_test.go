package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveTransitionAndConflict(t *testing.T) {
	m := NewWithRegisterer("room-booking", prometheus.NewRegistry())

	m.ObserveTransition("approved", "success")
	m.ObserveTransition("approved", "success")
	m.ObserveConflict("approve")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingTransitionsTotal.WithLabelValues("room-booking", "approved", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingConflictsTotal.WithLabelValues("room-booking", "approve")))
}
