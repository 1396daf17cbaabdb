package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_RegistersCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) }, "registering twice should fail")
}

func TestRecordRequest(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	m.RecordRequest("GET", "/users/:id", 200, 15*time.Millisecond)
	m.RecordRequest("GET", "/users/:id", 200, 5*time.Millisecond)
	m.RecordRequest("POST", "/users", 400, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestTotal.WithLabelValues("GET", "/users/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestTotal.WithLabelValues("POST", "/users", "400")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestTotal))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestRecordRequest_UnmatchedRoute(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	m.RecordRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestTotal.WithLabelValues("GET", "unmatched", "404")))
}
