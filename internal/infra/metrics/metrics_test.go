package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCompaction(t *testing.T) {
	beforeRuns := testutil.ToFloat64(CompactionRuns.WithLabelValues("succeeded"))
	beforeRows := testutil.ToFloat64(CompactionRows)

	ObserveCompaction("succeeded", 3, time.Now())
	ObserveCompaction("empty", 0, time.Now())

	assert.Equal(t, beforeRuns+1, testutil.ToFloat64(CompactionRuns.WithLabelValues("succeeded")))
	assert.Equal(t, beforeRows+3, testutil.ToFloat64(CompactionRows))
}

func TestObserveNetworkRequestDefaults(t *testing.T) {
	before := testutil.ToFloat64(NetworkRequestTotal.WithLabelValues("unknown", "unknown", "unknown", "error"))
	ObserveNetworkRequest("", "", "", time.Now(), errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(NetworkRequestTotal.WithLabelValues("unknown", "unknown", "unknown", "error")))
}

func TestMustRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { MustRegister(reg) })
}
