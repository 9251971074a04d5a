package metrics

import (
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsNoop(t *testing.T) {
	SetRecorder(nil)
	done := TimeCall("kb.read_concept")
	assert.NotPanics(t, func() { done(true) })
}

func TestTimeCallRecordsOutcome(t *testing.T) {
	reg := prom.NewRegistry()
	p, err := NewPromRecorder(reg)
	require.NoError(t, err)
	SetRecorder(p)
	t.Cleanup(func() { SetRecorder(nil) })

	TimeCall("search.query")(true)
	TimeCall("search.query")(false)
	TimeCall("search.query")(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(p.calls.WithLabelValues("search.query", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.calls.WithLabelValues("search.query", "false")))
	assert.Equal(t, 2, testutil.CollectAndCount(p.seconds))
}

func TestSearchQueryCounter(t *testing.T) {
	reg := prom.NewRegistry()
	p, err := NewPromRecorder(reg)
	require.NoError(t, err)

	p.IncSearchQuery("pubmed")
	p.IncSearchQuery("pubmed")
	assert.Equal(t, 2.0, testutil.ToFloat64(p.queries.WithLabelValues("pubmed")))
}

func TestNewPromRecorderDuplicateRegistration(t *testing.T) {
	reg := prom.NewRegistry()
	_, err := NewPromRecorder(reg)
	require.NoError(t, err)
	_, err = NewPromRecorder(reg)
	assert.Error(t, err)
}

func TestEnableRequiresAddress(t *testing.T) {
	_, err := Enable("")
	assert.Error(t, err)
}
