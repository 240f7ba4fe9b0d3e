package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.SensorValue.WithLabelValues("hsc345", "mq2").Set(812.5)
	m.Evaluations.WithLabelValues("mq2", "DANGER").Inc()
	m.ChatQuestions.WithLabelValues("smoke").Add(2)

	assert.Equal(t, 812.5, testutil.ToFloat64(m.SensorValue.WithLabelValues("hsc345", "mq2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("mq2", "DANGER")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChatQuestions.WithLabelValues("smoke")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.Viewers.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pengawas_viewers 3")
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Viewers.Set(5)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.Viewers))
}
