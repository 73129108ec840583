package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/metrics", m.Handler())
	r.GET("/api/things/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/things/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/things/2", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	m.CorpusRecords.WithLabelValues("cases").Set(3)
	m.CorpusSkippedTotal.Add(2)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, `lexalign_http_requests_total{method="GET",path="/api/things/:id",status_code="200"} 2`)
	assert.Contains(t, text, `lexalign_http_requests_total{method="GET",path="unmatched",status_code="404"} 1`)
	assert.Contains(t, text, `lexalign_corpus_records{kind="cases"} 3`)
	assert.Contains(t, text, `lexalign_corpus_skipped_records_total 2`)
}

func TestRecorders_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCorpusLoad(CorpusLoad{Cases: 1})
		m.RecordGap("safety_risk")
		m.RecordValidationIssues(2)
	})
}

func TestRecordCorpusLoad(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordCorpusLoad(CorpusLoad{Cases: 4, Sections: 9, Precedents: 3, Skipped: 1})
	m.RecordCorpusLoad(CorpusLoad{Err: assert.AnError})

	r := gin.New()
	r.GET("/metrics", m.Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	text := w.Body.String()
	assert.Contains(t, text, `lexalign_corpus_records{kind="cases"} 4`)
	assert.Contains(t, text, `lexalign_corpus_records{kind="sections"} 9`)
	assert.Contains(t, text, `lexalign_corpus_loads_total{status="error"} 1`)
	assert.Contains(t, text, `lexalign_corpus_loads_total{status="success"} 1`)
	assert.Contains(t, text, `lexalign_corpus_skipped_records_total 1`)
}
