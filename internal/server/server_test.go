package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/macrolens/internal/config"
	"github.com/sartorproj/macrolens/internal/dashboard"
	"github.com/sartorproj/macrolens/timeseries"
)

type mapLoader map[string]*timeseries.Series

func (m mapLoader) Load(id string) (*timeseries.Series, error) {
	s, ok := m[id]
	if !ok {
		return nil, &timeseries.NotFoundError{Source: id}
	}
	return s, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.Mode = "test"

	start := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	values := func(f func(i int) float64) []float64 {
		out := make([]float64, 72)
		for i := range out {
			out[i] = f(i)
		}
		return out
	}
	ids := []string{cfg.Indicators.CPI, cfg.Indicators.PCE, cfg.Indicators.Savings,
		cfg.Indicators.Credit, cfg.Indicators.Unemployment, cfg.Indicators.Interest}
	for _, comp := range cfg.Indicators.Components {
		ids = append(ids, comp.ID)
	}
	loader := mapLoader{}
	for k, id := range ids {
		g := 1 + 0.001*float64(k+1)
		loader[id] = timeseries.FromValues(id, start, values(func(i int) float64 {
			return 100*math.Pow(g, float64(i)) + float64(i%3)
		}))
	}

	log, _ := test.NewNullLogger()
	dash, err := dashboard.New(cfg, loader, log)
	require.NoError(t, err)
	s, err := New(cfg.Server, dash, log)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestListCharts(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/charts")
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []chartSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 7)
	assert.Equal(t, "overview", summaries[0].ID)
	assert.Equal(t, "components", summaries[6].ID)
}

func TestGetChart(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/charts/inflation")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ID     string                   `json:"id"`
		Wide   []map[string]interface{} `json:"wide"`
		Events []map[string]string      `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "inflation", body.ID)
	require.NotEmpty(t, body.Wide)
	assert.Equal(t, "2019-08-01", body.Wide[0]["DATE"])
	assert.Nil(t, body.Wide[0]["YoY"], "absent values are null")
	assert.Len(t, body.Events, 6)
}

func TestGetChartCSV(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/charts/savings?format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "DATE,Savings,Savings_12M\n"))

	rec = get(t, s, "/api/charts/savings?format=xml")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetChartNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/charts/gdp")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "chart:gdp")
}

func TestEvents(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/events")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["pandemic","war"]`, rec.Body.String())

	rec = get(t, s, "/api/events/war")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"Event":"Russia Ukraine War","Date":"2022-02-24"}]`, rec.Body.String())

	rec = get(t, s, "/api/events/recession")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"charts":7`)

	get(t, s, "/api/charts/overview")
	get(t, s, "/api/charts/missing")

	rec = get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `macrolens_charts_served_total{chart="overview",format="json"} 1`)
	assert.Contains(t, body, `macrolens_api_errors_total{endpoint="/api/charts/:id",error_type="client_error"} 1`)
	assert.Contains(t, body, `macrolens_http_requests_total{endpoint="/health",method="GET",status="200"} 1`)
}
