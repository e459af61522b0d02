package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/aeroindex/aeroindex/internal/tables"
	"github.com/aeroindex/aeroindex/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testStore() *tables.Store {
	return tables.New(
		[]schema.Category{{Name: "A", Options: []schema.Option{{Label: "Low", Score: 1}, {Label: "High", Score: 5}}}},
		schema.AdjustmentTable{schema.IFRBaseline: {"A": {1: {Value: 10}, 5: {Value: 50}}}},
		nil,
	)
}

type testServer struct {
	router  http.Handler
	metrics *Metrics
}

func newTestServer(t *testing.T, load tables.Loader) testServer {
	t.Helper()
	if load == nil {
		load = func(context.Context) (*tables.Store, error) { return testStore(), nil }
	}
	m := NewMetrics()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &contract.Config{Precision: 2}
	return testServer{router: NewRouter(tables.NewCache(load), cfg, m, logger), metrics: m}
}

func (s testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"identifier":"EGXX","answers":{"A":"High"},"ifr_movements":10000,"vfr_movements":0}`

func TestQuestionnaire(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(http.MethodGet, "/api/v1/questionnaire", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Categories []schema.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, "A", resp.Categories[0].Name)
}

func TestAssess(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(http.MethodPost, "/api/v1/assessments", validBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result schema.AssessmentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "EGXX", result.Identifier)
	assert.NotEmpty(t, result.AssessmentID)
	assert.Equal(t, 7, result.SelectedIndex)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Assessments.WithLabelValues(outcomeOK)))
}

func TestAssessErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		contains string
	}{
		{"malformed body", `{"answers":`, http.StatusBadRequest, "invalid request body"},
		{"unknown field", `{"answers":{"A":"High"},"colour":"red"}`, http.StatusBadRequest, "invalid request body"},
		{"no answers", `{"identifier":"x"}`, http.StatusBadRequest, "answers required"},
		{"negative movements", `{"answers":{"A":"High"},"vfr_movements":-3}`, http.StatusBadRequest, "vfr-movements"},
		{"bad aerodrome type", `{"answers":{"A":"High"},"aerodrome_type":"Tower"}`, http.StatusBadRequest, "invalid aerodrome type"},
		{"unknown label", `{"answers":{"A":"Medium"}}`, http.StatusUnprocessableEntity, "unknown option"},
		{"unknown category", `{"answers":{"A":"High","B":"x"}}`, http.StatusUnprocessableEntity, "unknown category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			rec := s.do(http.MethodPost, "/api/v1/assessments", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
			assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Assessments.WithLabelValues(outcomeRejected)))
		})
	}
}

func TestAssessTablesUnavailable(t *testing.T) {
	s := newTestServer(t, func(context.Context) (*tables.Store, error) {
		return nil, &tables.ConfigurationError{Source: "scores.yaml", Err: errors.New("missing")}
	})
	rec := s.do(http.MethodPost, "/api/v1/assessments", validBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "scores.yaml")
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Assessments.WithLabelValues(outcomeFailed)))

	rec = s.do(http.MethodGet, "/api/v1/questionnaire", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/api/v1/assessments/export", validBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Equal(t, `attachment; filename="aerodrome_assessment_EGXX.xlsx"`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	v, err := f.GetCellValue(schema.WeightedResultsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "7", v)

	rec = s.do(http.MethodPost, "/api/v1/assessments/export?format=csv", validBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Weighted Results\nAerodrome Type,Weighted Index\nUnattended,7\n")

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Exports.WithLabelValues("xlsx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Exports.WithLabelValues("csv")))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(http.MethodPost, "/api/v1/assessments/export?format=pdf", validBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported export format")
}

func TestReloadTables(t *testing.T) {
	var calls atomic.Int32
	s := newTestServer(t, func(context.Context) (*tables.Store, error) {
		if calls.Add(1) > 2 {
			return nil, errors.New("gone")
		}
		return testStore(), nil
	})

	rec := s.do(http.MethodPost, "/api/v1/tables/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":1,"options":2,"rules":2}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/questionnaire", "")
	require.Equal(t, http.StatusOK, rec.Code, "served from the reloaded cache")

	rec = s.do(http.MethodPost, "/api/v1/tables/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodPost, "/api/v1/tables/reload", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/assessments", validBody)
	assert.Equal(t, http.StatusOK, rec.Code, "a failed reload keeps the previous tables")

	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.TableReloads.WithLabelValues(outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.TableReloads.WithLabelValues(outcomeFailed)))
}

func TestMetricsRouter(t *testing.T) {
	m := NewMetrics()
	m.Assessments.WithLabelValues(outcomeOK).Inc()
	r := NewMetricsRouter(m)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `aeroindex_assessments_total{outcome="ok"} 1`)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, "/x", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "debug", "json").Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	NewLogger(&buf, "warn", "text").Info("quiet")
	assert.Empty(t, buf.String())

	buf.Reset()
	NewLogger(&buf, "bogus", "text").Info("fallback")
	assert.Contains(t, buf.String(), "msg=fallback")
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, &contract.Config{}, tables.NewCache(func(context.Context) (*tables.Store, error) {
			return testStore(), nil
		}), slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
