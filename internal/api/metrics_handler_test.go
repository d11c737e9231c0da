package api

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"gymnexus/coach-api/internal/bodymetrics"
	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/report"
	"gymnexus/coach-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func f64(v float64) *float64 { return &v }

func (s *testServer) addMetric(t *testing.T, who session, userID string, in service.MetricInput) domain.MetricRecord {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/users/"+userID+"/metrics", who.Token, in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.MetricRecord](t, w)
}

func TestMetricsLifecycle(t *testing.T) {
	s := newTestServer(t)
	coach := s.coach(t)
	athlete := s.athlete(t, coach)
	base := "/api/v1/users/" + athlete.ID + "/metrics"

	first := s.addMetric(t, coach, athlete.ID, service.MetricInput{
		Date:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Weight: f64(82),
		Height: f64(180),
		Neck:   f64(38),
		Waist:  f64(88),
	})
	assert.NotEmpty(t, first.ID)
	assert.NotNil(t, first.IMC)
	assert.NotNil(t, first.BodyFatPercentage)

	second := s.addMetric(t, athlete, athlete.ID, service.MetricInput{
		Date:   time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		Weight: f64(80),
		Height: f64(180),
	})

	w := s.do(t, http.MethodGet, base, athlete.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	records := decode[[]domain.MetricRecord](t, w)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)

	w = s.do(t, http.MethodGet, base+"/summary", coach.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[bodymetrics.Summary](t, w)
	assert.Equal(t, 2, summary.RecordCount)
	require.NotNil(t, summary.Latest)
	assert.Equal(t, second.ID, summary.Latest.ID)
	require.NotNil(t, summary.WeightChange)
	assert.Equal(t, "-2.0", *summary.WeightChange)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, base+"/"+second.ID, coach.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, base+"/"+second.ID, coach.Token, nil).Code)
}

func TestAddMetric_Validation(t *testing.T) {
	s := newTestServer(t)
	coach := s.coach(t)
	athlete := s.athlete(t, coach)

	w := s.do(t, http.MethodPost, "/api/v1/users/"+athlete.ID+"/metrics", coach.Token, service.MetricInput{Weight: f64(80)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/users/"+athlete.ID+"/metrics", coach.Token, service.MetricInput{
		Date:   time.Now(),
		Weight: f64(-1),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddMetric_CalendarDate(t *testing.T) {
	s := newTestServer(t)
	coach := s.coach(t)
	athlete := s.athlete(t, coach)
	path := "/api/v1/users/" + athlete.ID + "/metrics"

	w := s.do(t, http.MethodPost, path, athlete.Token, map[string]any{"date": "2024-05-01", "weight": 80, "height": 180})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	record := decode[domain.MetricRecord](t, w)
	assert.True(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Equal(record.Date), "got %s", record.Date)
	require.NotNil(t, record.IMC)
	assert.InDelta(t, 24.7, *record.IMC, 0.001)

	w = s.do(t, http.MethodPost, path, athlete.Token, map[string]any{"date": "05/01/2024", "weight": 80})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddMetric_ForeignCoach(t *testing.T) {
	s := newTestServer(t)
	coach := s.coach(t)
	athlete := s.athlete(t, coach)
	other := s.coach(t)

	w := s.do(t, http.MethodPost, "/api/v1/users/"+athlete.ID+"/metrics", other.Token, service.MetricInput{Date: time.Now()})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExportMetrics(t *testing.T) {
	s := newTestServer(t)
	coach := s.coach(t)
	athlete := s.athlete(t, coach)
	s.addMetric(t, coach, athlete.ID, service.MetricInput{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Weight: f64(75)})

	w := s.do(t, http.MethodGet, "/api/v1/users/"+athlete.ID+"/metrics/export", coach.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, report.XLSXContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(report.SheetMetrics)
	require.NoError(t, err)
	assert.Len(t, rows, 2) // header and one record
}

func TestOneRepMax(t *testing.T) {
	s := newTestServer(t)
	coach := s.coach(t)

	w := s.do(t, http.MethodGet, "/api/v1/tools/one-rep-max?weight=100&reps=5", coach.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	est := decode[service.OneRepMaxEstimate](t, w)
	assert.InDelta(t, 112.5, est.OneRepMax, 0.001)

	w = s.do(t, http.MethodGet, "/api/v1/tools/one-rep-max?weight=100&reps=40", coach.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/tools/one-rep-max?weight=abc&reps=5", coach.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
