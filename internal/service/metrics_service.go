package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gymnexus/coach-api/internal/bodymetrics"
	"gymnexus/coach-api/internal/domain"
	"gymnexus/coach-api/internal/report"
	"gymnexus/coach-api/internal/repository"
	"gymnexus/coach-api/internal/telemetry"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetricInput is a submitted measurement form. Derived values (BMI, body fat)
// are not accepted from clients.
type MetricInput struct {
	Date         time.Time `json:"date"`
	Weight       *float64  `json:"weight"`
	Height       *float64  `json:"height"`
	Neck         *float64  `json:"neck"`
	Chest        *float64  `json:"chest"`
	Waist        *float64  `json:"waist"`
	Hips         *float64  `json:"hips"`
	Thighs       *float64  `json:"thighs"`
	Biceps       *float64  `json:"biceps"`
	BenchPressRM *float64  `json:"benchPressRm"`
	SitUpRM      *float64  `json:"sitUpRm"`
	DeadLiftRM   *float64  `json:"deadLiftRm"`
}

// DateLayout is the calendar-date form the measurement screen sends.
const DateLayout = "2006-01-02"

// UnmarshalJSON accepts the date either as a calendar date (stored as UTC
// midnight) or as an RFC3339 timestamp.
func (in *MetricInput) UnmarshalJSON(data []byte) error {
	type plain MetricInput
	aux := struct {
		*plain
		Date *string `json:"date"`
	}{plain: (*plain)(in)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	in.Date = time.Time{}
	if aux.Date == nil || *aux.Date == "" {
		return nil
	}
	date, err := parseMeasurementDate(*aux.Date)
	if err != nil {
		return err
	}
	in.Date = date
	return nil
}

func parseMeasurementDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is neither YYYY-MM-DD nor RFC3339", value)
	}
	return t.UTC(), nil
}

func (in MetricInput) fields() map[string]*float64 {
	return map[string]*float64{
		"weight":       in.Weight,
		"height":       in.Height,
		"neck":         in.Neck,
		"chest":        in.Chest,
		"waist":        in.Waist,
		"hips":         in.Hips,
		"thighs":       in.Thighs,
		"biceps":       in.Biceps,
		"benchPressRm": in.BenchPressRM,
		"sitUpRm":      in.SitUpRM,
		"deadLiftRm":   in.DeadLiftRM,
	}
}

// OneRepMaxEstimate is the result of the Brzycki calculator endpoint.
type OneRepMaxEstimate struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	OneRepMax float64 `json:"oneRepMax"`
}

type MetricsService interface {
	AddMetric(ctx context.Context, requesterID, userID primitive.ObjectID, in MetricInput) (*domain.MetricRecord, error)
	// ListMetrics returns the history oldest first.
	ListMetrics(ctx context.Context, requesterID, userID primitive.ObjectID) ([]domain.MetricRecord, error)
	DeleteMetric(ctx context.Context, requesterID, userID primitive.ObjectID, metricID string) error
	Summary(ctx context.Context, requesterID, userID primitive.ObjectID) (*bodymetrics.Summary, error)
	// ExportMetrics renders the history and summary as an XLSX workbook.
	ExportMetrics(ctx context.Context, requesterID, userID primitive.ObjectID) ([]byte, error)
	EstimateOneRepMax(weight float64, reps int) (*OneRepMaxEstimate, error)
}

type metricsService struct {
	userRepo repository.UserRepository
	metrics  *telemetry.Manager
}

func NewMetricsService(userRepo repository.UserRepository, metrics *telemetry.Manager) MetricsService {
	return &metricsService{
		userRepo: userRepo,
		metrics:  metrics,
	}
}

// AddMetric appends a record to the user's history with IMC and body fat
// computed from the raw measurements and the user's gender.
func (s *metricsService) AddMetric(ctx context.Context, requesterID, userID primitive.ObjectID, in MetricInput) (*domain.MetricRecord, error) {
	v := &validator{}
	if in.Date.IsZero() {
		v.add("date", "is required")
	}
	for field, value := range in.fields() {
		if value != nil && *value < 0 {
			v.add(field, "must not be negative")
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := loadAccessible(ctx, s.userRepo, requesterID, userID); err != nil {
		return nil, err
	}

	var added domain.MetricRecord
	_, err := s.userRepo.Update(ctx, userID, func(u *domain.User) error {
		record := domain.MetricRecord{
			ID:           uuid.NewString(),
			Date:         in.Date.UTC(),
			Weight:       in.Weight,
			Height:       in.Height,
			Neck:         in.Neck,
			Chest:        in.Chest,
			Waist:        in.Waist,
			Hips:         in.Hips,
			Thighs:       in.Thighs,
			Biceps:       in.Biceps,
			BenchPressRM: in.BenchPressRM,
			SitUpRM:      in.SitUpRM,
			DeadLiftRM:   in.DeadLiftRM,
		}
		added = bodymetrics.Derive(record, u.BiologicalGender)
		u.Metrics = append(u.Metrics, added)
		return nil
	})
	if err != nil {
		return nil, userErr(err)
	}
	s.metrics.CounterMetricRecords.WithLabelValues(telemetry.ActionCreate).Inc()
	return &added, nil
}

func (s *metricsService) ListMetrics(ctx context.Context, requesterID, userID primitive.ObjectID) ([]domain.MetricRecord, error) {
	user, err := loadAccessible(ctx, s.userRepo, requesterID, userID)
	if err != nil {
		return nil, err
	}
	return bodymetrics.SortByDate(user.Metrics, true), nil
}

func (s *metricsService) DeleteMetric(ctx context.Context, requesterID, userID primitive.ObjectID, metricID string) error {
	if _, err := loadAccessible(ctx, s.userRepo, requesterID, userID); err != nil {
		return err
	}

	_, err := s.userRepo.Update(ctx, userID, func(u *domain.User) error {
		i := domain.FindMetric(u.Metrics, metricID)
		if i < 0 {
			return domain.ErrMetricNotFound
		}
		u.Metrics = append(u.Metrics[:i], u.Metrics[i+1:]...)
		return nil
	})
	if err != nil {
		return userErr(err)
	}
	s.metrics.CounterMetricRecords.WithLabelValues(telemetry.ActionDelete).Inc()
	return nil
}

func (s *metricsService) Summary(ctx context.Context, requesterID, userID primitive.ObjectID) (*bodymetrics.Summary, error) {
	user, err := loadAccessible(ctx, s.userRepo, requesterID, userID)
	if err != nil {
		return nil, err
	}
	summary := bodymetrics.Summarize(user.Metrics, user.BiologicalGender)
	return &summary, nil
}

func (s *metricsService) ExportMetrics(ctx context.Context, requesterID, userID primitive.ObjectID) ([]byte, error) {
	user, err := loadAccessible(ctx, s.userRepo, requesterID, userID)
	if err != nil {
		return nil, err
	}
	data, err := report.MetricsWorkbook(user, user.Metrics)
	if err != nil {
		return nil, err
	}
	s.metrics.CounterExports.Inc()
	return data, nil
}

func (s *metricsService) EstimateOneRepMax(weight float64, reps int) (*OneRepMaxEstimate, error) {
	orm, ok := bodymetrics.OneRepMax(weight, reps)
	if !ok {
		return nil, domain.NewValidationError("reps", "weight must be positive and reps between 1 and 36")
	}
	return &OneRepMaxEstimate{Weight: weight, Reps: reps, OneRepMax: orm}, nil
}
