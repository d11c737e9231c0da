package bodymetrics

import (
	"sort"

	"gymnexus/coach-api/internal/domain"
)

// ProgressStatus tells whether a metric moved in the desired direction.
type ProgressStatus string

const (
	ProgressImproved  ProgressStatus = "improved"
	ProgressDeclined  ProgressStatus = "declined"
	ProgressUnchanged ProgressStatus = "unchanged"
)

// SortByDate returns a copy of records ordered by Date. The sort is stable, so
// records sharing a date keep their original relative order in both directions.
func SortByDate(records []domain.MetricRecord, ascending bool) []domain.MetricRecord {
	sorted := make([]domain.MetricRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}

// MostRecent returns the record with the latest Date. When several records
// share that date the one appearing first in records wins.
func MostRecent(records []domain.MetricRecord) (domain.MetricRecord, bool) {
	if len(records) == 0 {
		return domain.MetricRecord{}, false
	}
	best := 0
	for i := 1; i < len(records); i++ {
		if records[i].Date.After(records[best].Date) {
			best = i
		}
	}
	return records[best], true
}

// Progress compares two values. A missing value counts as unchanged.
func Progress(current, previous *float64, higherIsBetter bool) ProgressStatus {
	if current == nil || previous == nil {
		return ProgressUnchanged
	}
	diff := *current - *previous
	switch {
	case diff == 0:
		return ProgressUnchanged
	case (diff > 0) == higherIsBetter:
		return ProgressImproved
	default:
		return ProgressDeclined
	}
}

// Derive recomputes IMC and BodyFatPercentage of r from its raw measurements.
// Fields whose inputs are missing are cleared.
func Derive(r domain.MetricRecord, gender domain.Gender) domain.MetricRecord {
	r.IMC = nil
	r.BodyFatPercentage = nil

	if bmi, ok := BMI(value(r.Height), value(r.Weight)); ok {
		r.IMC = &bmi
	}
	if bf, ok := BodyFatPercentage(gender, value(r.Neck), value(r.Waist), value(r.Hips), value(r.Height)); ok {
		r.BodyFatPercentage = &bf
	}
	return r
}

// Summary is the dashboard view of a metric history.
type Summary struct {
	Latest          *domain.MetricRecord `json:"latest,omitempty"`
	Previous        *domain.MetricRecord `json:"previous,omitempty"`
	RecordCount     int                  `json:"recordCount"`
	BMICategory     BMICategory          `json:"bmiCategory"`
	BodyFatCategory BodyFatCategory      `json:"bodyFatCategory"`
	WeightChange    *string              `json:"weightChange,omitempty"`
	BMIChange       *string              `json:"bmiChange,omitempty"`
	BodyFatChange   *string              `json:"bodyFatChange,omitempty"`
	WeightProgress  ProgressStatus       `json:"weightProgress"`
	BodyFatProgress ProgressStatus       `json:"bodyFatProgress"`
}

// Summarize builds a Summary: latest record, categories and changes against
// the record just before it. Losing weight and body fat counts as improvement.
func Summarize(records []domain.MetricRecord, gender domain.Gender) Summary {
	s := Summary{
		RecordCount:     len(records),
		BMICategory:     BMIUnknown,
		BodyFatCategory: BodyFatUnknown,
		WeightProgress:  ProgressUnchanged,
		BodyFatProgress: ProgressUnchanged,
	}
	if len(records) == 0 {
		return s
	}

	sorted := SortByDate(records, false)
	latest := sorted[0]
	s.Latest = &latest
	s.BMICategory = CategorizeBMI(value(latest.IMC), latest.IMC != nil)
	s.BodyFatCategory = CategorizeBodyFat(value(latest.BodyFatPercentage), latest.BodyFatPercentage != nil, gender)

	if len(sorted) < 2 {
		return s
	}
	previous := sorted[1]
	s.Previous = &previous
	s.WeightChange = change(latest.Weight, previous.Weight)
	s.BMIChange = change(latest.IMC, previous.IMC)
	s.BodyFatChange = change(latest.BodyFatPercentage, previous.BodyFatPercentage)
	s.WeightProgress = Progress(latest.Weight, previous.Weight, false)
	s.BodyFatProgress = Progress(latest.BodyFatPercentage, previous.BodyFatPercentage, false)
	return s
}

func change(current, previous *float64) *string {
	c, ok := MetricChange(current, previous)
	if !ok {
		return nil
	}
	return &c
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
