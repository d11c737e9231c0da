package domain

import "time"

// MetricRecord is one body measurement entry of a user. Only Date is
// mandatory. IMC (BMI) and BodyFatPercentage are derived from the raw
// measurements and never taken from client input.
type MetricRecord struct {
	ID                string    `bson:"id" json:"id"`
	Date              time.Time `bson:"date" json:"date"`
	Weight            *float64  `bson:"weight,omitempty" json:"weight,omitempty"`
	Height            *float64  `bson:"height,omitempty" json:"height,omitempty"`
	Neck              *float64  `bson:"neck,omitempty" json:"neck,omitempty"`
	Chest             *float64  `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist             *float64  `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips              *float64  `bson:"hips,omitempty" json:"hips,omitempty"`
	Thighs            *float64  `bson:"thighs,omitempty" json:"thighs,omitempty"`
	Biceps            *float64  `bson:"biceps,omitempty" json:"biceps,omitempty"`
	IMC               *float64  `bson:"imc,omitempty" json:"imc,omitempty"`
	BodyFatPercentage *float64  `bson:"bodyFatPercentage,omitempty" json:"bodyFatPercentage,omitempty"`
	BenchPressRM      *float64  `bson:"benchPressRm,omitempty" json:"benchPressRm,omitempty"`
	SitUpRM           *float64  `bson:"sitUpRm,omitempty" json:"sitUpRm,omitempty"`
	DeadLiftRM        *float64  `bson:"deadLiftRm,omitempty" json:"deadLiftRm,omitempty"`
}

// FindMetric returns the index of the record with the given id, or -1.
func FindMetric(records []MetricRecord, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}
