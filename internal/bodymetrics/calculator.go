// Package bodymetrics computes derived body-composition figures (BMI, body fat,
// one-rep max) from raw measurements. Every function here is pure.
package bodymetrics

import (
	"math"
	"strconv"

	"gymnexus/coach-api/internal/domain"
)

// BMICategory buckets a BMI value.
type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
	BMIUnknown     BMICategory = "Unknown"
)

// BodyFatCategory buckets a body fat percentage for a given gender.
type BodyFatCategory string

const (
	BodyFatEssential BodyFatCategory = "Essential Fat"
	BodyFatAthletic  BodyFatCategory = "Athletic"
	BodyFatFitness   BodyFatCategory = "Fitness"
	BodyFatAverage   BodyFatCategory = "Average"
	BodyFatObese     BodyFatCategory = "Obese"
	BodyFatUnknown   BodyFatCategory = "Unknown"
)

// brzyckiLimit is the rep count at which the Brzycki denominator reaches zero.
const brzyckiLimit = 37

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// BMI returns weight / height(m)^2 rounded to one decimal.
// ok is false when either input is missing (zero) or negative.
func BMI(heightCm, weightKg float64) (float64, bool) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, false
	}
	h := heightCm / 100.0
	return round1(weightKg / (h * h)), true
}

// BodyFatPercentage estimates body fat with the U.S. Navy circumference method.
// hipsCm is only used (and required) for domain.GenderFemale. The result is
// not clamped: implausible proportions can give a negative percentage, which
// CategorizeBodyFat reports as essential fat.
func BodyFatPercentage(gender domain.Gender, neckCm, waistCm, hipsCm, heightCm float64) (float64, bool) {
	if neckCm <= 0 || waistCm <= 0 || heightCm <= 0 {
		return 0, false
	}

	var denom float64
	switch gender {
	case domain.GenderMale:
		circ := waistCm - neckCm
		if circ <= 0 {
			return 0, false
		}
		denom = 1.0324 - 0.19077*math.Log10(circ) + 0.15456*math.Log10(heightCm)
	case domain.GenderFemale:
		if hipsCm <= 0 {
			return 0, false
		}
		circ := waistCm + hipsCm - neckCm
		if circ <= 0 {
			return 0, false
		}
		denom = 1.29579 - 0.35004*math.Log10(circ) + 0.221*math.Log10(heightCm)
	default:
		return 0, false
	}

	if denom <= 0 {
		return 0, false
	}
	result := 495/denom - 450
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, false
	}
	return round1(result), true
}

// CategorizeBMI maps a BMI to its category. ok mirrors the result of BMI.
func CategorizeBMI(bmi float64, ok bool) BMICategory {
	if !ok {
		return BMIUnknown
	}
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// CategorizeBodyFat maps a body fat percentage to its category using
// gender-specific thresholds.
func CategorizeBodyFat(pct float64, ok bool, gender domain.Gender) BodyFatCategory {
	if !ok {
		return BodyFatUnknown
	}

	var thresholds [4]float64
	switch gender {
	case domain.GenderMale:
		thresholds = [4]float64{6, 14, 18, 25}
	case domain.GenderFemale:
		thresholds = [4]float64{13, 21, 25, 32}
	default:
		return BodyFatUnknown
	}

	switch {
	case pct < thresholds[0]:
		return BodyFatEssential
	case pct < thresholds[1]:
		return BodyFatAthletic
	case pct < thresholds[2]:
		return BodyFatFitness
	case pct < thresholds[3]:
		return BodyFatAverage
	default:
		return BodyFatObese
	}
}

// OneRepMax estimates a one-repetition maximum with the Brzycki formula.
// The formula is undefined from 37 reps upwards.
func OneRepMax(weightKg float64, reps int) (float64, bool) {
	if weightKg <= 0 || reps <= 0 || reps >= brzyckiLimit {
		return 0, false
	}
	return round1(weightKg * 36 / float64(brzyckiLimit-reps)), true
}

// MetricChange formats current-previous with an explicit "+" for gains,
// e.g. "+1.5", "-2.0" or "0.0".
func MetricChange(current, previous *float64) (string, bool) {
	if current == nil || previous == nil {
		return "", false
	}
	diff := *current - *previous
	sign := ""
	if diff > 0 {
		sign = "+"
	}
	return sign + strconv.FormatFloat(diff, 'f', 1, 64), true
}
