package session

import "math"

// BMI category labels shown on the profile screen and in exported reports.
const (
	BMIUnderweight = "Underweight"
	BMINormal      = "Normal / Healthy"
	BMIOverweight  = "Overweight"
)

// ComputeBMI returns weight/(height/100)² rounded to one decimal place.
// It reports false when either input is not a positive number, in which case
// the BMI is undefined and must not be displayed.
func ComputeBMI(weightKg, heightCm float64) (float64, bool) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, false
	}
	m := heightCm / 100
	v := weightKg / (m * m)
	return math.Round(v*10) / 10, true
}

// ClassifyBMI maps a BMI value to its category. Boundaries are exact:
// 18.5 and 24.9 both classify as normal.
func ClassifyBMI(v float64) string {
	switch {
	case v < 18.5:
		return BMIUnderweight
	case v <= 24.9:
		return BMINormal
	default:
		return BMIOverweight
	}
}
