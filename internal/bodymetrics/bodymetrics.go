// Package bodymetrics turns the settings screen's text inputs into BMI and
// an estimated body-fat percentage.
package bodymetrics

import (
	"fmt"
	"strconv"
	"strings"
)

// Sex selects the sex term of the body-fat estimate
type Sex int

const (
	SexMale Sex = iota
	SexFemale
)

func (s Sex) String() string {
	if s == SexFemale {
		return "Female"
	}
	return "Male"
}

// Body-fat display bounds
const (
	MinBodyFatDisplay = 0.0
	MaxBodyFatDisplay = 60.0
)

// Input is the raw text the user typed
type Input struct {
	HeightCm string
	WeightKg string
	Age      string
	Sex      Sex
}

// Result holds whatever could be derived from an Input
type Result struct {
	HasBMI         bool
	BMI            float64
	HasBodyFat     bool
	BodyFatPercent float64 // Raw estimate, not clamped
}

// ParsePositiveFloat parses trimmed text, treating zero, negatives and garbage as absent
func ParsePositiveFloat(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// ParsePositiveInt parses trimmed text, treating zero, negatives and garbage as absent
func ParsePositiveInt(text string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// BMI is weight in kilograms over height in metres squared
func BMI(heightCm, weightKg float64) float64 {
	h := heightCm / 100
	return weightKg / (h * h)
}

// BodyFatPercent is the Deurenberg estimate 1.20*BMI + 0.23*age - 10.8*sex - 5.4,
// with sex 1 for male and 0 for female
func BodyFatPercent(bmi float64, age int, sex Sex) float64 {
	sexTerm := 0.0
	if sex == SexMale {
		sexTerm = 1
	}
	return 1.20*bmi + 0.23*float64(age) - 10.8*sexTerm - 5.4
}

// Compute derives BMI when height and weight parse, and body fat when BMI and age do
func Compute(in Input) Result {
	var r Result
	height, okH := ParsePositiveFloat(in.HeightCm)
	weight, okW := ParsePositiveFloat(in.WeightKg)
	if !okH || !okW {
		return r
	}
	r.HasBMI = true
	r.BMI = BMI(height, weight)

	age, okA := ParsePositiveInt(in.Age)
	if !okA {
		return r
	}
	r.HasBodyFat = true
	r.BodyFatPercent = BodyFatPercent(r.BMI, age, in.Sex)
	return r
}

// BMIText renders the BMI with one decimal, or "--"
func (r Result) BMIText() string {
	if !r.HasBMI {
		return "--"
	}
	return fmt.Sprintf("%.1f", r.BMI)
}

// BodyFatText renders the estimate clamped to the display bounds, or "--"
func (r Result) BodyFatText() string {
	if !r.HasBodyFat {
		return "--"
	}
	v := r.BodyFatPercent
	if v < MinBodyFatDisplay {
		v = MinBodyFatDisplay
	} else if v > MaxBodyFatDisplay {
		v = MaxBodyFatDisplay
	}
	return fmt.Sprintf("%.1f%%", v)
}
