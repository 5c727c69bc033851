package bodymetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePositiveFloat(t *testing.T) {
	v, ok := ParsePositiveFloat(" 180.5 ")
	assert.True(t, ok)
	assert.InDelta(t, 180.5, v, 1e-9)

	for _, s := range []string{"", "0", "-12", "tall", "1,80"} {
		_, ok := ParsePositiveFloat(s)
		assert.False(t, ok, "input %q", s)
	}
}

func TestParsePositiveInt(t *testing.T) {
	v, ok := ParsePositiveInt("30")
	assert.True(t, ok)
	assert.Equal(t, 30, v)

	for _, s := range []string{"", "0", "-1", "30.5", "thirty"} {
		_, ok := ParsePositiveInt(s)
		assert.False(t, ok, "input %q", s)
	}
}

func TestCompute_Full(t *testing.T) {
	r := Compute(Input{HeightCm: "180", WeightKg: "81", Age: "30", Sex: SexMale})
	assert.True(t, r.HasBMI)
	assert.InDelta(t, 25.0, r.BMI, 1e-9)
	assert.Equal(t, "25.0", r.BMIText())

	// 1.2*25 + 0.23*30 - 10.8 - 5.4 = 20.7
	assert.True(t, r.HasBodyFat)
	assert.InDelta(t, 20.7, r.BodyFatPercent, 1e-9)
	assert.Equal(t, "20.7%", r.BodyFatText())
}

func TestCompute_Female(t *testing.T) {
	r := Compute(Input{HeightCm: "160", WeightKg: "64", Age: "40", Sex: SexFemale})
	// BMI 25; 30 + 9.2 - 5.4 = 33.8
	assert.InDelta(t, 33.8, r.BodyFatPercent, 1e-9)
	assert.Equal(t, "33.8%", r.BodyFatText())
}

func TestCompute_Partial(t *testing.T) {
	r := Compute(Input{HeightCm: "180", WeightKg: "81"})
	assert.True(t, r.HasBMI)
	assert.False(t, r.HasBodyFat)
	assert.Equal(t, "--", r.BodyFatText())

	r = Compute(Input{HeightCm: "", WeightKg: "81", Age: "30"})
	assert.False(t, r.HasBMI)
	assert.False(t, r.HasBodyFat)
	assert.Equal(t, "--", r.BMIText())
	assert.Equal(t, "--", r.BodyFatText())
}

func TestBodyFatText_ClampsDisplayOnly(t *testing.T) {
	low := Result{HasBodyFat: true, BodyFatPercent: -3.2}
	assert.Equal(t, "0.0%", low.BodyFatText())
	assert.InDelta(t, -3.2, low.BodyFatPercent, 1e-9)

	high := Result{HasBodyFat: true, BodyFatPercent: 75}
	assert.Equal(t, "60.0%", high.BodyFatText())
	assert.InDelta(t, 75.0, high.BodyFatPercent, 1e-9)
}
