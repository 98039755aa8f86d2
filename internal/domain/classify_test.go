package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyGeomagnetic(t *testing.T) {
	tests := []struct {
		kp   float64
		want Tier
	}{
		{0, GeomagneticNormal},
		{3.99, GeomagneticNormal},
		{4, GeomagneticModerate},
		{5.67, GeomagneticModerate},
		{6, GeomagneticStorm},
		{9, GeomagneticStorm},
		{math.NaN(), GeomagneticNormal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyGeomagnetic(tt.kp), "kp=%v", tt.kp)
	}
}

func TestClassifyFlareAndRadio(t *testing.T) {
	tests := []struct {
		name  string
		flux  float64
		flare Tier
		radio Tier
	}{
		{"quiet", 1e-7, FlareNormal, RadioNormal},
		{"c class", 9.99e-6, FlareNormal, RadioNormal},
		{"m1 boundary", 1e-5, FlareModerate, RadioR1},
		{"m5 boundary", 5e-5, FlareModerate, RadioR2},
		{"just under x", 9.99e-5, FlareModerate, RadioR2},
		{"x1 boundary", 1e-4, FlareSevere, RadioR3},
		{"x9", 9e-4, FlareSevere, RadioR3},
		{"nan", math.NaN(), FlareNormal, RadioNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.flare, ClassifyFlare(tt.flux))
			assert.Equal(t, tt.radio, ClassifyRadioBlackout(tt.flux))
		})
	}
}

func TestClassify_IsPure(t *testing.T) {
	for _, v := range []float64{2e-6, 3e-5, 7e-5, 2e-4} {
		assert.Equal(t, ClassifyFlare(v), ClassifyFlare(v))
		assert.Equal(t, ClassifyRadioBlackout(v), ClassifyRadioBlackout(v))
	}
}

func TestClassifyForecastKp(t *testing.T) {
	assert.Equal(t, "kp-low", ClassifyForecastKp(3.67).Class)
	assert.Equal(t, "kp-mod", ClassifyForecastKp(4).Class)
	assert.Equal(t, "kp-high", ClassifyForecastKp(5).Class)
}

func TestNewScale_OrderIndependent(t *testing.T) {
	low := Tier{Name: "low"}
	mid := Tier{Name: "mid", Level: 1}
	high := Tier{Name: "high", Level: 2}

	s := NewScale(low, Band{Min: 1, Tier: mid}, Band{Min: 10, Tier: high})

	assert.Equal(t, low, s.Classify(0.5))
	assert.Equal(t, mid, s.Classify(1))
	assert.Equal(t, high, s.Classify(10))
	assert.Equal(t, high, s.Classify(math.Inf(1)))
}

func TestTier_AtLeast(t *testing.T) {
	assert.True(t, FlareSevere.AtLeast(FlareModerate))
	assert.True(t, FlareModerate.AtLeast(FlareModerate))
	assert.False(t, FlareMinor.AtLeast(FlareModerate))
}

func TestFlareClass(t *testing.T) {
	tests := []struct {
		flux float64
		want string
	}{
		{2.3e-5, "M2.3"},
		{1e-4, "X1.0"},
		{2.07e-4, "X2.1"},
		{4.5e-6, "C4.5"},
		{3e-7, "B3.0"},
		{5e-9, "A0.5"},
		{0, ""},
		{-1e-6, ""},
		{math.NaN(), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FlareClass(tt.flux), "flux=%v", tt.flux)
	}
}
