package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_Symmetric(t *testing.T) {
	coords := [][4]float64{
		{10.2541, -64.4728, 10.4806, -66.9036},
		{40.7128, -74.0060, 51.5074, -0.1278},
		{-33.8688, 151.2093, 35.6762, 139.6503},
	}
	for _, c := range coords {
		ab := Distance(c[0], c[1], c[2], c[3])
		ba := Distance(c[2], c[3], c[0], c[1])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}

func TestDistance_NonNegative(t *testing.T) {
	assert.GreaterOrEqual(t, Distance(10, -64, -33, 151), 0.0)
	assert.GreaterOrEqual(t, Distance(-90, 0, 90, 0), 0.0)
}

func TestDistance_ZeroForSamePoint(t *testing.T) {
	assert.InDelta(t, 0, Distance(10.2541, -64.4728, 10.2541, -64.4728), 1e-9)
}

func TestDistance_KnownValue(t *testing.T) {
	// New York to London, roughly 5570 km.
	d := Distance(40.7128, -74.0060, 51.5074, -0.1278)
	assert.InDelta(t, 5570, d, 20)
}

func TestDistance_Antipodal(t *testing.T) {
	// Half the Earth's circumference with R=6371.
	d := Distance(0, 0, 0, 180)
	assert.InDelta(t, 20015, d, 5)
}
