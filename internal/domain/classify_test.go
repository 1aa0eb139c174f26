package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyParticle(t *testing.T) {
	tests := []struct {
		name     string
		ae       float64
		expected string
	}{
		{"well above fine threshold", 2.1, ParticleFine},
		{"exactly fine threshold", 1.5, ParticleFine},
		{"open interval is mixed", 1.25, ParticleMixed},
		{"just above coarse threshold", 1.01, ParticleMixed},
		{"exactly coarse threshold", 1.0, ParticleCoarse},
		{"well below coarse threshold", 0.2, ParticleCoarse},
		{"negative exponent", -0.5, ParticleCoarse},
		{"missing exponent", math.NaN(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyParticle(tt.ae))
		})
	}
}

func TestSpectralBand(t *testing.T) {
	tests := []struct {
		name     string
		nm       float64
		expected string
	}{
		{"below visible", 399, BandUV},
		{"lower visible edge", 400, BandVIS},
		{"upper visible edge", 700, BandVIS},
		{"above visible", 701, BandNIR},
		{"deep uv", 340, BandUV},
		{"far infrared", 1640, BandNIR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SpectralBand(tt.nm))
		})
	}
}

func TestAerosolSensitivity(t *testing.T) {
	tests := []struct {
		name     string
		nm       float64
		expected string
	}{
		{"short wavelength", 340, SensitivityFine},
		{"fine boundary", 500, SensitivityFine},
		{"between boundaries", 675, SensitivityBalanced},
		{"coarse boundary", 800, SensitivityCoarse},
		{"long wavelength", 1640, SensitivityCoarse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AerosolSensitivity(tt.nm))
		})
	}
}
