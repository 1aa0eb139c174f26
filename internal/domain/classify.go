package domain

import "math"

// Ångström exponent thresholds for particle-type classification.
const (
	aeFineThreshold   = 1.5 // values >= 1.5 → fine particles
	aeCoarseThreshold = 1.0 // values <= 1.0 → coarse particles
)

// Particle type, spectral band, and sensitivity labels stored in the
// warehouse.
const (
	ParticleFine   = "fine"
	ParticleCoarse = "coarse"
	ParticleMixed  = "mixed"

	BandUV  = "UV"
	BandVIS = "VIS"
	BandNIR = "NIR"

	SensitivityFine     = "fine-sensitive"
	SensitivityCoarse   = "coarse-sensitive"
	SensitivityBalanced = "balanced"
)

// ClassifyParticle maps an Ångström exponent to a particle-type label.
// Both thresholds are inclusive: exactly 1.5 is fine, exactly 1.0 is coarse.
// A missing exponent (NaN) yields "".
func ClassifyParticle(ae float64) string {
	switch {
	case math.IsNaN(ae):
		return ""
	case ae >= aeFineThreshold:
		return ParticleFine
	case ae <= aeCoarseThreshold:
		return ParticleCoarse
	default:
		return ParticleMixed
	}
}

// SpectralBand assigns the spectral band for a wavelength in nanometers.
func SpectralBand(nm float64) string {
	switch {
	case nm < 400:
		return BandUV
	case nm <= 700:
		return BandVIS
	default:
		return BandNIR
	}
}

// AerosolSensitivity labels which particle mode a wavelength responds to
// most strongly.
func AerosolSensitivity(nm float64) string {
	switch {
	case nm <= 500:
		return SensitivityFine
	case nm >= 800:
		return SensitivityCoarse
	default:
		return SensitivityBalanced
	}
}
