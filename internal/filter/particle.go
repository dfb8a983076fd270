package filter

import (
	"fmt"
	"math"
	"math/rand"
)

// Particle is a bootstrap (SIR) particle filter for segments with large,
// fast, non-Gaussian motion where the linear filters lag. It is the one
// stochastic filter in the bank, so reproducibility requires an explicit
// seed: the same seed, input and parameters always produce the same output.
type Particle struct {
	count     int
	procNoise float64
	measNoise float64
	seed      int64
}

// NewParticle creates a particle filter with count particles. procNoise and
// measNoise are standard deviations; seed fixes the random stream.
func NewParticle(count int, procNoise, measNoise float64, seed int64) (*Particle, error) {
	if count < 10 {
		return nil, fmt.Errorf("particle count must be >= 10, got %d", count)
	}
	if procNoise <= 0 || measNoise <= 0 {
		return nil, fmt.Errorf("particle noise parameters must be positive")
	}
	return &Particle{count: count, procNoise: procNoise, measNoise: measNoise, seed: seed}, nil
}

func (f *Particle) Name() string { return NameParticle }

func (f *Particle) Params() map[string]float64 {
	return map[string]float64{
		"count":             float64(f.count),
		"process_noise":     f.procNoise,
		"measurement_noise": f.measNoise,
		"seed":              float64(f.seed),
	}
}

// Apply runs sequential importance resampling over the signal. A fresh
// random source is created per call so repeated applications are identical.
func (f *Particle) Apply(sig []float64) []float64 {
	out := make([]float64, len(sig))
	if len(sig) == 0 {
		return out
	}
	rng := rand.New(rand.NewSource(f.seed))

	particles := make([]float64, f.count)
	weights := make([]float64, f.count)
	for i := range particles {
		particles[i] = sig[0] + rng.NormFloat64()*f.measNoise
		weights[i] = 1 / float64(f.count)
	}
	out[0] = sig[0]

	resampled := make([]float64, f.count)
	for t := 1; t < len(sig); t++ {
		// Propagate with process noise.
		for i := range particles {
			particles[i] += rng.NormFloat64() * f.procNoise
		}

		// Weight by Gaussian likelihood of the observation.
		var wsum float64
		for i, p := range particles {
			d := (sig[t] - p) / f.measNoise
			w := math.Exp(-0.5*d*d) + 1e-300
			weights[i] = w
			wsum += w
		}
		var est, neffDen float64
		for i := range weights {
			weights[i] /= wsum
			est += weights[i] * particles[i]
			neffDen += weights[i] * weights[i]
		}
		out[t] = est

		// Systematic resampling when the effective sample size collapses.
		if 1/neffDen < 0.5*float64(f.count) {
			f.systematicResample(rng, particles, weights, resampled)
			particles, resampled = resampled, particles
			for i := range weights {
				weights[i] = 1 / float64(f.count)
			}
		}
	}
	return out
}

func (f *Particle) systematicResample(rng *rand.Rand, particles, weights, dst []float64) {
	n := len(weights)
	offset := rng.Float64()
	cum := 0.0
	j := 0
	for i := 0; i < n; i++ {
		pos := (float64(i) + offset) / float64(n)
		for cum+weights[j] < pos && j < n-1 {
			cum += weights[j]
			j++
		}
		dst[i] = particles[j]
	}
}
