// Package truepeak estimates inter-sample peaks by polyphase oversampling, per ITU-R BS.1770 annex 2.
package truepeak

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	kernelTaps = 48  // interpolation filter length, constant across ratios
	kaiserBeta = 5.0 // Kaiser window parameter
)

// FactorFor returns the oversampling ratio used at a sample rate: 4x below 96 kHz, 2x below 192 kHz, none above.
// The filter keeps the same length at every ratio, so 2x runs 24 taps per phase and 4x runs 12.
func FactorFor(sampleRate int) int {
	switch {
	case sampleRate < 96000:
		return 4
	case sampleRate < 192000:
		return 2
	default:
		return 1
	}
}

// Kernel holds polyphase interpolation coefficients for one oversampling ratio.
// It is immutable and may be shared by any number of detectors.
type Kernel struct {
	factor int
	taps   int // per phase
	phases [][]float64
}

// NewKernel designs a windowed-sinc lowpass at the original Nyquist frequency, split into factor phases.
func NewKernel(factor int) *Kernel {
	if factor < 1 {
		factor = 1
	}

	k := &Kernel{factor: factor}
	if factor == 1 {
		return k
	}

	k.taps = kernelTaps / factor
	center := float64(k.taps*factor-1) / 2.0

	k.phases = make([][]float64, factor)
	for phase := range factor {
		coeffs := make([]float64, k.taps)

		for tap := range k.taps {
			n := tap*factor + phase
			x := float64(n) - center

			sinc := 1.0
			if math.Abs(x) >= 1e-10 {
				arg := math.Pi * x / float64(factor)
				sinc = math.Sin(arg) / arg
			}

			alpha := x / center
			if math.Abs(alpha) <= 1.0 {
				window := bessel0(kaiserBeta*math.Sqrt(1-alpha*alpha)) / bessel0(kaiserBeta)
				coeffs[tap] = sinc * window * float64(factor)
			}
		}

		// Unity DC gain per phase.
		floats.Scale(1/floats.Sum(coeffs), coeffs)

		k.phases[phase] = coeffs
	}

	return k
}

// Factor returns the oversampling ratio.
func (k *Kernel) Factor() int {
	return k.factor
}

// Taps returns the number of filter taps per phase, zero when not oversampling.
func (k *Kernel) Taps() int {
	return k.taps
}

// Modified Bessel function of the first kind, order 0.
func bessel0(x float64) float64 {
	sum := 1.0
	term := 1.0

	for k := 1; k <= 25; k++ {
		term *= (x * x) / (4.0 * float64(k) * float64(k))
		sum += term

		if term < 1e-12 {
			break
		}
	}

	return sum
}

// Detector tracks the true peak of a single channel across successive blocks.
type Detector struct {
	kernel *Kernel

	// history holds the last kernel.taps samples twice, so the filter window is always contiguous.
	history []float64
	pos     int

	truePeak   float64
	samplePeak float64
}

// NewDetector returns a detector using kernel.
func NewDetector(kernel *Kernel) *Detector {
	return &Detector{
		kernel:  kernel,
		history: make([]float64, 2*kernel.taps),
		pos:     kernel.taps - 1,
	}
}

// ProcessBlock updates the peaks with a block of samples.
func (d *Detector) ProcessBlock(in []float64) {
	for _, sample := range in {
		if abs := math.Abs(sample); abs > d.samplePeak {
			d.samplePeak = abs
		}

		if d.kernel.factor == 1 {
			continue
		}

		d.pos++
		taps := d.kernel.taps
		if d.pos == taps {
			d.pos = 0
		}

		d.history[d.pos] = sample
		d.history[d.pos+taps] = sample

		window := d.history[d.pos+1 : d.pos+1+taps]

		for _, coeffs := range d.kernel.phases {
			if abs := math.Abs(floats.Dot(window, coeffs)); abs > d.truePeak {
				d.truePeak = abs
			}
		}
	}
}

// Peak returns the larger of the oversampled and the plain sample peak, as a linear magnitude.
func (d *Detector) Peak() float64 {
	return math.Max(d.truePeak, d.samplePeak)
}

// SamplePeak returns the largest absolute input sample seen.
func (d *Detector) SamplePeak() float64 {
	return d.samplePeak
}

// Reset clears history and peaks.
func (d *Detector) Reset() {
	clear(d.history)
	d.pos = d.kernel.taps - 1
	d.truePeak = 0
	d.samplePeak = 0
}

// ToDb converts a linear peak to dBFS; zero is unmeasured (negative infinity).
func ToDb(peak float64) float64 {
	if peak <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(peak)
}
