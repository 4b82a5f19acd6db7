// Package kweighting implements the ITU-R BS.1770 K-weighting pre-filter: a high shelf modelling the
// acoustic effect of the head, followed by the revised low-frequency B (RLB) high pass.
package kweighting

import "math"

// Biquad filter coefficients, normalized so that a0 == 1.
type Biquad struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// State is the transposed direct form II memory of one biquad.
type State struct {
	z1, z2 float64
}

// Process filters one sample.
func (s *State) Process(b *Biquad, in float64) float64 {
	out := b.B0*in + s.z1
	s.z1 = b.B1*in - b.A1*out + s.z2
	s.z2 = b.B2*in - b.A2*out

	return out
}

// Reset clears the filter memory.
func (s *State) Reset() {
	s.z1, s.z2 = 0, 0
}

// Coefficients returns the shelf and RLB stages for a sample rate.
// They are derived from the analog prototypes of BS.1770-4, so any rate is supported; at 48 kHz they
// reproduce the tabulated coefficients.
func Coefficients(sampleRate int) (shelf, rlb Biquad) {
	fs := float64(sampleRate)

	// Shelf.
	f0 := 1681.974450955533
	gain := 3.999843853973347
	q := 0.7071752369554196

	k := math.Tan(math.Pi * f0 / fs)
	vh := math.Pow(10, gain/20)
	vb := math.Pow(vh, 0.4996667741545416)

	a0 := 1 + k/q + k*k
	shelf.B0 = (vh + vb*k/q + k*k) / a0
	shelf.B1 = 2 * (k*k - vh) / a0
	shelf.B2 = (vh - vb*k/q + k*k) / a0
	shelf.A1 = 2 * (k*k - 1) / a0
	shelf.A2 = (1 - k/q + k*k) / a0

	// RLB. The numerator is fixed at 1, -2, 1 and only the poles follow the rate.
	f0 = 38.13547087602444
	q = 0.5003270373238773

	k = math.Tan(math.Pi * f0 / fs)

	a0 = 1 + k/q + k*k
	rlb.B0 = 1
	rlb.B1 = -2
	rlb.B2 = 1
	rlb.A1 = 2 * (k*k - 1) / a0
	rlb.A2 = (1 - k/q + k*k) / a0

	return shelf, rlb
}

// Filter is the two-stage K-weighting cascade for a single channel.
type Filter struct {
	shelf, rlb           Biquad
	shelfState, rlbState State
}

// New returns a K-weighting filter for one channel at the given rate.
func New(sampleRate int) *Filter {
	shelf, rlb := Coefficients(sampleRate)

	return &Filter{shelf: shelf, rlb: rlb}
}

// ProcessSample filters one sample.
func (f *Filter) ProcessSample(in float64) float64 {
	return f.rlbState.Process(&f.rlb, f.shelfState.Process(&f.shelf, in))
}

// ProcessBlock filters buf in place.
func (f *Filter) ProcessBlock(buf []float64) {
	for i, v := range buf {
		v = f.shelfState.Process(&f.shelf, v)
		buf[i] = f.rlbState.Process(&f.rlb, v)
	}
}

// Reset clears both stages.
func (f *Filter) Reset() {
	f.shelfState.Reset()
	f.rlbState.Reset()
}

// Response returns the magnitude of the cascade at frequency hz, in dB.
func (f *Filter) Response(hz float64, sampleRate int) float64 {
	w := 2 * math.Pi * hz / float64(sampleRate)

	return magnitudeDb(&f.shelf, w) + magnitudeDb(&f.rlb, w)
}

func magnitudeDb(b *Biquad, w float64) float64 {
	cos1, sin1 := math.Cos(w), math.Sin(w)
	cos2, sin2 := math.Cos(2*w), math.Sin(2*w)

	numRe := b.B0 + b.B1*cos1 + b.B2*cos2
	numIm := -(b.B1*sin1 + b.B2*sin2)
	denRe := 1 + b.A1*cos1 + b.A2*cos2
	denIm := -(b.A1*sin1 + b.A2*sin2)

	num := numRe*numRe + numIm*numIm
	den := denRe*denRe + denIm*denIm

	return 10 * math.Log10(num/den)
}
