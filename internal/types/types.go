//nolint:staticcheck // too dumb on Db vs. DB
package types

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnsupportedFormat is returned when the host cannot describe its audio, or describes it with a channel
	// count or sample rate the meter cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrInvalidTrackSelector is returned when a track selector does not name any known track.
	ErrInvalidTrackSelector = errors.New("invalid track selector")
	// ErrConfigInconsistency is returned (and logged) when persisted counts do not agree with each other.
	ErrConfigInconsistency = errors.New("inconsistent configuration")
)

const (
	MinSampleRate = 16
	MaxSampleRate = 2822400
	MaxChannels   = 64

	// Sentinel is the level below which any loudness or peak value is considered numeric underflow.
	Sentinel = -192.0
)

// PCM normalization divisors for signed integer input.
const (
	MaxValue16 = 32768.0      // 2^15
	MaxValue24 = 8388608.0    // 2^23
	MaxValue32 = 2147483648.0 // 2^31
)

// Format describes the float audio delivered by the host mixer.
type Format struct {
	SampleRate int
	Channels   int
}

// Validate reports ErrUnsupportedFormat for formats the meter cannot be built for.
func (f Format) Validate() error {
	if f.Channels < 1 || f.Channels > MaxChannels {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, f.Channels)
	}

	if f.SampleRate < MinSampleRate || f.SampleRate > MaxSampleRate {
		return fmt.Errorf("%w: %d Hz", ErrUnsupportedFormat, f.SampleRate)
	}

	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d ch", f.SampleRate, f.Channels)
}

// Kind selects which measures a query reads.
type Kind uint32

const (
	// KindShort reads momentary and short-term loudness (meant for >= 10 Hz polling).
	KindShort Kind = 1 << iota
	// KindLong reads integrated loudness, loudness range and true peak (meant for >= 1 Hz polling).
	KindLong

	KindAll = KindShort | KindLong
)

func (k Kind) String() string {
	switch k {
	case 0:
		return "none"
	case KindShort:
		return "short"
	case KindLong:
		return "long"
	case KindAll:
		return "all"
	}

	return "unknown"
}

// Snapshot holds one readout of the five measures.
// Unmeasured values are negative infinity, never a very small number.
type Snapshot struct {
	Momentary  float64 // LUFS
	ShortTerm  float64 // LUFS
	Integrated float64 // LUFS
	Range      float64 // LU
	TruePeak   float64 // dBTP
}

// Unmeasured returns a snapshot with every value unmeasured.
func Unmeasured() Snapshot {
	inf := math.Inf(-1)

	return Snapshot{Momentary: inf, ShortTerm: inf, Integrated: inf, Range: inf, TruePeak: inf}
}

// Normalize maps every value below the sentinel level to negative infinity.
func (s *Snapshot) Normalize() {
	for _, v := range []*float64{&s.Momentary, &s.ShortTerm, &s.Integrated, &s.Range, &s.TruePeak} {
		if *v < Sentinel || math.IsNaN(*v) {
			*v = math.Inf(-1)
		}
	}
}

// Values returns the measures in their canonical order: momentary, short-term, integrated, range, peak.
func (s Snapshot) Values() [5]float64 {
	return [5]float64{s.Momentary, s.ShortTerm, s.Integrated, s.Range, s.TruePeak}
}

// IsUnmeasured reports whether v stands for "no measurement".
func IsUnmeasured(v float64) bool {
	return math.IsInf(v, -1)
}

// Clip is decoded planar float audio, used to replay recordings through the mixer.
type Clip struct {
	Format Format
	Planes [][]float32
}

// Frames returns the number of frames per channel.
func (c *Clip) Frames() int {
	if c == nil || len(c.Planes) == 0 {
		return 0
	}

	return len(c.Planes[0])
}

// Duration returns the clip duration in seconds.
func (c *Clip) Duration() float64 {
	if c == nil || c.Format.SampleRate == 0 {
		return 0
	}

	return float64(c.Frames()) / float64(c.Format.SampleRate)
}
