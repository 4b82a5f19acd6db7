// Package loudness is the incremental EBU R128 / ITU-R BS.1770 measurement engine.
//
// A Meter is fed blocks of float audio of any size and keeps five running measures: momentary (400 ms) and
// short-term (3 s) loudness over sliding windows, gated integrated loudness and loudness range over the
// whole session, and the oversampled true peak. Reading any of them never reprocesses history.
package loudness

import (
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/farcloser/sonorium/internal/dsp/kweighting"
	"github.com/farcloser/sonorium/internal/dsp/scratch"
	"github.com/farcloser/sonorium/internal/dsp/truepeak"
	"github.com/farcloser/sonorium/internal/types"
)

const (
	momentaryHops  = 4  // 400 ms
	shortTermHops  = 30 // 3 s
	gatingStepHops = 1  // 75% overlap of momentary blocks
	rangeStepHops  = 10 // one short-term block per second

	relativeGate      = -10.0 // LU, integrated loudness
	rangeRelativeGate = -20.0 // LU, loudness range
	rangeLow          = 0.10
	rangeHigh         = 0.95

	// Reference offset of the loudness formula; it cancels the K-weighting gain at 997 Hz.
	loudnessOffset = -0.691

	// Initial scratch capacity, a typical host block.
	defaultBlockFrames = 1024
)

// Stats counts what a meter has accumulated since creation or the last reset.
type Stats struct {
	Frames          uint64
	GatingBlocks    uint64 // momentary blocks above the absolute gate
	ShortTermBlocks uint64 // short-term blocks above the absolute gate
}

// Option customizes a Meter.
type Option func(*options)

type options struct {
	channelMap []types.Channel
}

// WithChannelMap assigns speaker roles to the input channels, overriding types.DefaultChannelMap.
func WithChannelMap(channels []types.Channel) Option {
	return func(o *options) {
		o.channelMap = channels
	}
}

// Meter accumulates loudness statistics. It is safe for one producer and any number of readers.
type Meter struct {
	mu sync.Mutex

	format   types.Format
	channels []types.Channel
	weights  []float64
	hop      int

	filters []*kweighting.Filter
	peaks   []*truepeak.Detector

	momentary window
	shortTerm window

	gatingCounter int
	rangeCounter  int

	gating    histogram
	rangeHist histogram

	frames uint64

	// Scratch, sized to the largest block seen.
	samples  *scratch.Buffer
	squares  *scratch.Buffer
	weighted *scratch.Buffer
	energy   *scratch.Buffer
}

// New returns a Meter for the given format.
func New(format types.Format, opts ...Option) (*Meter, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	channels := cfg.channelMap
	if channels == nil {
		channels = types.DefaultChannelMap(format.Channels)
	}

	if len(channels) != format.Channels {
		return nil, fmt.Errorf("%w: channel map has %d entries for %d channels",
			types.ErrUnsupportedFormat, len(channels), format.Channels)
	}

	hop := (format.SampleRate + 5) / 10

	m := &Meter{
		format:    format,
		channels:  append([]types.Channel(nil), channels...),
		weights:   make([]float64, format.Channels),
		hop:       hop,
		filters:   make([]*kweighting.Filter, format.Channels),
		peaks:     make([]*truepeak.Detector, format.Channels),
		momentary: newWindow(momentaryHops * hop),
		shortTerm: newWindow(shortTermHops * hop),
		samples:   scratch.New(defaultBlockFrames),
		squares:   scratch.New(defaultBlockFrames),
		weighted:  scratch.New(defaultBlockFrames),
		energy:    scratch.New(defaultBlockFrames),
	}

	kernel := truepeak.NewKernel(truepeak.FactorFor(format.SampleRate))

	for ch := range format.Channels {
		m.weights[ch] = channels[ch].Weight()
		m.filters[ch] = kweighting.New(format.SampleRate)
		m.peaks[ch] = truepeak.NewDetector(kernel)
	}

	return m, nil
}

// Format returns the format the meter was built for.
func (m *Meter) Format() types.Format {
	return m.format
}

// Channels returns the speaker roles in use.
func (m *Meter) Channels() []types.Channel {
	return append([]types.Channel(nil), m.channels...)
}

// FeedPlanar adds frames from one slice per channel.
// Blocks with fewer planes than channels, or planes shorter than frames, are dropped.
func (m *Meter) FeedPlanar(planes [][]float32, frames int) {
	if frames <= 0 || len(planes) < m.format.Channels {
		return
	}

	for ch := range m.format.Channels {
		if len(planes[ch]) < frames {
			return
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	energy := m.energy.Resize(frames)
	clear(energy)

	for ch := range m.format.Channels {
		x := m.samples.Resize(frames)
		for i, v := range planes[ch][:frames] {
			x[i] = float64(v)
		}

		m.accumulate(ch, x, energy)
	}

	m.integrate(energy)
}

// FeedInterleaved adds frames from a single interleaved slice.
// Blocks shorter than frames*channels samples are dropped.
func (m *Meter) FeedInterleaved(samples []float32, frames int) {
	nch := m.format.Channels
	if frames <= 0 || len(samples) < frames*nch {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	energy := m.energy.Resize(frames)
	clear(energy)

	for ch := range nch {
		x := m.samples.Resize(frames)
		for i := range x {
			x[i] = float64(samples[i*nch+ch])
		}

		m.accumulate(ch, x, energy)
	}

	m.integrate(energy)
}

// accumulate runs one channel of a block through the peak detector and the K-weighting filter, and adds its
// weighted energy per frame into energy. x is overwritten.
func (m *Meter) accumulate(ch int, x, energy []float64) {
	m.peaks[ch].ProcessBlock(x)

	weight := m.weights[ch]
	if weight == 0 {
		return
	}

	m.filters[ch].ProcessBlock(x)

	squares := m.squares.Resize(len(x))
	vecmath.MulBlock(squares, x, x)

	if weight != 1 {
		weighted := m.weighted.Resize(len(x))
		vecmath.ScaleBlock(weighted, squares, weight)
		squares = weighted
	}

	vecmath.AddBlockInPlace(energy, squares)
}

// integrate advances the sliding windows and emits gating blocks every 100 ms.
func (m *Meter) integrate(energy []float64) {
	gatingFull := momentaryHops * m.hop
	rangeFull := shortTermHops * m.hop

	for _, e := range energy {
		m.momentary.push(e)
		m.shortTerm.push(e)

		m.gatingCounter++
		if m.gatingCounter == gatingFull {
			m.gating.add(m.momentary.meanSquare())
			m.gatingCounter = gatingFull - gatingStepHops*m.hop
		}

		m.rangeCounter++
		if m.rangeCounter == rangeFull {
			m.rangeHist.add(m.shortTerm.meanSquare())
			m.rangeCounter = rangeFull - rangeStepHops*m.hop
		}
	}

	m.frames += uint64(len(energy))
}

// Query returns the selected measures; fields not selected by kinds are unmeasured.
func (m *Meter) Query(kinds types.Kind) types.Snapshot {
	snap := types.Unmeasured()
	m.Read(&snap, kinds)

	return snap
}

// Read writes the selected measures into snap, leaving the other fields untouched.
func (m *Meter) Read(snap *types.Snapshot, kinds types.Kind) {
	m.mu.Lock()

	if kinds&types.KindShort != 0 {
		snap.Momentary = energyToLoudness(m.momentary.meanSquare())
		snap.ShortTerm = energyToLoudness(m.shortTerm.meanSquare())
	}

	if kinds&types.KindLong != 0 {
		snap.Integrated = m.gating.gatedLoudness(relativeGate)

		if lra, ok := m.rangeHist.spread(rangeRelativeGate, rangeLow, rangeHigh); ok {
			snap.Range = lra
		} else {
			snap.Range = math.Inf(-1)
		}

		var peak float64
		for _, d := range m.peaks {
			peak = math.Max(peak, d.Peak())
		}

		snap.TruePeak = truepeak.ToDb(peak)
	}

	m.mu.Unlock()

	snap.Normalize()
}

// Peaks returns the true peak of each channel in dBTP.
func (m *Meter) Peaks() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]float64, len(m.peaks))
	for ch, d := range m.peaks {
		out[ch] = truepeak.ToDb(d.Peak())
	}

	return out
}

// Stats returns accumulation counters.
func (m *Meter) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		Frames:          m.frames,
		GatingBlocks:    m.gating.total,
		ShortTermBlocks: m.rangeHist.total,
	}
}

// Reset discards all history, as if the meter had just been created. Scratch capacity is kept.
func (m *Meter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ch := range m.format.Channels {
		m.filters[ch].Reset()
		m.peaks[ch].Reset()
	}

	m.momentary.reset()
	m.shortTerm.reset()
	m.gating.reset()
	m.rangeHist.reset()
	m.gatingCounter = 0
	m.rangeCounter = 0
	m.frames = 0
}

func energyToLoudness(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return math.Inf(-1)
	}

	return loudnessOffset + 10*math.Log10(meanSquare)
}
