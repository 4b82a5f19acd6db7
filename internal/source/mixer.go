// Package source stands in for the host audio pipeline: per-track raw audio delivery to registered sinks.
package source

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/farcloser/sonorium/internal/types"
)

// DefaultMaxTracks matches the mixer track count of common broadcast hosts.
const DefaultMaxTracks = 6

var (
	// ErrInvalidTrack is returned when attaching to a track the mixer does not have.
	ErrInvalidTrack = errors.New("invalid mixer track")
	// ErrFormatMismatch is returned when a clip does not match the mixer format.
	ErrFormatMismatch = errors.New("clip format does not match mixer")
)

// Sink receives planar float audio, one slice per channel.
// Slices are only valid for the duration of the call.
type Sink interface {
	Feed(planes [][]float32, frames int)
}

// Mixer delivers audio pushed on a track to every sink attached to it.
type Mixer struct {
	format    types.Format
	maxTracks int

	mu    sync.RWMutex
	sinks [][]Sink
}

// NewMixer returns a mixer producing audio in format. maxTracks <= 0 selects DefaultMaxTracks.
func NewMixer(format types.Format, maxTracks int) *Mixer {
	if maxTracks <= 0 {
		maxTracks = DefaultMaxTracks
	}

	return &Mixer{
		format:    format,
		maxTracks: maxTracks,
		sinks:     make([][]Sink, maxTracks),
	}
}

// AudioInfo returns the mixer output format. It reports false when the format is unusable.
func (m *Mixer) AudioInfo() (types.Format, bool) {
	return m.format, m.format.Validate() == nil
}

// MaxTracks returns the number of mixer tracks.
func (m *Mixer) MaxTracks() int {
	return m.maxTracks
}

// Attach registers sink for audio on track. Attaching the same sink twice delivers twice.
func (m *Mixer) Attach(track int, sink Sink) error {
	if track < 0 || track >= m.maxTracks {
		return fmt.Errorf("%w: %d (mixer has %d)", ErrInvalidTrack, track, m.maxTracks)
	}

	m.mu.Lock()
	m.sinks[track] = append(m.sinks[track], sink)
	m.mu.Unlock()

	return nil
}

// Detach unregisters sink from track. When it returns, sink is not being called and will not be called
// again for that registration. It must not be called from within Feed.
func (m *Mixer) Detach(track int, sink Sink) {
	if track < 0 || track >= m.maxTracks {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sinks := m.sinks[track]
	for i, s := range sinks {
		if s == sink {
			m.sinks[track] = slices.Delete(sinks, i, i+1)

			return
		}
	}
}

// Attached returns the number of sinks registered on track.
func (m *Mixer) Attached(track int) int {
	if track < 0 || track >= m.maxTracks {
		return 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sinks[track])
}

// Push delivers one block to every sink on track, in attach order.
func (m *Mixer) Push(track int, planes [][]float32, frames int) {
	if track < 0 || track >= m.maxTracks || frames <= 0 {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sink := range m.sinks[track] {
		sink.Feed(planes, frames)
	}
}
