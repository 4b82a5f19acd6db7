// Package sonorium meters the loudness of live mixer tracks (ITU-R BS.1770 / EBU R128).
//
// A Controller owns one loudness meter per monitored track, attaches them to a Host audio pipeline and
// answers queries from any goroutine:
//
//	mixer := source.NewMixer(types.Format{SampleRate: 48000, Channels: 2}, 0)
//	ctl := sonorium.New(mixer)
//	track, err := ctl.AddTrack(sonorium.TrackSpec{Name: "A", Track: 0})
//	...
//	snap := ctl.Query(track, sonorium.KindAll)
//	fmt.Printf("I=%.1f LUFS\n", snap.Integrated)
//
// Tracks can be paused and reset individually, or driven automatically by host lifecycle events through
// their TriggerMode.
package sonorium

import (
	"github.com/farcloser/sonorium/internal/source"
	"github.com/farcloser/sonorium/internal/types"
)

// Host is the audio pipeline a Controller attaches its meters to.
// Detach must not return while the sink is being fed.
type Host interface {
	AudioInfo() (types.Format, bool)
	Attach(track int, sink source.Sink) error
	Detach(track int, sink source.Sink)
}

// Snapshot holds the five measures of a track. Unmeasured values are negative infinity.
type Snapshot = types.Snapshot

// Kind selects which measures a query reads.
type Kind = types.Kind

const (
	KindShort = types.KindShort
	KindLong  = types.KindLong
	KindAll   = types.KindAll
)

// TriggerMode selects the host output states during which a track accumulates.
type TriggerMode = types.TriggerMode

const (
	TriggerNone      = types.TriggerNone
	TriggerStreaming = types.TriggerStreaming
	TriggerRecording = types.TriggerRecording
	TriggerEither    = types.TriggerEither
)

// ParseTriggerMode converts a string to a TriggerMode.
func ParseTriggerMode(s string) (TriggerMode, error) {
	return types.ParseTriggerMode(s)
}
