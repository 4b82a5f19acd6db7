package sonorium

import (
	"sync"

	"github.com/google/uuid"

	"github.com/farcloser/sonorium/internal/loudness"
	"github.com/farcloser/sonorium/internal/types"
)

// TrackSpec describes a track to meter.
type TrackSpec struct {
	Name    string
	Track   int // mixer track index
	Trigger TriggerMode
	Paused  bool // start without attaching to the host
}

// Track is one metered mixer track. A track whose meter could not be built is inert: it never attaches
// and always reports unmeasured values.
type Track struct {
	host  Host
	index int
	meter *loudness.Meter

	mu      sync.Mutex
	name    string
	trigger TriggerMode
	paused  bool
	epoch   uuid.UUID
}

// Feed implements source.Sink.
func (t *Track) Feed(planes [][]float32, frames int) {
	t.meter.FeedPlanar(planes, frames)
}

// Name returns the display name.
func (t *Track) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.name
}

// Index returns the mixer track index.
func (t *Track) Index() int {
	return t.index
}

// Trigger returns the lifecycle trigger mode.
func (t *Track) Trigger() TriggerMode {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.trigger
}

// Paused reports whether the track is detached from the host.
func (t *Track) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.paused
}

// Epoch identifies the current measurement; it changes on every reset.
func (t *Track) Epoch() uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.epoch
}

// Functional reports whether the track has a meter.
func (t *Track) Functional() bool {
	return t.meter != nil
}

// Stats returns the meter counters, zero for an inert track.
func (t *Track) Stats() loudness.Stats {
	if t.meter == nil {
		return loudness.Stats{}
	}

	return t.meter.Stats()
}

func (t *Track) query(kinds Kind) Snapshot {
	if t == nil || t.meter == nil {
		return types.Unmeasured()
	}

	return t.meter.Query(kinds)
}

func (t *Track) read(snap *Snapshot, kinds Kind) {
	if t.meter == nil {
		*snap = types.Unmeasured()

		return
	}

	t.meter.Read(snap, kinds)
}

func (t *Track) reset() {
	if t.meter != nil {
		t.meter.Reset()
	}

	t.mu.Lock()
	t.epoch = uuid.New()
	t.mu.Unlock()
}

// setPause attaches or detaches the track; it is a no-op when already in that state.
func (t *Track) setPause(paused bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if paused == t.paused {
		return nil
	}

	if t.meter != nil {
		if paused {
			t.host.Detach(t.index, t)
		} else if err := t.host.Attach(t.index, t); err != nil {
			return err
		}
	}

	t.paused = paused

	return nil
}

func (t *Track) detach() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.paused && t.meter != nil {
		t.host.Detach(t.index, t)
	}

	t.paused = true
}

func (t *Track) update(name string, trigger TriggerMode) {
	t.mu.Lock()
	t.name = name
	t.trigger = trigger
	t.mu.Unlock()
}
