package sonorium

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/farcloser/sonorium/internal/config"
	"github.com/farcloser/sonorium/internal/loudness"
	"github.com/farcloser/sonorium/internal/types"
)

const (
	// TickInterval is the display refresh period Tick is designed for.
	TickInterval = 24 * time.Millisecond

	tickWrap = 15
)

// ProfileLoader returns the configuration to apply when the host profile changes.
type ProfileLoader func() config.Config

// Option customizes a Controller.
type Option func(*Controller)

// WithProfileLoader reloads configuration from loader on EventProfileChanged.
func WithProfileLoader(loader ProfileLoader) Option {
	return func(c *Controller) {
		c.loader = loader
	}
}

// WithMeterOptions passes options to every meter the controller creates.
func WithMeterOptions(opts ...loudness.Option) Option {
	return func(c *Controller) {
		c.meterOpts = append(c.meterOpts, opts...)
	}
}

// Report is what the display shows after one Tick.
type Report struct {
	Track    string
	Index    int
	Paused   bool
	Selected int
	Snapshot Snapshot
	// Kinds are the measures refreshed by this tick.
	Kinds Kind
	// ShortText and IntegratedText tell whether the numeric momentary/short-term and integrated labels
	// should be redrawn. Meters are redrawn on every tick.
	ShortText      bool
	IntegratedText bool
}

// Controller owns the metered tracks of a session.
type Controller struct {
	host      Host
	loader    ProfileLoader
	meterOpts []loudness.Option

	mu       sync.Mutex
	cfg      config.Config
	tracks   []*Track
	selected int
	last     Snapshot
	count    int

	// Host output state, in trigger bits.
	state           TriggerMode
	recordingPaused bool
	exited          bool
}

// New returns a Controller with no track.
func New(host Host, opts ...Option) *Controller {
	c := &Controller{
		host: host,
		cfg:  config.DefaultConfig(),
		last: types.Unmeasured(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// newTrack builds a track. On error the returned track is inert.
func (c *Controller) newTrack(spec TrackSpec) (*Track, error) {
	t := &Track{
		host:    c.host,
		index:   spec.Track,
		name:    spec.Name,
		trigger: spec.Trigger,
		paused:  true,
		epoch:   uuid.New(),
	}

	format, ok := c.host.AudioInfo()
	if !ok {
		err := fmt.Errorf("%w: host audio info unavailable", ErrUnsupportedFormat)
		slog.Error("failed to create meter", "name", spec.Name, "track", spec.Track, "error", err)

		return t, err
	}

	meter, err := loudness.New(format, c.meterOpts...)
	if err != nil {
		slog.Error("failed to create meter", "name", spec.Name, "track", spec.Track, "error", err)

		return t, err
	}

	t.meter = meter

	if !spec.Paused {
		if err := t.setPause(false); err != nil {
			slog.Error("failed to attach meter", "name", spec.Name, "track", spec.Track, "error", err)

			return t, err
		}
	}

	slog.Debug("track created", "name", spec.Name, "track", spec.Track, "format", format.String(),
		"paused", spec.Paused)

	return t, nil
}

// AddTrack meters a mixer track and appends it to the session.
func (c *Controller) AddTrack(spec TrackSpec) (*Track, error) {
	t, err := c.newTrack(spec)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.tracks = append(c.tracks, t)
	c.mu.Unlock()

	return t, nil
}

// RemoveTrack detaches t and drops it from the session.
func (c *Controller) RemoveTrack(t *Track) {
	if t == nil {
		return
	}

	c.mu.Lock()
	if i := slices.Index(c.tracks, t); i >= 0 {
		c.tracks = slices.Delete(c.tracks, i, i+1)
	}
	c.mu.Unlock()

	t.detach()
}

// SetPause detaches (paused) or reattaches a track, keeping its measurement.
func (c *Controller) SetPause(t *Track, paused bool) error {
	if t == nil {
		return nil
	}

	if err := t.setPause(paused); err != nil {
		return err
	}

	c.mu.Lock()
	c.count = 0
	c.mu.Unlock()

	return nil
}

// Reset discards the measurement of a track and starts a new epoch.
func (c *Controller) Reset(t *Track) {
	if t == nil {
		return
	}

	t.reset()

	c.mu.Lock()
	c.count = 0
	c.mu.Unlock()
}

// Query reads the selected measures of t; a nil or inert track is unmeasured.
func (c *Controller) Query(t *Track, kinds Kind) Snapshot {
	return t.query(kinds)
}

// Select makes the track at ix the displayed one. Out of range indices display the first track.
func (c *Controller) Select(ix int) {
	c.mu.Lock()
	c.selected = ix
	c.count = 0
	c.mu.Unlock()
}

// Selected returns the displayed track, or nil when the session is empty.
func (c *Controller) Selected() *Track {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selectedLocked()
}

func (c *Controller) selectedLocked() *Track {
	if len(c.tracks) == 0 {
		return nil
	}

	if c.selected < 0 || c.selected >= len(c.tracks) {
		return c.tracks[0]
	}

	return c.tracks[c.selected]
}

// Tracks returns the session tracks in display order.
func (c *Controller) Tracks() []*Track {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.tracks)
}

// Lookup returns the first track named name.
func (c *Controller) Lookup(name string) (*Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lookupLocked(name)
}

func (c *Controller) lookupLocked(name string) (*Track, error) {
	for _, t := range c.tracks {
		if t.Name() == name {
			return t, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidTrackSelector, name)
}

// resolve returns the track named name, or the selected track when there is none.
func (c *Controller) resolve(name string) *Track {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name != "" {
		if t, err := c.lookupLocked(name); err == nil {
			return t
		}
	}

	return c.selectedLocked()
}

// QueryByName reads the named track, falling back to the selected track.
func (c *Controller) QueryByName(name string, kinds Kind) Snapshot {
	return c.resolve(name).query(kinds)
}

// ResetByName resets the named track, falling back to the selected track.
func (c *Controller) ResetByName(name string) {
	c.Reset(c.resolve(name))
}

// PauseByName pauses or resumes the named track, falling back to the selected track.
func (c *Controller) PauseByName(name string, paused bool) error {
	return c.SetPause(c.resolve(name), paused)
}

// Last returns the snapshot read by the most recent Tick.
func (c *Controller) Last() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.last
}

// Config returns the configuration in effect, with one tab per session track.
func (c *Controller) Config() config.Config {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := c.cfg.Clone()

	cfg.Tabs = make([]config.Tab, len(c.tracks))
	for i, t := range c.tracks {
		cfg.Tabs[i] = tabOf(t)
	}

	return cfg
}

// Tick refreshes the cached snapshot from the selected track. It is meant to be called every
// TickInterval: momentary and short-term are read on every tick, the long measures every other tick.
func (c *Controller) Tick() Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.selectedLocked()
	if t == nil {
		return Report{Selected: -1, Snapshot: types.Unmeasured()}
	}

	kinds := KindShort
	if c.count%2 == 0 {
		kinds |= KindLong
	}

	if c.count >= tickWrap {
		c.count = 0
	} else {
		c.count++
	}

	t.read(&c.last, kinds)

	selected := c.selected
	if selected < 0 || selected >= len(c.tracks) {
		selected = 0
	}

	return Report{
		Track:          t.Name(),
		Index:          t.Index(),
		Paused:         t.Paused(),
		Selected:       selected,
		Snapshot:       c.last,
		Kinds:          kinds,
		ShortText:      c.count%4 == 0,
		IntegratedText: kinds&KindLong != 0 && c.count%16 == 1,
	}
}

// Apply reconciles the session with cfg. Tabs are matched by position and name: missing tabs get a new
// track, surplus ones are removed, and a tab whose mixer track changed gets a fresh meter.
func (c *Controller) Apply(cfg config.Config) {
	cfg = cfg.Clone()
	cfg.Repair()

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < len(cfg.Tabs) && len(cfg.Tabs) > len(c.tracks); i++ {
		if i >= len(c.tracks) || cfg.Tabs[i].Name != c.tracks[i].Name() {
			t, _ := c.newTrack(specOf(cfg.Tabs[i]))
			c.tracks = slices.Insert(c.tracks, i, t)
		}
	}

	for i := 0; i < len(c.tracks) && len(cfg.Tabs) < len(c.tracks); {
		if i >= len(cfg.Tabs) || cfg.Tabs[i].Name != c.tracks[i].Name() {
			c.tracks[i].detach()
			c.tracks = slices.Delete(c.tracks, i, i+1)
		} else {
			i++
		}
	}

	if len(cfg.Tabs) != len(c.tracks) {
		slog.Error("session does not match configuration", "tracks", len(c.tracks), "tabs", len(cfg.Tabs))
	} else {
		for i, tab := range cfg.Tabs {
			t := c.tracks[i]
			t.update(tab.Name, tab.Trigger)

			if tab.Track != t.Index() {
				fresh, _ := c.newTrack(specOf(tab))
				t.detach()
				c.tracks[i] = fresh
			}
		}
	}

	c.cfg = cfg
	c.count = 0
}

func specOf(tab config.Tab) TrackSpec {
	return TrackSpec{Name: tab.Name, Track: tab.Track, Trigger: tab.Trigger}
}

func tabOf(t *Track) config.Tab {
	return config.Tab{Name: t.Name(), Track: t.Index(), Trigger: t.Trigger()}
}

// OnEvent applies the trigger policy: tracks whose trigger matches the new host state are resumed (and
// reset when the state starts matching), the others are paused. Events after EventExit are ignored.
func (c *Controller) OnEvent(event Event) {
	c.mu.Lock()
	exited := c.exited
	c.mu.Unlock()

	if exited {
		return
	}

	if event == EventProfileChanged {
		if c.loader != nil {
			c.Apply(c.loader())
		}

		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state
	streamingUpdated, recordingUpdated := false, false

	switch event {
	case EventExit:
		c.exited = true

		return
	case EventStreamingStarted:
		next |= TriggerStreaming
		streamingUpdated = true
	case EventStreamingStopping:
		next &^= TriggerStreaming
		streamingUpdated = true
	case EventRecordingStarted:
		next |= TriggerRecording
		recordingUpdated = true
	case EventRecordingStopping:
		next &^= TriggerRecording
		recordingUpdated = true
	case EventRecordingPaused:
		c.recordingPaused = true
		recordingUpdated = true
	case EventRecordingUnpaused:
		c.recordingPaused = false
		recordingUpdated = true
	case EventProfileChanged:
		return
	}

	if !streamingUpdated && !recordingUpdated {
		return
	}

	updated := false

	for _, t := range c.tracks {
		trigger := t.Trigger()

		if streamingUpdated && trigger&TriggerStreaming == 0 {
			continue
		}

		if recordingUpdated && trigger&TriggerRecording == 0 {
			continue
		}

		if trigger&c.state == 0 && trigger&next != 0 {
			t.reset()
		}

		active := next
		if c.recordingPaused {
			active &^= TriggerRecording
		}

		if trigger&active != 0 {
			if err := t.setPause(false); err != nil {
				slog.Error("failed to resume track", "name", t.Name(), "error", err)
			}
		} else {
			wasPaused := t.Paused()
			_ = t.setPause(true)

			if !wasPaused {
				logSnapshot(t, t.query(KindAll))
			}
		}

		updated = true
	}

	if updated {
		c.count = 0
	}

	c.state = next
}

func logSnapshot(t *Track, snap Snapshot) {
	slog.Info("track paused",
		"name", t.Name(),
		"track", t.Index(),
		"M", fmt.Sprintf("%.1f", snap.Momentary),
		"S", fmt.Sprintf("%.1f", snap.ShortTerm),
		"I", fmt.Sprintf("%.1f", snap.Integrated),
		"R", fmt.Sprintf("%.1f", snap.Range),
		"P", fmt.Sprintf("%.1f", snap.TruePeak),
	)
}

// Close detaches every track and empties the session.
func (c *Controller) Close() {
	c.mu.Lock()
	tracks := c.tracks
	c.tracks = nil
	c.mu.Unlock()

	for _, t := range tracks {
		t.detach()
	}
}
