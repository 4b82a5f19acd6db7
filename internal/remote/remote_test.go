package remote_test

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/farcloser/sonorium"
	"github.com/farcloser/sonorium/internal/remote"
	"github.com/farcloser/sonorium/internal/source"
	"github.com/farcloser/sonorium/internal/types"
)

func session(t *testing.T) (*source.Mixer, *sonorium.Controller, *remote.Registry) {
	t.Helper()

	mixer := source.NewMixer(types.Format{SampleRate: 48000, Channels: 2}, 0)
	ctl := sonorium.New(mixer)
	t.Cleanup(ctl.Close)

	for i, name := range []string{"main", "aux"} {
		if _, err := ctl.AddTrack(sonorium.TrackSpec{Name: name, Track: i}); err != nil {
			t.Fatal(err)
		}
	}

	registry := remote.NewRegistry()
	vendor := remote.NewVendor(ctl)

	if err := vendor.Register(registry); err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Cleanup(vendor.Unregister)

	return mixer, ctl, registry
}

func tone(mixer *source.Mixer, track int, amp float64) {
	plane := make([]float32, 48000)
	for i := range plane {
		plane[i] = float32(amp * math.Sin(2*math.Pi*1000*float64(i)/48000))
	}

	mixer.Push(track, [][]float32{plane, plane}, len(plane))
}

func TestRegister(t *testing.T) {
	t.Parallel()

	_, ctl, registry := session(t)

	if got := registry.Names(); !slices.Equal(got, []string{"get_loudness", "pause", "reset"}) {
		t.Errorf("names = %v", got)
	}

	if err := remote.NewVendor(ctl).Register(registry); !errors.Is(err, remote.ErrDuplicateRequest) {
		t.Errorf("second register error = %v", err)
	}

	if got := registry.Names(); len(got) != 3 {
		t.Errorf("failed register left %v", got)
	}

	if _, err := registry.Call(context.Background(), "nope", nil); !errors.Is(err, remote.ErrUnknownRequest) {
		t.Errorf("unknown call error = %v", err)
	}
}

func TestGetLoudness(t *testing.T) {
	t.Parallel()

	mixer, ctl, registry := session(t)
	ctx := context.Background()

	tone(mixer, 1, 0.5)

	resp, err := registry.Call(ctx, remote.RequestGetLoudness, map[string]any{"name": "aux"})
	if err != nil {
		t.Fatal(err)
	}

	momentary, ok := resp["momentary"].(float64)
	if !ok || math.Abs(momentary-(-6.02)) > 0.5 {
		t.Errorf("aux momentary = %v", resp["momentary"])
	}

	// Without a known name the answer is the last displayed snapshot, not a live read.
	resp, err = registry.Call(ctx, remote.RequestGetLoudness, map[string]any{"name": "missing"})
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"momentary", "short", "integrated", "range", "peak"} {
		if resp[key] != nil {
			t.Errorf("%s = %v before any tick, want nil", key, resp[key])
		}
	}

	ctl.Select(1)
	ctl.Tick()

	resp, _ = registry.Call(ctx, remote.RequestGetLoudness, nil)
	if resp["momentary"] == nil {
		t.Error("cached snapshot not returned after tick")
	}
}

// removingControls drops every track it hands out, as a concurrent profile change would.
type removingControls struct {
	*sonorium.Controller
}

func (c removingControls) Lookup(name string) (*sonorium.Track, error) {
	track, err := c.Controller.Lookup(name)
	if err == nil {
		c.RemoveTrack(track)
	}

	return track, err
}

func TestGetLoudnessTrackRemovedDuringRequest(t *testing.T) {
	t.Parallel()

	mixer, ctl, _ := session(t)

	tone(mixer, 0, 0.5)
	tone(mixer, 1, 0.1)

	registry := remote.NewRegistry()
	if err := remote.NewVendor(removingControls{ctl}).Register(registry); err != nil {
		t.Fatal(err)
	}

	resp, err := registry.Call(context.Background(), remote.RequestGetLoudness, map[string]any{"name": "aux"})
	if err != nil {
		t.Fatal(err)
	}

	momentary, ok := resp["momentary"].(float64)
	if !ok {
		t.Fatalf("momentary = %v", resp["momentary"])
	}

	// aux carries the 0.1 tone (-20 LUFS in stereo); main, the selected track, sits at -6.
	if math.Abs(momentary-(-20)) > 0.5 {
		t.Errorf("momentary = %.2f, want aux level -20", momentary)
	}

	if len(ctl.Tracks()) != 1 {
		t.Errorf("tracks = %d, want 1", len(ctl.Tracks()))
	}
}

func TestPauseAndReset(t *testing.T) {
	t.Parallel()

	mixer, ctl, registry := session(t)
	ctx := context.Background()

	if _, err := registry.Call(ctx, remote.RequestPause, map[string]any{"name": "aux"}); err != nil {
		t.Fatal(err)
	}

	aux, _ := ctl.Lookup("aux")
	primary, _ := ctl.Lookup("main")

	if !aux.Paused() || primary.Paused() || mixer.Attached(1) != 0 {
		t.Errorf("pause aux: aux = %v, main = %v", aux.Paused(), primary.Paused())
	}

	if _, err := registry.Call(ctx, remote.RequestPause, map[string]any{"name": "aux", "pause": false}); err != nil {
		t.Fatal(err)
	}

	if aux.Paused() {
		t.Error("resume did not resume")
	}

	// Unknown names act on the selected track.
	if _, err := registry.Call(ctx, remote.RequestPause, map[string]any{"name": "missing"}); err != nil {
		t.Fatal(err)
	}

	if !primary.Paused() {
		t.Error("fallback pause did not pause the selected track")
	}

	if _, err := registry.Call(ctx, remote.RequestPause, map[string]any{"pause": "yes"}); !errors.Is(err, remote.ErrInvalidRequest) {
		t.Errorf("non-boolean pause error = %v", err)
	}

	tone(mixer, 1, 0.5)
	epoch := aux.Epoch()

	if _, err := registry.Call(ctx, remote.RequestReset, map[string]any{"name": "aux"}); err != nil {
		t.Fatal(err)
	}

	if aux.Epoch() == epoch || aux.Stats().Frames != 0 {
		t.Error("reset did not reset aux")
	}
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line    string
		request string
		body    map[string]any
	}{
		{"get", remote.RequestGetLoudness, map[string]any{}},
		{"  get  Main Mix ", remote.RequestGetLoudness, map[string]any{"name": "Main Mix"}},
		{"reset aux", remote.RequestReset, map[string]any{"name": "aux"}},
		{"PAUSE", remote.RequestPause, map[string]any{"pause": true}},
		{"resume aux", remote.RequestPause, map[string]any{"name": "aux", "pause": false}},
	}

	for _, tt := range tests {
		cmd, err := remote.ParseCommand(tt.line)
		if err != nil {
			t.Errorf("ParseCommand(%q): %v", tt.line, err)

			continue
		}

		if cmd.Request != tt.request || len(cmd.Body) != len(tt.body) {
			t.Errorf("ParseCommand(%q) = %+v", tt.line, cmd)

			continue
		}

		for k, v := range tt.body {
			if cmd.Body[k] != v {
				t.Errorf("ParseCommand(%q)[%s] = %v, want %v", tt.line, k, cmd.Body[k], v)
			}
		}
	}

	if _, err := remote.ParseCommand("explode"); !errors.Is(err, remote.ErrUnknownCommand) {
		t.Errorf("unknown verb error = %v", err)
	}
}
