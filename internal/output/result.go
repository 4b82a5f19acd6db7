// Package output provides shared snapshot serialization for sonorium JSON output and remote responses.
package output

import (
	"fmt"
	"math"

	"github.com/farcloser/sonorium"
	"github.com/farcloser/sonorium/internal/types"
)

// Response keys, in canonical order.
const (
	KeyMomentary  = "momentary"
	KeyShort      = "short"
	KeyIntegrated = "integrated"
	KeyRange      = "range"
	KeyPeak       = "peak"
)

//nolint:gochecknoglobals // configuration data, effectively const
var keys = [5]string{KeyMomentary, KeyShort, KeyIntegrated, KeyRange, KeyPeak}

// Keys returns the snapshot keys in canonical order.
func Keys() []string {
	return keys[:]
}

func raw(v float64) any {
	if types.IsUnmeasured(v) || math.IsNaN(v) {
		return nil
	}

	return v
}

// SnapshotToMap converts a snapshot into the canonical map used for JSON and remote responses.
// Unmeasured values are nil, since JSON has no infinity.
func SnapshotToMap(snap types.Snapshot) map[string]any {
	out := make(map[string]any, len(keys))
	for i, v := range snap.Values() {
		out[keys[i]] = raw(v)
	}

	return out
}

func level(v float64, unit string) string {
	if types.IsUnmeasured(v) {
		return "-inf " + unit
	}

	return fmt.Sprintf("%.1f %s", v, unit)
}

// FriendlySnapshot converts a snapshot into human readable strings.
func FriendlySnapshot(snap types.Snapshot) map[string]any {
	return map[string]any{
		"momentary":  level(snap.Momentary, "LUFS"),
		"short_term": level(snap.ShortTerm, "LUFS"),
		"integrated": level(snap.Integrated, "LUFS"),
		"range":      level(snap.Range, "LU"),
		"true_peak":  level(snap.TruePeak, "dBTP"),
	}
}

// TrackToMap describes a session track and its measurement.
func TrackToMap(track *sonorium.Track, snap types.Snapshot) map[string]any {
	stats := track.Stats()

	return map[string]any{
		"name":     track.Name(),
		"track":    track.Index(),
		"trigger":  track.Trigger().String(),
		"paused":   track.Paused(),
		"epoch":    track.Epoch().String(),
		"frames":   stats.Frames,
		"blocks":   stats.GatingBlocks,
		"loudness": SnapshotToMap(snap),
	}
}
