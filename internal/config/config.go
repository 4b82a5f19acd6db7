// Package config loads and saves the monitor profile: tabs bound to mixer tracks, the meter colour bands
// and display flags.
package config

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/farcloser/sonorium/internal/types"
)

// Tab binds a display name to a mixer track.
type Tab struct {
	Name    string
	Track   int
	Trigger types.TriggerMode
}

// Config is one profile. Colours are 0x00BBGGRR.
// Consistent when len(Thresholds)+1 == len(FG) == len(BG); Repair restores that.
type Config struct {
	AbbrevLabel bool
	Tabs        []Tab
	Thresholds  []float64
	FG          []uint32
	BG          []uint32
}

// DefaultConfig returns the profile used when nothing is persisted.
func DefaultConfig() Config {
	return Config{
		Tabs:       []Tab{defaultTab()},
		Thresholds: []float64{-23.0, -14.0},
		FG:         []uint32{0x00FF0000, 0x0000FF00, 0x000000FF},
		BG:         []uint32{0x00550000, 0x00005500, 0x00000055},
	}
}

func defaultTab() Tab {
	return Tab{Name: "A"}
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	c.Tabs = slices.Clone(c.Tabs)
	c.Thresholds = slices.Clone(c.Thresholds)
	c.FG = slices.Clone(c.FG)
	c.BG = slices.Clone(c.BG)

	return c
}

func tabKey(i int, field string) string {
	return fmt.Sprintf("tab.%d.%s", i, field)
}

// Upper bounds on persisted counts. Larger values are treated as corruption.
const (
	MaxTabs   = 64
	MaxColors = 64
)

// count reads a persisted count. Values above limit are logged and read as 0, so defaults apply.
func count(store Store, key string, limit int) int {
	n := store.Uint(key)
	if n > uint64(limit) {
		slog.Warn("persisted count out of range, using defaults",
			"key", key, "value", n, "max", limit, "error", types.ErrConfigInconsistency)

		return 0
	}

	return int(n) //nolint:gosec // bounded above
}

// Load reads a profile from store. Missing counts fall back to the defaults, track indices are clamped to
// [0, maxTracks) and colour tables are repaired.
func Load(store Store, maxTracks int) Config {
	defaults := DefaultConfig()
	cfg := Config{AbbrevLabel: store.Bool("abbrev_label")}

	if n := count(store, "n_tabs", MaxTabs); n == 0 {
		cfg.Tabs = defaults.Tabs
	} else {
		cfg.Tabs = make([]Tab, n)
		for i := range cfg.Tabs {
			cfg.Tabs[i] = Tab{
				Name:    store.String(tabKey(i, "name")),
				Track:   int(store.Int(tabKey(i, "track"))),
				Trigger: types.TriggerMode(store.Int(tabKey(i, "trigger"))), //nolint:gosec // small bitmask
			}
		}
	}

	for i := range cfg.Tabs {
		if track := cfg.Tabs[i].Track; maxTracks > 0 && (track < 0 || track >= maxTracks) {
			slog.Warn("track index out of range, using 0", "tab", cfg.Tabs[i].Name, "track", track, "max", maxTracks)
			cfg.Tabs[i].Track = 0
		}
	}

	if n := count(store, "n_colors", MaxColors); n == 0 {
		cfg.Thresholds = defaults.Thresholds
		cfg.FG = defaults.FG
		cfg.BG = defaults.BG
	} else {
		cfg.FG = make([]uint32, n)
		cfg.BG = make([]uint32, n)
		cfg.Thresholds = make([]float64, n-1)

		for i := range n {
			cfg.FG[i] = uint32(store.Uint(fmt.Sprintf("color.fg.%d", i))) //nolint:gosec // colour
			cfg.BG[i] = uint32(store.Uint(fmt.Sprintf("color.bg.%d", i))) //nolint:gosec // colour
		}

		for i := range n - 1 {
			cfg.Thresholds[i] = store.Float(fmt.Sprintf("threshold.%d", i))
		}
	}

	cfg.Repair()

	return cfg
}

// Save writes every key of cfg and persists the store.
func Save(store Store, cfg Config) error {
	store.SetBool("abbrev_label", cfg.AbbrevLabel)

	store.SetUint("n_tabs", uint64(len(cfg.Tabs)))
	for i, tab := range cfg.Tabs {
		store.SetString(tabKey(i, "name"), tab.Name)
		store.SetInt(tabKey(i, "track"), int64(tab.Track))
		store.SetInt(tabKey(i, "trigger"), int64(tab.Trigger))
	}

	store.SetUint("n_colors", uint64(len(cfg.FG)))
	for i, c := range cfg.FG {
		store.SetUint(fmt.Sprintf("color.fg.%d", i), uint64(c))
	}

	for i, c := range cfg.BG {
		store.SetUint(fmt.Sprintf("color.bg.%d", i), uint64(c))
	}

	for i, v := range cfg.Thresholds {
		store.SetFloat(fmt.Sprintf("threshold.%d", i), v)
	}

	return store.Save()
}

// Repair makes the colour tables consistent and reports whether anything changed.
// When thresholds and foreground colours disagree both are truncated to the largest consistent size;
// missing background colours are derived from the foreground at half intensity.
func (c *Config) Repair() bool {
	repaired := false

	if len(c.Thresholds)+1 != len(c.FG) {
		n := 1
		if len(c.Thresholds) > 0 && len(c.FG) > 1 {
			n = min(len(c.Thresholds)+1, len(c.FG))
		}

		slog.Warn("colour table repaired",
			"error", types.ErrConfigInconsistency,
			"thresholds", len(c.Thresholds), "fg", len(c.FG), "size", n)

		c.Thresholds = c.Thresholds[:n-1]
		if len(c.FG) < n {
			c.FG = append(c.FG, make([]uint32, n-len(c.FG))...)
		}

		c.FG = c.FG[:n]
		repaired = true
	}

	if len(c.BG) < len(c.FG) {
		slog.Warn("background colours repaired",
			"error", types.ErrConfigInconsistency, "bg", len(c.BG), "expected", len(c.FG))

		for _, fg := range c.FG[len(c.BG):] {
			c.BG = append(c.BG, (fg&0xFEFEFE)>>1)
		}

		repaired = true
	}

	if len(c.BG) > len(c.FG) {
		c.BG = c.BG[:len(c.FG)]
		repaired = true
	}

	return repaired
}

// Validate reports ErrConfigInconsistency when the colour tables disagree or thresholds are not increasing.
func (c Config) Validate() error {
	if len(c.Thresholds)+1 != len(c.FG) || len(c.BG) != len(c.FG) {
		return fmt.Errorf("%w: %d thresholds, %d fg, %d bg colours",
			types.ErrConfigInconsistency, len(c.Thresholds), len(c.FG), len(c.BG))
	}

	for i := 1; i < len(c.Thresholds); i++ {
		if c.Thresholds[i] <= c.Thresholds[i-1] {
			return fmt.Errorf("%w: thresholds not increasing at %d", types.ErrConfigInconsistency, i)
		}
	}

	return nil
}
