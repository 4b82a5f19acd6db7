package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/farcloser/sonorium/internal/config"
	"github.com/farcloser/sonorium/internal/types"
)

func sample() config.Config {
	return config.Config{
		AbbrevLabel: true,
		Tabs: []config.Tab{
			{Name: "Program", Track: 0, Trigger: types.TriggerEither},
			{Name: "Commentary", Track: 3, Trigger: types.TriggerRecording},
		},
		Thresholds: []float64{-31.5, -23.0, -18.3},
		FG:         []uint32{0x00808080, 0x00FF0000, 0x0000FF00, 0x000000FF},
		BG:         []uint32{0x00404040, 0x00550000, 0x00005500, 0x00000055},
	}
}

func assertEqual(t *testing.T, got, want config.Config) {
	t.Helper()

	if got.AbbrevLabel != want.AbbrevLabel {
		t.Errorf("abbrev_label = %v, want %v", got.AbbrevLabel, want.AbbrevLabel)
	}

	if !slices.Equal(got.Tabs, want.Tabs) {
		t.Errorf("tabs = %+v, want %+v", got.Tabs, want.Tabs)
	}

	if !slices.Equal(got.Thresholds, want.Thresholds) {
		t.Errorf("thresholds = %v, want %v", got.Thresholds, want.Thresholds)
	}

	if !slices.Equal(got.FG, want.FG) || !slices.Equal(got.BG, want.BG) {
		t.Errorf("colours = %x / %x, want %x / %x", got.FG, got.BG, want.FG, want.BG)
	}
}

func TestRoundTripMemory(t *testing.T) {
	t.Parallel()

	store := config.NewMemoryStore()
	if err := config.Save(store, sample()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if store.Saves() != 1 {
		t.Errorf("saves = %d, want 1", store.Saves())
	}

	assertEqual(t, config.Load(store, 6), sample())
}

func TestRoundTripINI(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.ini")

	store, err := config.OpenINI(path)
	if err != nil {
		t.Fatalf("OpenINI: %v", err)
	}

	if store.Exists() {
		t.Fatal("profile exists before save")
	}

	if err := config.Save(store, sample()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened, err := config.OpenINI(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	assertEqual(t, config.Load(reopened, 6), sample())
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.Load(config.NewMemoryStore(), 6)
	assertEqual(t, cfg, config.DefaultConfig())

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}

	if cfg.Tabs[0].Name != "A" || cfg.Tabs[0].Track != 0 {
		t.Errorf("default tab = %+v", cfg.Tabs[0])
	}
}

func TestLoadClampsTrack(t *testing.T) {
	t.Parallel()

	store := config.NewMemoryStore()
	store.SetUint("n_tabs", 2)
	store.SetString("tab.0.name", "ok")
	store.SetInt("tab.0.track", 5)
	store.SetString("tab.1.name", "bad")
	store.SetInt("tab.1.track", 9)

	cfg := config.Load(store, 6)
	if cfg.Tabs[0].Track != 5 || cfg.Tabs[1].Track != 0 {
		t.Errorf("tracks = %d, %d, want 5, 0", cfg.Tabs[0].Track, cfg.Tabs[1].Track)
	}
}

func TestLoadRejectsCorruptCounts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		profile string
	}{
		{"tabs overflow", "n_tabs = 18446744073709551615\n"},
		{"colours overflow", "n_colors = 18446744073709551615\n"},
		{"tabs too many", "n_tabs = 10000000\n"},
		{"colours too many", "n_colors = 10000000\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "profile.ini")
			if err := os.WriteFile(path, []byte("[LoudnessDock]\n"+tc.profile), 0o600); err != nil {
				t.Fatal(err)
			}

			store, err := config.OpenINI(path)
			if err != nil {
				t.Fatalf("OpenINI: %v", err)
			}

			assertEqual(t, config.Load(store, 6), config.DefaultConfig())
		})
	}
}

func TestLoadAcceptsCountAtLimit(t *testing.T) {
	t.Parallel()

	store := config.NewMemoryStore()
	store.SetUint("n_tabs", config.MaxTabs)

	if got := len(config.Load(store, 6).Tabs); got != config.MaxTabs {
		t.Errorf("tabs = %d, want %d", got, config.MaxTabs)
	}
}

func TestRepair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		in         config.Config
		thresholds []float64
		fg         []uint32
		bg         []uint32
	}{
		{
			name:       "fg shorter than thresholds",
			in:         config.Config{Thresholds: []float64{-30, -20, -10}, FG: []uint32{1, 2}, BG: []uint32{3, 4}},
			thresholds: []float64{-30},
			fg:         []uint32{1, 2},
			bg:         []uint32{3, 4},
		},
		{
			name:       "fg longer than thresholds",
			in:         config.Config{Thresholds: []float64{-20}, FG: []uint32{1, 2, 3}, BG: []uint32{4, 5, 6}},
			thresholds: []float64{-20},
			fg:         []uint32{1, 2},
			bg:         []uint32{4, 5},
		},
		{
			name:       "no thresholds",
			in:         config.Config{FG: []uint32{7, 8}, BG: []uint32{9}},
			thresholds: []float64{},
			fg:         []uint32{7},
			bg:         []uint32{9},
		},
		{
			name:       "missing background",
			in:         config.Config{Thresholds: []float64{-20}, FG: []uint32{0x00FF0000, 0x0000FF01}},
			thresholds: []float64{-20},
			fg:         []uint32{0x00FF0000, 0x0000FF01},
			bg:         []uint32{0x007F0000, 0x00007F00},
		},
		{
			name:       "nothing at all",
			in:         config.Config{},
			thresholds: []float64{},
			fg:         []uint32{0},
			bg:         []uint32{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.in.Clone()
			if !cfg.Repair() {
				t.Error("Repair reported nothing to do")
			}

			if !slices.Equal(cfg.Thresholds, tt.thresholds) || !slices.Equal(cfg.FG, tt.fg) || !slices.Equal(cfg.BG, tt.bg) {
				t.Errorf("repaired to %v / %x / %x, want %v / %x / %x",
					cfg.Thresholds, cfg.FG, cfg.BG, tt.thresholds, tt.fg, tt.bg)
			}

			if err := cfg.Validate(); err != nil {
				t.Errorf("still invalid: %v", err)
			}

			if cfg.Repair() {
				t.Error("second Repair changed something")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := sample()
	cfg.Thresholds[1] = -40

	if err := cfg.Validate(); !errors.Is(err, types.ErrConfigInconsistency) {
		t.Errorf("non-increasing thresholds error = %v", err)
	}
}
