package output

import (
	"github.com/farcloser/sonorium/internal/config"
	"github.com/farcloser/sonorium/internal/display"
)

// ConfigToMap describes a profile. Colours are rendered as #RRGGBB.
func ConfigToMap(cfg config.Config) map[string]any {
	tabs := make([]map[string]any, len(cfg.Tabs))
	for i, tab := range cfg.Tabs {
		tabs[i] = map[string]any{
			"name":    tab.Name,
			"track":   tab.Track,
			"trigger": tab.Trigger.String(),
		}
	}

	return map[string]any{
		"abbrev_label": cfg.AbbrevLabel,
		"tabs":         tabs,
		"thresholds":   cfg.Thresholds,
		"fg":           hexColors(cfg.FG),
		"bg":           hexColors(cfg.BG),
	}
}

func hexColors(colors []uint32) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = display.Color(c).Hex()
	}

	return out
}
