package display

import (
	"fmt"
	"strings"

	"github.com/farcloser/sonorium"
	"github.com/farcloser/sonorium/internal/config"
	"github.com/farcloser/sonorium/internal/types"
)

// FormatLevel prints a level with one decimal, or "-inf" when unmeasured.
func FormatLevel(v float64) string {
	if types.IsUnmeasured(v) {
		return "-inf"
	}

	return fmt.Sprintf("%.1f", v)
}

type row struct {
	label  string
	abbrev string
	unit   string
	meter  bool
	text   string
	level  float64
}

const (
	rowMomentary = iota
	rowShort
	rowIntegrated
	rowRange
	rowPeak
)

// Panel keeps the state of the monitor display between ticks: numeric labels are only refreshed when a
// report asks for it, meters follow every report.
type Panel struct {
	abbrev  bool
	bar     Bar
	palette Palette
	rows    [5]row
	header  string
}

// NewPanel returns a panel using the colour bands and label style of cfg.
func NewPanel(cfg config.Config, bar Bar) *Panel {
	p := &Panel{
		abbrev:  cfg.AbbrevLabel,
		bar:     bar,
		palette: NewPalette(cfg.Thresholds, cfg.FG, cfg.BG, bar.Max),
		rows: [5]row{
			{label: "Momentary", abbrev: "M", unit: "LUFS", meter: true},
			{label: "Short-term", abbrev: "S", unit: "LUFS", meter: true},
			{label: "Integrated", abbrev: "I", unit: "LUFS", meter: true},
			{label: "Range", unit: "LU"},
			{label: "Peak", unit: "dBTP"},
		},
	}

	for i, v := range types.Unmeasured().Values() {
		p.rows[i].text = FormatLevel(v)
		p.rows[i].level = v
	}

	return p
}

// Palette returns the colour bands in use.
func (p *Panel) Palette() Palette {
	return p.palette
}

// Update folds one tick report into the panel.
func (p *Panel) Update(report sonorium.Report) {
	values := report.Snapshot.Values()

	state := ""
	if report.Paused {
		state = " (paused)"
	}

	p.header = fmt.Sprintf("[%s] track %d%s", report.Track, report.Index, state)

	if report.Kinds&types.KindShort != 0 {
		p.rows[rowMomentary].level = values[rowMomentary]
		p.rows[rowShort].level = values[rowShort]

		if report.ShortText {
			p.rows[rowMomentary].text = FormatLevel(values[rowMomentary])
			p.rows[rowShort].text = FormatLevel(values[rowShort])
		}
	}

	if report.Kinds&types.KindLong != 0 {
		p.rows[rowIntegrated].level = values[rowIntegrated]

		if report.IntegratedText {
			p.rows[rowIntegrated].text = FormatLevel(values[rowIntegrated])
		}

		p.rows[rowRange].text = FormatLevel(values[rowRange])
		p.rows[rowPeak].text = FormatLevel(values[rowPeak])
	}
}

// Lines renders the panel.
func (p *Panel) Lines() []string {
	lines := []string{p.header}

	for i, r := range p.rows {
		label := r.label
		if p.abbrev {
			if i >= rowRange {
				continue
			}

			label = r.abbrev
		}

		line := fmt.Sprintf("%-10s %6s %-4s", label, r.text, r.unit)
		if p.abbrev {
			line = fmt.Sprintf("%-1s %6s %-4s", label, r.text, r.unit)
		}

		if r.meter {
			line += " " + p.bar.Render(r.level, p.palette)
		}

		lines = append(lines, line)
	}

	return lines
}

// String renders the panel as one block of text.
func (p *Panel) String() string {
	return strings.Join(p.Lines(), "\n")
}
