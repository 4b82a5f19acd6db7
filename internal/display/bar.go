package display

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Default meter scale, in LUFS.
const (
	DefaultMin = -59.0
	DefaultMax = -5.0
)

// Bar is a horizontal level meter Width cells wide spanning [Min, Max].
type Bar struct {
	Min   float64
	Max   float64
	Width int
	// Plain draws with '#' and '-' instead of colours.
	Plain bool
}

// NewBar returns a bar on the default scale.
func NewBar(width int) Bar {
	return Bar{Min: DefaultMin, Max: DefaultMax, Width: width}
}

// Position returns the number of filled cells for level, clamped to the bar.
func (b Bar) Position(level float64) int {
	if b.Width <= 0 || b.Max <= b.Min || math.IsNaN(level) {
		return 0
	}

	level = min(max(level, b.Min), b.Max)

	return int(float64(b.Width) * (level - b.Min) / (b.Max - b.Min))
}

// Render draws the bar: cells below level in their band foreground, the rest in the band background.
func (b Bar) Render(level float64, palette Palette) string {
	if b.Width <= 0 {
		return ""
	}

	pos := b.Position(level)
	step := (b.Max - b.Min) / float64(b.Width)

	var (
		out      strings.Builder
		run      strings.Builder
		runStyle lipgloss.Style
		runColor Color
		started  bool
	)

	flush := func() {
		if run.Len() == 0 {
			return
		}

		out.WriteString(runStyle.Render(run.String()))
		run.Reset()
	}

	for i := range b.Width {
		filled := i < pos

		if b.Plain {
			if filled {
				out.WriteByte('#')
			} else {
				out.WriteByte('-')
			}

			continue
		}

		band := palette.Lookup(b.Min + (float64(i)+0.5)*step)

		color := band.BG
		if filled {
			color = band.FG
		}

		if !started || color != runColor {
			flush()

			runColor = color
			runStyle = lipgloss.NewStyle().Background(color.terminal())
			started = true
		}

		run.WriteByte(' ')
	}

	flush()

	return out.String()
}
