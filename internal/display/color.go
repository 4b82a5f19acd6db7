// Package display renders loudness levels as colour-band meter bars for terminals.
package display

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color is a packed 0x00BBGGRR value, as stored in profiles.
type Color uint32

// RGB unpacks the colour.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c & 0xff), uint8((c >> 8) & 0xff), uint8((c >> 16) & 0xff) //nolint:gosec // masked
}

// Hex returns the colour as #RRGGBB.
func (c Color) Hex() string {
	r, g, b := c.RGB()

	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Dim returns the colour at half intensity.
func (c Color) Dim() Color {
	return (c & 0xFEFEFE) >> 1
}

func (c Color) terminal() lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
