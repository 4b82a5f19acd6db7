package display

import "math"

// Band colours levels up to Upper (exclusive).
type Band struct {
	Upper float64
	FG    Color
	BG    Color
}

// Palette is a list of bands sorted by Upper. The last band is open-ended.
type Palette []Band

// NewPalette builds a palette from ascending thresholds and len(thresholds)+1 colour pairs.
// The last band extends to top. Missing background colours are derived from the foreground.
func NewPalette(thresholds []float64, fg, bg []uint32, top float64) Palette {
	n := min(len(fg), len(thresholds)+1)
	if n == 0 {
		return Palette{{Upper: top, FG: 0xFFFFFF, BG: Color(0xFFFFFF).Dim()}}
	}

	p := make(Palette, n)
	for i := range p {
		p[i].FG = Color(fg[i])

		if i < len(bg) {
			p[i].BG = Color(bg[i])
		} else {
			p[i].BG = p[i].FG.Dim()
		}

		if i < n-1 {
			p[i].Upper = thresholds[i]
		} else {
			p[i].Upper = top
		}
	}

	return p
}

// Lookup returns the band containing level. Unmeasured levels fall in the first band.
func (p Palette) Lookup(level float64) Band {
	if len(p) == 0 {
		return Band{Upper: math.Inf(1)}
	}

	for _, b := range p[:len(p)-1] {
		if level < b.Upper {
			return b
		}
	}

	return p[len(p)-1]
}
