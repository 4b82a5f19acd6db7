package loudness

import "gonum.org/v1/gonum/floats"

// window is a sliding sum over the last len(buf) frame energies.
// The running sum is rebuilt each time the ring wraps, so rounding error cannot accumulate past one window.
type window struct {
	buf []float64
	pos int
	sum float64
}

func newWindow(frames int) window {
	return window{buf: make([]float64, frames)}
}

func (w *window) push(energy float64) {
	w.sum += energy - w.buf[w.pos]
	w.buf[w.pos] = energy

	w.pos++
	if w.pos == len(w.buf) {
		w.pos = 0
		w.sum = floats.Sum(w.buf)
	}
}

// meanSquare returns the window energy, zero-padded while the window is still filling.
func (w *window) meanSquare() float64 {
	if w.sum <= 0 {
		return 0
	}

	return w.sum / float64(len(w.buf))
}

func (w *window) reset() {
	clear(w.buf)
	w.pos = 0
	w.sum = 0
}
