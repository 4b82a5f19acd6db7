// Package scratch provides a reusable float64 work area whose capacity only grows.
package scratch

// Buffer is a float64 slice with reuse-friendly semantics.
// The length follows the last Resize; the capacity only grows, so steady block sizes never allocate.
type Buffer struct {
	samples []float64
}

// New returns a Buffer with room for at least capacity samples and a zero length.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}

	return &Buffer{samples: make([]float64, 0, capacity)}
}

// Samples returns the current view.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

// Len returns the current number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Cap returns the capacity of the backing array.
func (b *Buffer) Cap() int {
	return cap(b.samples)
}

// Resize sets the length to n and returns the view.
// It allocates only when n exceeds the capacity; contents are not preserved nor cleared.
func (b *Buffer) Resize(n int) []float64 {
	if n < 0 {
		n = 0
	}

	if n > cap(b.samples) {
		b.samples = make([]float64, n)

		return b.samples
	}

	b.samples = b.samples[:n]

	return b.samples
}

// Zero sets all samples in the current view to 0.
func (b *Buffer) Zero() {
	clear(b.samples)
}
