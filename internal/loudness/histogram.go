package loudness

import "math"

const (
	histogramBins = 1000
	histogramMin  = -70.0 // LUFS, also the absolute gate
	histogramStep = 0.1   // LU per bin
)

// histogram accumulates gating blocks by loudness, 0.1 LU per bin over (-70, +30] LUFS.
// Each bin keeps the energy sum of its blocks, so means are exact and only gate positions are quantized.
// Blocks quieter than the absolute gate are never stored.
type histogram struct {
	counts [histogramBins]uint64
	energy [histogramBins]float64
	total  uint64
}

func binOf(loudness float64) int {
	idx := int(math.Floor((loudness - histogramMin) / histogramStep))

	return min(max(idx, 0), histogramBins-1)
}

func binCenter(idx int) float64 {
	return histogramMin + (float64(idx)+0.5)*histogramStep
}

// startBin returns the first bin entirely at or above threshold.
func startBin(threshold float64) int {
	if threshold < histogramMin {
		return 0
	}

	idx := binOf(threshold)
	if threshold > histogramMin+float64(idx)*histogramStep {
		idx++
	}

	return idx
}

// add stores a block mean square; it reports false when the block falls below the absolute gate.
func (h *histogram) add(meanSquare float64) bool {
	l := energyToLoudness(meanSquare)
	if l < histogramMin {
		return false
	}

	idx := binOf(l)
	h.counts[idx]++
	h.energy[idx] += meanSquare
	h.total++

	return true
}

func (h *histogram) reset() {
	clear(h.counts[:])
	clear(h.energy[:])
	h.total = 0
}

// relativeStart returns the first bin above the relative gate, computed from the mean energy of every stored
// block, offset by gate LU.
func (h *histogram) relativeStart(gate float64) int {
	var sum float64
	for _, e := range h.energy {
		sum += e
	}

	return startBin(energyToLoudness(sum/float64(h.total)) + gate)
}

// gatedLoudness returns the mean loudness of the blocks above the relative gate.
func (h *histogram) gatedLoudness(gate float64) float64 {
	if h.total == 0 {
		return math.Inf(-1)
	}

	var (
		sum   float64
		count uint64
	)

	for i := h.relativeStart(gate); i < histogramBins; i++ {
		sum += h.energy[i]
		count += h.counts[i]
	}

	if count == 0 {
		return math.Inf(-1)
	}

	return energyToLoudness(sum / float64(count))
}

// spread returns the distance between the low and high percentiles of the blocks above the relative gate.
func (h *histogram) spread(gate, low, high float64) (float64, bool) {
	if h.total == 0 {
		return 0, false
	}

	start := h.relativeStart(gate)

	var n uint64
	for i := start; i < histogramBins; i++ {
		n += h.counts[i]
	}

	if n == 0 {
		return 0, false
	}

	lowRank := uint64(float64(n-1)*low + 0.5)
	highRank := uint64(float64(n-1)*high + 0.5)

	var size uint64

	j := start
	for size <= lowRank {
		size += h.counts[j]
		j++
	}

	lowLoudness := binCenter(j - 1)

	for size <= highRank {
		size += h.counts[j]
		j++
	}

	return binCenter(j-1) - lowLoudness, true
}
