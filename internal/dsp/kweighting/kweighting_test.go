package kweighting

import (
	"math"
	"testing"
)

// Tabulated 48 kHz coefficients from ITU-R BS.1770-4, tables 1 and 2.
func TestCoefficients48k(t *testing.T) {
	shelf, rlb := Coefficients(48000)

	want := []struct {
		name      string
		got, want float64
	}{
		{"shelf b0", shelf.B0, 1.53512485958697},
		{"shelf b1", shelf.B1, -2.69169618940638},
		{"shelf b2", shelf.B2, 1.19839281085285},
		{"shelf a1", shelf.A1, -1.69065929318241},
		{"shelf a2", shelf.A2, 0.73248077421585},
		{"rlb b0", rlb.B0, 1.0},
		{"rlb b1", rlb.B1, -2.0},
		{"rlb b2", rlb.B2, 1.0},
		{"rlb a1", rlb.A1, -1.99004745483398},
		{"rlb a2", rlb.A2, 0.99007225036621},
	}

	for _, c := range want {
		if math.Abs(c.got-c.want) > 1e-6 {
			t.Errorf("%s = %.14f, want %.14f", c.name, c.got, c.want)
		}
	}
}

func TestResponse(t *testing.T) {
	f := New(48000)

	// The -0.691 dB offset of the loudness formula compensates the gain at 997 Hz.
	if got := f.Response(997, 48000); math.Abs(got-0.691) > 0.05 {
		t.Errorf("response at 997 Hz = %.3f dB, want ~0.691", got)
	}

	if got := f.Response(10, 48000); got > -10 {
		t.Errorf("response at 10 Hz = %.2f dB, want strong attenuation", got)
	}

	if got := f.Response(10000, 48000); math.Abs(got-4.0) > 0.3 {
		t.Errorf("response at 10 kHz = %.2f dB, want ~+4 dB shelf", got)
	}
}

func TestProcessBlockMatchesProcessSample(t *testing.T) {
	a := New(44100)
	b := New(44100)

	in := make([]float64, 512)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 44100)
	}

	block := append([]float64(nil), in...)
	a.ProcessBlock(block)

	for i, v := range in {
		if got := b.ProcessSample(v); got != block[i] {
			t.Fatalf("sample %d: block=%v sample=%v", i, block[i], got)
		}
	}
}

func TestReset(t *testing.T) {
	f := New(48000)

	f.ProcessBlock([]float64{1, 0.5, -0.25, 0.75})
	f.Reset()

	fresh := New(48000)

	for _, v := range []float64{0.3, -0.2, 0.1} {
		if got, want := f.ProcessSample(v), fresh.ProcessSample(v); got != want {
			t.Fatalf("after reset got %v, want %v", got, want)
		}
	}
}
