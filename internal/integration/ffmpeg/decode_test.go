package ffmpeg_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/farcloser/sonorium/internal/integration/ffmpeg"
	"github.com/farcloser/sonorium/internal/types"
)

func TestDecodeFloat32(t *testing.T) {
	t.Parallel()

	var raw bytes.Buffer

	samples := []float32{0.5, -0.5, 0.25, -0.25, 1, -1}
	for _, s := range samples {
		_ = binary.Write(&raw, binary.LittleEndian, math.Float32bits(s))
	}

	// Half a frame of trailing garbage.
	raw.Write([]byte{1, 2, 3})

	clip, err := ffmpeg.DecodeFloat32(&raw, types.Format{SampleRate: 48000, Channels: 2})
	if err != nil {
		t.Fatalf("DecodeFloat32: %v", err)
	}

	if clip.Frames() != 3 {
		t.Fatalf("frames = %d, want 3", clip.Frames())
	}

	wantLeft := []float32{0.5, 0.25, 1}
	wantRight := []float32{-0.5, -0.25, -1}

	for i := range 3 {
		if clip.Planes[0][i] != wantLeft[i] || clip.Planes[1][i] != wantRight[i] {
			t.Errorf("frame %d = %v/%v", i, clip.Planes[0][i], clip.Planes[1][i])
		}
	}
}

func TestDecodeFloat32RejectsFormat(t *testing.T) {
	t.Parallel()

	if _, err := ffmpeg.DecodeFloat32(bytes.NewReader(nil), types.Format{}); !errors.Is(err, types.ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}
