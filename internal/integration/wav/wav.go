// Package wav reads integer PCM WAV files directly, without going through ffmpeg.
package wav

import (
	"errors"
	"fmt"
	"os"

	"github.com/farcloser/primordium/fault"
	"github.com/go-audio/wav"

	"github.com/farcloser/sonorium/internal/types"
)

// ErrInvalidFile is returned for files that are not RIFF/WAVE.
var ErrInvalidFile = errors.New("invalid WAV file")

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// Read decodes a 16, 24 or 32 bit integer PCM WAV file into a planar float clip.
// Float and 8 bit files report types.ErrUnsupportedFormat, callers fall back to ffmpeg for those.
func Read(path string) (*types.Clip, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}

	if decoder.WavAudioFormat != formatPCM && decoder.WavAudioFormat != formatExtensible {
		return nil, fmt.Errorf("%w: wav audio format %d", types.ErrUnsupportedFormat, decoder.WavAudioFormat)
	}

	var divisor float32

	switch decoder.BitDepth {
	case 16:
		divisor = types.MaxValue16
	case 24:
		divisor = types.MaxValue24
	case 32:
		divisor = types.MaxValue32
	default:
		return nil, fmt.Errorf("%w: %d bit", types.ErrUnsupportedFormat, decoder.BitDepth)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	format := types.Format{SampleRate: buf.Format.SampleRate, Channels: buf.Format.NumChannels}
	if err = format.Validate(); err != nil {
		return nil, err
	}

	frames := len(buf.Data) / format.Channels
	clip := &types.Clip{Format: format, Planes: make([][]float32, format.Channels)}

	for ch := range clip.Planes {
		plane := make([]float32, frames)
		for i := range plane {
			plane[i] = float32(buf.Data[i*format.Channels+ch]) / divisor
		}

		clip.Planes[ch] = plane
	}

	return clip, nil
}
