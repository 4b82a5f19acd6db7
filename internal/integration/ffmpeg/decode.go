package ffmpeg

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/farcloser/primordium/fault"
	"golang.org/x/sync/errgroup"

	"github.com/farcloser/sonorium/internal/types"
)

const bytesPerSample = 4

// DecodeFloat32 reads interleaved little-endian float32 frames into a planar clip.
// A trailing partial frame is dropped.
func DecodeFloat32(input io.Reader, format types.Format) (*types.Clip, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	clip := &types.Clip{Format: format, Planes: make([][]float32, format.Channels)}

	reader := bufio.NewReaderSize(input, 64*1024)
	frame := make([]byte, bytesPerSample*format.Channels)

	for {
		if _, err := io.ReadFull(reader, frame); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}

			return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}

		for ch := range clip.Planes {
			bits := binary.LittleEndian.Uint32(frame[ch*bytesPerSample:])
			clip.Planes[ch] = append(clip.Planes[ch], math.Float32frombits(bits))
		}
	}

	return clip, nil
}

// Decode runs a media file through ffmpeg and returns the decoded stream as a planar clip.
func Decode(ctx context.Context, filePath string, streamIndex int, format types.Format) (*types.Clip, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	reader, writer := io.Pipe()

	var clip *types.Clip

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		err := ExtractStream(ctx, file, writer, streamIndex, format)
		writer.CloseWithError(err)

		return err
	})

	group.Go(func() error {
		var err error

		clip, err = DecodeFloat32(reader, format)
		reader.CloseWithError(err)

		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return clip, nil
}
