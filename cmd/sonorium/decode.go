//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/sonorium/internal/integration/ffmpeg"
	"github.com/farcloser/sonorium/internal/integration/ffprobe"
	"github.com/farcloser/sonorium/internal/integration/wav"
	"github.com/farcloser/sonorium/internal/types"
)

var errInvalidArgCount = errors.New("expected exactly one argument: file path")

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "stream",
			Usage: "Audio stream index (0-based)",
			Value: 0,
		},
		&cli.IntFlag{
			Name:    "sample-rate",
			Aliases: []string{"s"},
			Usage:   "Resample to this rate in Hz before metering (0 keeps the native rate)",
		},
		&cli.IntFlag{
			Name:  "block",
			Usage: "Frames per block delivered to the meter",
			Value: 1024,
		},
	}
}

// loadClip decodes integer PCM WAV natively and everything else through ffprobe and ffmpeg.
func loadClip(ctx context.Context, filePath string, streamIndex, sampleRate int) (*types.Clip, error) {
	if strings.EqualFold(filepath.Ext(filePath), ".wav") && streamIndex == 0 && sampleRate == 0 {
		clip, err := wav.Read(filePath)
		if err == nil {
			return clip, nil
		}

		if !errors.Is(err, types.ErrUnsupportedFormat) {
			return nil, err
		}

		slog.Debug("loadClip", "file path", filePath, "stage", "ffmpeg fallback", "reason", err)
	}

	probeResult, err := ffprobe.Probe(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("probing file: %w", err)
	}

	format, err := probeResult.AudioFormat(streamIndex)
	if err != nil {
		return nil, err
	}

	if sampleRate > 0 {
		format.SampleRate = sampleRate
	}

	clip, err := ffmpeg.Decode(ctx, filePath, streamIndex, format)
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	return clip, nil
}
