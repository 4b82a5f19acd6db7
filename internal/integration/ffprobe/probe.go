//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/sonorium/internal/integration/binary"
	"github.com/farcloser/sonorium/internal/types"
)

// ErrNoAudioStream is returned when the requested audio stream does not exist.
var ErrNoAudioStream = errors.New("no such audio stream")

const codecTypeAudio = "audio"

// Result contains the marshalled output of ffprobe.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream holds the stream properties the meter cares about.
type Stream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`                // flac
	CodecType     string `json:"codec_type"`                // audio
	SampleRate    string `json:"sample_rate,omitempty"`     // 44100
	Channels      int    `json:"channels,omitempty"`        // 2
	ChannelLayout string `json:"channel_layout,omitempty"`  // stereo, 5.1(side)
	Duration      string `json:"duration,omitempty"`        // 310.666667
	SampleFmt     string `json:"sample_fmt,omitempty"`      // s16
	BitsPerSample int    `json:"bits_per_sample,omitempty"` // often 0 outside of PCM
}

// Format holds container-level information.
type Format struct {
	Filename   string `json:"filename"`
	NbStreams  int    `json:"nb_streams"`
	FormatName string `json:"format_name"`        // flac, mov,mp4,m4a,3gp,3g2,mj2
	Duration   string `json:"duration,omitempty"` // 310.666667
}

// AudioStreams returns the audio streams, in container order.
func (r *Result) AudioStreams() []Stream {
	var out []Stream

	for _, stream := range r.Streams {
		if stream.CodecType == codecTypeAudio {
			out = append(out, stream)
		}
	}

	return out
}

// AudioFormat returns the native format of the nth audio stream (the N in ffmpeg's 0:a:N).
func (r *Result) AudioFormat(streamIndex int) (types.Format, error) {
	streams := r.AudioStreams()
	if streamIndex < 0 || streamIndex >= len(streams) {
		return types.Format{}, fmt.Errorf("%w: %d of %d", ErrNoAudioStream, streamIndex, len(streams))
	}

	stream := streams[streamIndex]

	rate, err := strconv.Atoi(stream.SampleRate)
	if err != nil {
		return types.Format{}, fmt.Errorf("%w: sample rate %q", types.ErrUnsupportedFormat, stream.SampleRate)
	}

	format := types.Format{SampleRate: rate, Channels: stream.Channels}
	if err = format.Validate(); err != nil {
		return types.Format{}, err
	}

	return format, nil
}

// Probe runs ffprobe on the given file path and returns parsed metadata.
// It requires ffprobe to be available in the system PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, err := binary.Require(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is intentionally user-provided input for probing media files
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return Parse(output)
}

// Parse decodes ffprobe JSON output.
func Parse(output []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}
