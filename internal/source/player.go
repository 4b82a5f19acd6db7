package source

import (
	"context"
	"fmt"
	"time"

	"github.com/farcloser/sonorium/internal/types"
)

// DefaultBlockFrames is the block size of a common host audio callback.
const DefaultBlockFrames = 1024

// PlayerOptions configures clip replay.
type PlayerOptions struct {
	// Block is the number of frames per pushed block.
	Block int
	// Realtime paces delivery at the clip sample rate.
	Realtime bool
}

// DefaultPlayerOptions returns fast replay in DefaultBlockFrames blocks.
func DefaultPlayerOptions() PlayerOptions {
	return PlayerOptions{Block: DefaultBlockFrames}
}

func (o *PlayerOptions) applyDefaults() {
	if o.Block <= 0 {
		o.Block = DefaultBlockFrames
	}
}

// Play pushes clip to a mixer track block by block and returns the number of frames delivered.
// Cancelling ctx stops replay at the next block boundary.
func Play(ctx context.Context, mixer *Mixer, track int, clip *types.Clip, opts PlayerOptions) (int, error) {
	opts.applyDefaults()

	if clip == nil || clip.Format != mixer.format || len(clip.Planes) < mixer.format.Channels {
		return 0, fmt.Errorf("%w: have %v, mixer %v", ErrFormatMismatch, clipFormat(clip), mixer.format)
	}

	var (
		total  = clip.Frames()
		planes = make([][]float32, len(clip.Planes))
		ticker *time.Ticker
	)

	if opts.Realtime {
		period := time.Duration(opts.Block) * time.Second / time.Duration(clip.Format.SampleRate)
		ticker = time.NewTicker(period)

		defer ticker.Stop()
	}

	delivered := 0

	for delivered < total {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return delivered, ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return delivered, err
		}

		end := min(delivered+opts.Block, total)
		for ch, plane := range clip.Planes {
			planes[ch] = plane[delivered:end]
		}

		mixer.Push(track, planes, end-delivered)
		delivered = end
	}

	return delivered, nil
}

func clipFormat(clip *types.Clip) types.Format {
	if clip == nil {
		return types.Format{}
	}

	return clip.Format
}
