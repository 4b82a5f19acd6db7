package ffmpeg

import "time"

const (
	name = "ffmpeg"
	// Long recordings decode slowly from network storage.
	timeout = 10 * time.Minute

	sampleFormat = "f32le"
	codec        = "pcm_f32le"
)
