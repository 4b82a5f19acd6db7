// Package ffprobe reads container and stream properties, so recordings can be decoded at their native format.
package ffprobe

import "time"

const (
	name = "ffprobe"
	// Probing only reads headers, but network mounts may be slow to answer.
	timeout = 60 * time.Second
)
