package sonorium

import "github.com/farcloser/sonorium/internal/types"

var (
	// ErrUnsupportedFormat is returned when a track cannot be metered because the host audio format is
	// unavailable or unusable. The track is then inert and reports unmeasured values.
	ErrUnsupportedFormat = types.ErrUnsupportedFormat
	// ErrInvalidTrackSelector names an unknown track. Selector entry points fall back to the selected
	// track instead of returning it; it is only surfaced by Lookup-style helpers.
	ErrInvalidTrackSelector = types.ErrInvalidTrackSelector
	// ErrConfigInconsistency is logged when a profile had to be repaired.
	ErrConfigInconsistency = types.ErrConfigInconsistency
)
