package types

import (
	"fmt"
	"strings"
)

// TriggerMode selects the host output states during which a track accumulates.
type TriggerMode uint32

const (
	TriggerNone      TriggerMode = 0
	TriggerStreaming TriggerMode = 1 << (iota - 1)
	TriggerRecording

	TriggerEither = TriggerStreaming | TriggerRecording
)

func (m TriggerMode) String() string {
	switch m {
	case TriggerNone:
		return "none"
	case TriggerStreaming:
		return "streaming"
	case TriggerRecording:
		return "recording"
	case TriggerEither:
		return "either"
	}

	return fmt.Sprintf("trigger(%d)", uint32(m))
}

// ParseTriggerMode converts a string to a TriggerMode.
func ParseTriggerMode(s string) (TriggerMode, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return TriggerNone, nil
	case "streaming", "stream":
		return TriggerStreaming, nil
	case "recording", "record":
		return TriggerRecording, nil
	case "either", "both":
		return TriggerEither, nil
	default:
		return 0, fmt.Errorf("unknown trigger %q (valid: none, streaming, recording, either)", s)
	}
}
