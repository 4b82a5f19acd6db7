package sonorium

// Event is a host lifecycle notification.
type Event int

const (
	EventProfileChanged Event = iota
	EventExit
	EventStreamingStarted
	EventStreamingStopping
	EventRecordingStarted
	EventRecordingStopping
	EventRecordingPaused
	EventRecordingUnpaused
)

func (e Event) String() string {
	switch e {
	case EventProfileChanged:
		return "profile-changed"
	case EventExit:
		return "exit"
	case EventStreamingStarted:
		return "streaming-started"
	case EventStreamingStopping:
		return "streaming-stopping"
	case EventRecordingStarted:
		return "recording-started"
	case EventRecordingStopping:
		return "recording-stopping"
	case EventRecordingPaused:
		return "recording-paused"
	case EventRecordingUnpaused:
		return "recording-unpaused"
	}

	return "unknown"
}

// Listener receives host lifecycle events. Controller implements it.
type Listener interface {
	OnEvent(event Event)
}
