package types

// Channel is the speaker role of one input channel, which decides its BS.1770 weight.
type Channel int

const (
	ChannelUnused Channel = iota
	ChannelLeft
	ChannelRight
	ChannelCenter
	ChannelLeftSurround
	ChannelRightSurround
	// ChannelDualMono is a mono signal played back on two speakers.
	ChannelDualMono
	// ChannelLFE is excluded from the measurement.
	ChannelLFE
)

// Weight returns the BS.1770 channel weighting G_i.
func (c Channel) Weight() float64 {
	switch c {
	case ChannelLeft, ChannelRight, ChannelCenter:
		return 1.0
	case ChannelLeftSurround, ChannelRightSurround:
		return 1.41
	case ChannelDualMono:
		return 2.0
	case ChannelUnused, ChannelLFE:
		return 0
	}

	return 0
}

func (c Channel) String() string {
	switch c {
	case ChannelUnused:
		return "unused"
	case ChannelLeft:
		return "left"
	case ChannelRight:
		return "right"
	case ChannelCenter:
		return "center"
	case ChannelLeftSurround:
		return "left-surround"
	case ChannelRightSurround:
		return "right-surround"
	case ChannelDualMono:
		return "dual-mono"
	case ChannelLFE:
		return "lfe"
	}

	return "unknown"
}

// DefaultChannelMap returns the speaker roles assumed for n interleaved channels.
//
//	4 channels: L R Ls Rs
//	5 channels: L R C Ls Rs
//	otherwise:  L R C LFE Ls Rs, any further channel unused
func DefaultChannelMap(n int) []Channel {
	if n <= 0 {
		return nil
	}

	out := make([]Channel, n)

	switch n {
	case 4:
		copy(out, []Channel{ChannelLeft, ChannelRight, ChannelLeftSurround, ChannelRightSurround})
	case 5:
		copy(out, []Channel{ChannelLeft, ChannelRight, ChannelCenter, ChannelLeftSurround, ChannelRightSurround})
	default:
		layout := []Channel{
			ChannelLeft, ChannelRight, ChannelCenter, ChannelLFE, ChannelLeftSurround, ChannelRightSurround,
		}
		copy(out, layout)
	}

	return out
}
