package starbloom

import "errors"

var (
	// ErrNarrationUnavailable is returned by TriggerNarration when the host
	// reports visibility and the narration section is not on screen.
	ErrNarrationUnavailable = errors.New("starbloom: narration section not visible")
	// ErrNoVoice is returned by TriggerNarration when no voice channel exists.
	ErrNoVoice = errors.New("starbloom: no voice channel")
	// ErrChannelClosed is returned by a closed PlayerChannel.
	ErrChannelClosed = errors.New("starbloom: channel closed")
)
