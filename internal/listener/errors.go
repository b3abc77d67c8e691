package listener

import "errors"

// Sentinel errors for listener registration.
var (
	// ErrNilCallback is returned when a request has no callback.
	ErrNilCallback = errors.New("request callback cannot be nil")

	// ErrNoAudioClock is returned when a request asks for audio timing but
	// the registry was built without an audio reader.
	ErrNoAudioClock = errors.New("audio timing requested but no audio clock is configured")
)
