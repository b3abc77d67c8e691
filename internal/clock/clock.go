// Package clock provides the timing sources used to timestamp responses.
//
// Reaction times are always expressed in milliseconds. Two sources exist:
// a monotonic performance clock for general timing, and an audio clock
// driven by the host's audio-context reading for stimuli locked to audio
// playback.
package clock

import "time"

// Source reads the current time in milliseconds.
//
// The origin is source-specific; only differences between readings from the
// same source are meaningful.
type Source interface {
	Now() float64
}

// Performance is a monotonic millisecond clock.
type Performance struct {
	origin time.Time
}

// NewPerformance creates a performance clock with its origin at the time of
// the call.
func NewPerformance() *Performance {
	return &Performance{origin: time.Now()}
}

// Now returns milliseconds elapsed since the clock's origin. The reading is
// fractional; rounding to whole milliseconds happens when a reaction time is
// reported, not here.
func (p *Performance) Now() float64 {
	return float64(time.Since(p.origin)) / float64(time.Millisecond)
}

// AudioReader reads the current audio-context time in seconds.
type AudioReader func() float64

// Audio adapts an audio-context reading to the millisecond Source contract.
type Audio struct {
	read AudioReader
}

// NewAudio creates an audio clock from a seconds-based reading function.
func NewAudio(read AudioReader) *Audio {
	return &Audio{read: read}
}

// Now returns the audio-context time converted to milliseconds.
func (a *Audio) Now() float64 {
	return a.read() * 1000
}
