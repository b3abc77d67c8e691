package clock

// Method selects which timing source a listener uses.
type Method uint8

const (
	// MethodPerformance times responses with the monotonic performance clock.
	MethodPerformance Method = iota
	// MethodAudio times responses against an audio-context reading.
	MethodAudio
)

// String returns the method's configuration name.
func (m Method) String() string {
	switch m {
	case MethodPerformance:
		return "performance"
	case MethodAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// ParseMethod maps a configuration string to a Method. Unknown strings fall
// back to MethodPerformance with ok=false; trial authors rely on the
// forgiving default, so the caller logs a diagnostic instead of failing the
// registration.
func ParseMethod(s string) (m Method, ok bool) {
	switch s {
	case "performance", "":
		return MethodPerformance, true
	case "audio":
		return MethodAudio, true
	default:
		return MethodPerformance, false
	}
}
