package logging

import "testing"

func TestNew(t *testing.T) {
	logger := New("debug", "test")
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	if !logger.Core().Enabled(-1) { // zapcore.DebugLevel
		t.Error("debug level should be enabled")
	}
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	logger := New("shouting", "test")
	if logger.Core().Enabled(-1) {
		t.Error("unknown level should fall back to info, not debug")
	}
	if !logger.Core().Enabled(0) { // zapcore.InfoLevel
		t.Error("info level should be enabled")
	}
}
