package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	log, err := New("debug")
	if err != nil {
		t.Fatalf("New(debug): %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}

	log, err = New("")
	if err != nil {
		t.Fatalf("New(\"\"): %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("default level should not enable debug")
	}

	if _, err := New("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestNamed_NilBase(t *testing.T) {
	if Named(nil, "votes") == nil {
		t.Fatal("Named(nil) returned nil")
	}
}
