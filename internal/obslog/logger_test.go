package obslog

import "testing"

func TestNewDoesNotPanic(t *testing.T) {
	l := New()
	if l == nil {
		t.Fatal("New() returned nil")
	}
	l.Debugf("debug line %d", 1)
	l.Warnf("warn line %d", 2)
	l.Infow("info line", "key", "value")
}

func TestDefaultIsSingleton(t *testing.T) {
	a := Default()
	b := Default()
	if a != b {
		t.Fatal("Default() returned distinct instances")
	}
}

func TestDestinationSinkFallsBackOnBadPath(t *testing.T) {
	sink := destinationSink("file:/nonexistent-dir-xyz/does-not-exist.log")
	if sink == nil {
		t.Fatal("destinationSink() returned nil")
	}
}
