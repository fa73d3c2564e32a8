package obslog

import "testing"

func TestNoopDoesNotPanic(t *testing.T) {
	log := Noop()
	log.Infoz("hello")
	log.Debugz("debugging")
	log.Warnz("careful")
	log.Errorz("oops")
	if err := log.Sync(); err != nil {
		t.Errorf("unexpected Sync error: %v", err)
	}
}

func TestWithReturnsDistinctLogger(t *testing.T) {
	log := Noop()
	child := log.With()
	if child == nil || child == log {
		t.Fatal("expected a non-nil child logger distinct from its parent")
	}
	child.Infoz("scoped message")
}

func TestNewReturnsUsableLogger(t *testing.T) {
	log, err := New(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Infoz("constructed logger works")
	_ = log.Sync()
}
