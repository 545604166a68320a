package core

import (
	"testing"
	"time"
)

type fakeScreen struct {
	finis int
}

func (f *fakeScreen) Fini() { f.finis++ }

func withCrashExit(t *testing.T) chan int {
	t.Helper()
	codes := make(chan int, 1)
	prev := crashExit
	crashExit = func(code int) { codes <- code }
	t.Cleanup(func() {
		crashExit = prev
		SetCrashScreen(nil)
	})
	return codes
}

func TestHandleCrashReleasesScreen(t *testing.T) {
	codes := withCrashExit(t)
	screen := &fakeScreen{}
	SetCrashScreen(screen)

	HandleCrash("boom")

	if screen.finis != 1 {
		t.Errorf("Expected screen released once, got %d", screen.finis)
	}
	if code := <-codes; code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}

	// Screen is released only once
	HandleCrash("again")
	<-codes
	if screen.finis != 1 {
		t.Errorf("Screen released twice")
	}
}

func TestHandleCrashNil(t *testing.T) {
	codes := withCrashExit(t)
	HandleCrash(nil)
	select {
	case <-codes:
		t.Error("nil recover value must not exit")
	default:
	}
}

func TestGoRecovers(t *testing.T) {
	codes := withCrashExit(t)
	Go(func() { panic("poller") })

	select {
	case code := <-codes:
		if code != 1 {
			t.Errorf("Expected exit code 1, got %d", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Panic in goroutine was not handled")
	}
}
