package main

import (
	"testing"
	"time"

	"murmur/audio"
	"murmur/hotkey"
	"murmur/session"
	"murmur/transcriber"
)

func waitForPhase(t *testing.T, c *session.Controller, want session.Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Phase() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("phase = %v, want %v", c.Phase(), want)
}

func TestHotkeyLoopTogglesRecording(t *testing.T) {
	src := audio.NewFake()
	svc := transcriber.NewFake("dictated text", nil)
	c := session.New(src, svc, session.NopSink{}, nil, session.Config{})

	toggle := func() {
		if c.Phase() == session.Idle {
			if err := c.Start(); err != nil {
				t.Errorf("start: %v", err)
			}
		} else {
			c.Stop()
		}
	}

	hk := hotkey.NewFake()
	if err := hk.Register(); err != nil {
		t.Fatal(err)
	}
	defer hk.Unregister()

	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		hotkeyLoop(hk, toggle, quit)
		close(done)
	}()

	hk.SimKeydown()
	waitForPhase(t, c, session.Recording)
	src.EmitChunk(make([]byte, 640))

	// Releases carry no meaning in toggle mode.
	hk.SimKeyup()
	time.Sleep(20 * time.Millisecond)
	if c.Phase() != session.Recording {
		t.Fatal("keyup must not stop the session")
	}

	hk.SimKeydown()
	waitForPhase(t, c, session.Idle)
	if svc.Calls != 1 {
		t.Fatalf("transcriber calls = %d, want 1", svc.Calls)
	}

	close(quit)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not exit on quit")
	}
}
