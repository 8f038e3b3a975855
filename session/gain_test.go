package session

import (
	"testing"

	"murmur/audio"
)

func TestMaxDeviation(t *testing.T) {
	flat := make([]byte, audio.WaveformSize)
	for i := range flat {
		flat[i] = audio.WaveformMidpoint
	}
	if got := maxDeviation(flat); got != 0 {
		t.Errorf("flat frame deviation = %d, want 0", got)
	}

	frame := make([]byte, audio.WaveformSize)
	for i := range frame {
		frame[i] = audio.WaveformMidpoint
	}
	frame[10] = audio.WaveformMidpoint + 40
	frame[90] = audio.WaveformMidpoint - 70
	if got := maxDeviation(frame); got != 70 {
		t.Errorf("deviation = %d, want 70 (largest excursion either side)", got)
	}

	if got := maxDeviation(nil); got != 0 {
		t.Errorf("empty frame deviation = %d, want 0", got)
	}
}

func TestNextGainStaysClamped(t *testing.T) {
	for _, dev := range []int{0, 1, 2, 5, 20, 64, 127, 128} {
		g := minGain
		for i := 0; i < 200; i++ {
			g = nextGain(g, dev)
			if g < minGain || g > maxGain {
				t.Fatalf("dev=%d: gain %v escaped [%v, %v]", dev, g, minGain, maxGain)
			}
		}
	}
}

func TestZeroDeviationHoldsGain(t *testing.T) {
	g := nextGain(minGain, 10)
	for i := 0; i < 50; i++ {
		g = nextGain(g, 10)
	}
	if got := nextGain(g, 0); got != g {
		t.Errorf("gain moved on zero deviation: %v -> %v", g, got)
	}
}

func TestGainAttackFasterThanRelease(t *testing.T) {
	// Settle on a quiet signal, then hit a loud transient.
	g := minGain
	for i := 0; i < 500; i++ {
		g = nextGain(g, 20)
	}
	quiet := g

	loudStep := quiet - nextGain(quiet, 120)
	if loudStep <= 0 {
		t.Fatal("loud transient must pull gain down")
	}

	// From the attacked-down gain, one quiet frame recovers more slowly
	// than the attack dropped.
	low := nextGain(quiet, 120)
	releaseStep := nextGain(low, 20) - low
	if releaseStep <= 0 {
		t.Fatal("quiet signal must push gain back up")
	}
	if releaseStep >= loudStep {
		t.Errorf("release step %v not slower than attack step %v", releaseStep, loudStep)
	}
}

func TestGainConvergesTowardTarget(t *testing.T) {
	// dev=64 is half range: target = 0.9 / 0.5 = 1.8.
	g := minGain
	for i := 0; i < 500; i++ {
		g = nextGain(g, 64)
	}
	if g < 1.75 || g > 1.85 {
		t.Errorf("gain = %v, want ~1.8 for half-range deviation", g)
	}
}
