package audio

import (
	"encoding/binary"
	"sync"
)

// waveformTracker folds live s16le PCM into a fixed-size 8-bit amplitude
// frame, keeping the newest WaveformSize samples in order.
type waveformTracker struct {
	mu  sync.Mutex
	buf [WaveformSize]byte
	pos int
}

func newWaveformTracker() *waveformTracker {
	t := &waveformTracker{}
	for i := range t.buf {
		t.buf[i] = WaveformMidpoint
	}
	return t
}

func (t *waveformTracker) Push(pcm []byte) {
	n := len(pcm) / 2
	if n == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	start := 0
	if n > WaveformSize {
		start = n - WaveformSize
	}
	for i := start; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		t.buf[t.pos] = byte(int(s>>8) + WaveformMidpoint)
		t.pos = (t.pos + 1) % WaveformSize
	}
}

// Frame returns the tracked samples oldest-first.
func (t *waveformTracker) Frame() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, WaveformSize)
	for i := range out {
		out[i] = t.buf[(t.pos+i)%WaveformSize]
	}
	return out
}

func (t *waveformTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.buf {
		t.buf[i] = WaveformMidpoint
	}
	t.pos = 0
}
