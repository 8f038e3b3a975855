package audio

import "sync"

// FakeCapture is a scriptable CaptureDevice for tests: the test sets the
// waveform frame and pushes PCM chunks explicitly.
type FakeCapture struct {
	mu       sync.Mutex
	cb       DataCallback
	frame    []byte
	startErr error
	started  bool
	stops    int
}

func NewFake() *FakeCapture {
	frame := make([]byte, WaveformSize)
	for i := range frame {
		frame[i] = WaveformMidpoint
	}
	return &FakeCapture{frame: frame}
}

// FailStart makes the next Start return err.
func (f *FakeCapture) FailStart(err error) {
	f.mu.Lock()
	f.startErr = err
	f.mu.Unlock()
}

// SetDeviation sets a flat waveform frame at the given absolute deviation
// from the midpoint.
func (f *FakeCapture) SetDeviation(dev int) {
	frame := make([]byte, WaveformSize)
	for i := range frame {
		frame[i] = byte(WaveformMidpoint + dev)
	}
	f.mu.Lock()
	f.frame = frame
	f.mu.Unlock()
}

// EmitChunk delivers a PCM chunk to the registered callback, as the live
// backends do from their stream goroutines.
func (f *FakeCapture) EmitChunk(pcm []byte) {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()
	if cb != nil {
		cb(pcm, uint32(len(pcm)/2))
	}
}

func (f *FakeCapture) Started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

func (f *FakeCapture) StopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func (f *FakeCapture) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *FakeCapture) Stop() {
	f.mu.Lock()
	f.started = false
	f.stops++
	f.mu.Unlock()
}

func (f *FakeCapture) Close() {}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) Waveform() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, len(f.frame))
	copy(out, f.frame)
	return out
}

func (f *FakeCapture) DeviceName() string { return "fake" }
