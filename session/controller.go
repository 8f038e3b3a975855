package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"murmur/audio"
	"murmur/transcriber"
)

type Phase int

const (
	Idle Phase = iota
	Recording
	Paused
	Finalizing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Paused:
		return "paused"
	case Finalizing:
		return "finalizing"
	}
	return "unknown"
}

const (
	DefaultFrameInterval = 50 * time.Millisecond
	DefaultPauseDelay    = 2500 * time.Millisecond

	// resumeHysteresis is the gap above the pause threshold a sample must
	// exceed to resume; prevents pause/resume oscillation at the boundary.
	// Empirical tuning value.
	resumeHysteresis = 4
)

type Config struct {
	SilenceDetection bool
	SilenceThreshold int           // amplitude deviation at or below which a frame counts toward silence
	PauseDelay       time.Duration // unbroken silence before auto-pause
	FrameInterval    time.Duration // waveform sampling cadence
}

// CostFunc prices a recording by its spoken duration.
type CostFunc func(seconds float64) float64

// Controller owns the capture lifecycle: at most one live session, with
// silence-adaptive pause/resume and a cancel-aware transcription handoff.
// External triggers and frame steps serialize on one mutex, so no transition
// interleaves with another.
type Controller struct {
	cfg  Config
	src  audio.CaptureDevice
	svc  transcriber.Transcriber
	sink Sink
	cost CostFunc
	now  func() time.Time

	mu           sync.Mutex
	phase        Phase
	startedAt    time.Time
	pauseAccum   time.Duration
	pauseStart   time.Time
	silenceStart time.Time
	chunks       [][]byte
	gain         float64
	cancelled    bool
	generation   uint64
	loopStop     chan struct{}
}

func New(src audio.CaptureDevice, svc transcriber.Transcriber, sink Sink, cost CostFunc, cfg Config) *Controller {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	if cfg.PauseDelay <= 0 {
		cfg.PauseDelay = DefaultPauseDelay
	}
	if sink == nil {
		sink = NopSink{}
	}
	if cost == nil {
		cost = func(float64) float64 { return 0 }
	}
	return &Controller{
		cfg:  cfg,
		src:  src,
		svc:  svc,
		sink: sink,
		cost: cost,
		now:  time.Now,
		gain: minGain,
	}
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) Gain() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gain
}

// Elapsed is the spoken recording time: wall time minus everything spent
// paused. Frozen while paused, never negative.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedLocked(c.now())
}

func (c *Controller) elapsedLocked(now time.Time) time.Duration {
	if c.startedAt.IsZero() {
		return 0
	}
	e := now.Sub(c.startedAt) - c.pauseAccum
	if c.phase == Paused && !c.pauseStart.IsZero() {
		e -= now.Sub(c.pauseStart)
	}
	if e < 0 {
		e = 0
	}
	return e
}

// Start opens the audio source and begins a session. A no-op unless Idle;
// a DeviceError from the source surfaces immediately and leaves the
// controller Idle.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.phase != Idle {
		c.mu.Unlock()
		return nil
	}
	c.src.SetCallback(c.onChunk)
	if err := c.src.Start(); err != nil {
		c.src.ClearCallback()
		c.mu.Unlock()
		return err
	}
	c.phase = Recording
	c.startedAt = c.now()
	c.pauseAccum = 0
	c.pauseStart = time.Time{}
	c.silenceStart = time.Time{}
	c.chunks = nil
	c.gain = minGain
	c.cancelled = false
	stop := make(chan struct{})
	c.loopStop = stop
	interval := c.cfg.FrameInterval
	c.mu.Unlock()

	c.sink.RecordingStarted()
	go c.frameLoop(stop, interval)
	return nil
}

// Stop ends capture and hands the buffered audio to the transcriber.
// A no-op unless Recording or Paused. An empty buffer short-circuits to the
// no-speech outcome without invoking the service.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.phase != Recording && c.phase != Paused {
		c.mu.Unlock()
		return
	}
	now := c.now()
	if c.phase == Paused && !c.pauseStart.IsZero() {
		c.pauseAccum += now.Sub(c.pauseStart)
		c.pauseStart = time.Time{}
	}
	c.phase = Finalizing
	elapsed := c.elapsedLocked(now)
	blob := concatChunks(c.chunks)
	gen := c.generation
	c.stopLoopLocked()
	c.mu.Unlock()

	c.src.Stop()
	c.src.ClearCallback()
	c.sink.Finalizing()

	if len(blob) == 0 {
		c.mu.Lock()
		if c.generation != gen || c.cancelled {
			c.mu.Unlock()
			return
		}
		c.resetLocked()
		c.mu.Unlock()
		c.sink.NoSpeech()
		return
	}
	go c.finalize(blob, elapsed, gen)
}

// Cancel discards the session. Valid while Recording, Paused, or Finalizing;
// a result from any in-flight transcription call is dropped on arrival with
// no sink notification.
func (c *Controller) Cancel() {
	c.mu.Lock()
	switch c.phase {
	case Recording, Paused:
		c.cancelled = true
		c.stopLoopLocked()
		c.resetLocked()
		c.mu.Unlock()
		// The source's own stopped callback may still fire after this;
		// the phase check in onChunk ignores it.
		c.src.Stop()
		c.src.ClearCallback()
		c.sink.Cancelled()
	case Finalizing:
		c.cancelled = true
		c.resetLocked()
		c.mu.Unlock()
		c.sink.Cancelled()
	default:
		c.mu.Unlock()
	}
}

func (c *Controller) stopLoopLocked() {
	if c.loopStop != nil {
		close(c.loopStop)
		c.loopStop = nil
	}
}

// resetLocked returns the controller to Idle and invalidates any in-flight
// finalize goroutine via the generation counter.
func (c *Controller) resetLocked() {
	c.phase = Idle
	c.startedAt = time.Time{}
	c.pauseAccum = 0
	c.pauseStart = time.Time{}
	c.silenceStart = time.Time{}
	c.chunks = nil
	c.generation++
}

func (c *Controller) onChunk(data []byte, _ uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Recording || len(data) == 0 {
		return
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	c.chunks = append(c.chunks, buf)
}

func (c *Controller) frameLoop(stop chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !c.step() {
				return
			}
		}
	}
}

// step runs one sampling frame: waveform pull, auto-gain, silence/resume
// detection, elapsed tick. Returns false once the phase leaves the
// recording loop.
func (c *Controller) step() bool {
	c.mu.Lock()
	if c.phase != Recording && c.phase != Paused {
		c.mu.Unlock()
		return false
	}
	samples := c.src.Waveform()
	dev := maxDeviation(samples)
	c.gain = nextGain(c.gain, dev)
	gain := c.gain
	now := c.now()

	var paused, resumed bool
	if c.cfg.SilenceDetection {
		switch c.phase {
		case Recording:
			if dev < 1+c.cfg.SilenceThreshold {
				if c.silenceStart.IsZero() {
					c.silenceStart = now
				} else if now.Sub(c.silenceStart) >= c.cfg.PauseDelay {
					c.phase = Paused
					c.pauseStart = now
					c.silenceStart = time.Time{}
					paused = true
				}
			} else {
				// Any loud sample resets the run; detection requires
				// unbroken silence.
				c.silenceStart = time.Time{}
			}
		case Paused:
			if dev > c.cfg.SilenceThreshold+resumeHysteresis {
				c.pauseAccum += now.Sub(c.pauseStart)
				c.pauseStart = time.Time{}
				c.phase = Recording
				resumed = true
			}
		}
	}
	elapsed := c.elapsedLocked(now)
	c.mu.Unlock()

	c.sink.Waveform(samples, gain)
	c.sink.Elapsed(elapsed)
	if paused {
		c.sink.Paused()
	}
	if resumed {
		c.sink.Resumed()
	}
	return true
}

func (c *Controller) finalize(blob []byte, elapsed time.Duration, gen uint64) {
	result, err := c.svc.Transcribe(context.Background(), blob, elapsed)

	c.mu.Lock()
	if c.cancelled || c.generation != gen {
		// Cancelled while the call was in flight; the result is discarded.
		c.mu.Unlock()
		return
	}
	c.resetLocked()
	c.mu.Unlock()

	if err != nil {
		var apiErr *transcriber.APIError
		if errors.As(err, &apiErr) {
			c.sink.Error(apiErr.Message, apiErr.Raw)
		} else {
			c.sink.Error(err.Error(), "")
		}
		return
	}
	text := strings.TrimSpace(result.Text)
	if text == "" {
		c.sink.NoSpeech()
		return
	}
	c.sink.Success(text, elapsed, c.cost(elapsed.Seconds()), result.RateLimit)
}

func concatChunks(chunks [][]byte) []byte {
	total := 0
	for _, ch := range chunks {
		total += len(ch)
	}
	blob := make([]byte, 0, total)
	for _, ch := range chunks {
		blob = append(blob, ch...)
	}
	return blob
}
