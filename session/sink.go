package session

import "time"

// Sink is a one-way observer of the recording lifecycle. Terminal outcomes
// (Success, NoSpeech, Error, Cancelled) are delivered at most once per
// session; Waveform and Elapsed fire every sampling frame.
type Sink interface {
	RecordingStarted()
	Paused()
	Resumed()
	Finalizing()
	Success(text string, duration time.Duration, cost float64, rateLimit string)
	NoSpeech()
	Error(message, raw string)
	Cancelled()

	Waveform(samples []byte, gain float64)
	Elapsed(d time.Duration)
}

// NopSink discards all events. Useful as a default and for embedding in
// partial sinks.
type NopSink struct{}

func (NopSink) RecordingStarted() {}

func (NopSink) Paused() {}

func (NopSink) Resumed() {}

func (NopSink) Finalizing() {}

func (NopSink) Success(string, time.Duration, float64, string) {}

func (NopSink) NoSpeech() {}

func (NopSink) Error(string, string) {}

func (NopSink) Cancelled() {}

func (NopSink) Waveform([]byte, float64) {}

func (NopSink) Elapsed(time.Duration) {}
