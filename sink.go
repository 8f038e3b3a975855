package main

import (
	"sync"
	"time"

	"murmur/beep"
	"murmur/clipboard"
	"murmur/log"
	"murmur/paste"
	"murmur/tray"
)

var (
	stateMu            sync.Mutex
	autoPaste          bool
	lastText           string
	transcriptionCount int
)

func setAutoPaste(on bool) {
	stateMu.Lock()
	autoPaste = on
	stateMu.Unlock()
}

func autoPasteOn() bool {
	stateMu.Lock()
	defer stateMu.Unlock()
	return autoPaste
}

func copyLastTranscript() {
	stateMu.Lock()
	text := lastText
	stateMu.Unlock()
	if text != "" {
		clipboard.Copy(text)
	}
}

// appSink fans session events out to the TUI, the tray, the audio cues, the
// clipboard, and the diagnostic log.
type appSink struct{}

func (appSink) RecordingStarted() {
	log.Info("recording_start")
	tuiSend(RecordingStartMsg{})
	tray.SetRecording(true)
	beep.PlayStart()
}

func (appSink) Paused() {
	tuiSend(PausedMsg{})
	tray.SetPaused(true)
}

func (appSink) Resumed() {
	tuiSend(ResumedMsg{})
	tray.SetPaused(false)
}

func (appSink) Finalizing() {
	log.Info("recording_stop")
	tuiSend(FinalizingMsg{})
	tray.SetRecording(false)
	beep.PlayEnd()
}

func (appSink) Success(text string, duration time.Duration, cost float64, rateLimit string) {
	stateMu.Lock()
	lastText = text
	transcriptionCount++
	stateMu.Unlock()

	if err := clipboard.Copy(text); err != nil {
		log.Errorf("clipboard copy failed: %v", err)
	} else if autoPasteOn() {
		if err := paste.Send(); err != nil {
			log.Errorf("auto-paste failed: %v", err)
		}
	}

	log.TranscriptionText(text)
	tuiSend(TranscriptionMsg{Text: text, Duration: duration, Cost: cost})
	tray.SetLastTranscript(duration)

	if rateLimit != "" && rateLimit != "?/?" {
		log.Info("rate_limit: " + rateLimit)
		tuiSend(RateLimitMsg{Text: "requests: " + rateLimit + " remaining"})
	}
}

func (appSink) NoSpeech() {
	log.Info("no_speech")
	tuiSend(TranscriptionMsg{NoSpeech: true})
}

func (appSink) Error(message, raw string) {
	log.Errorf("transcription failed: %s", message)
	if raw != "" {
		log.Error("response body: " + raw)
	}
	tuiSend(ErrorMsg{Text: message, Raw: raw})
	tray.SetError(message)
	beep.PlayError()
}

func (appSink) Cancelled() {
	log.Info("recording_cancelled")
	tuiSend(CancelledMsg{})
	tray.SetRecording(false)
}

func (appSink) Waveform(samples []byte, gain float64) {
	tuiSend(WaveformMsg{Samples: samples, Gain: gain})
}

func (appSink) Elapsed(d time.Duration) {
	tuiSend(ElapsedMsg{Duration: d})
}
