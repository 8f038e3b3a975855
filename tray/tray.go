// Package tray exposes the recording state in the menu bar and lets the user
// drive the session without the terminal window focused.
package tray

import (
	"sync"
	"time"
)

var (
	quitCh    = make(chan struct{})
	closeOnce sync.Once

	recordFn   func()
	stopFn     func()
	cancelFn   func()
	copyLastFn func()

	stateMu   sync.Mutex
	recording bool
	paused    bool

	autoPasteOn bool
	autoPasteCb func(bool)

	langCode string // current language code ("" = auto-detect)
	langCb   func(string)
)

type Language struct {
	Code  string // ISO-639-1
	Label string
}

// Languages the Whisper-family models accept as hints.
var Languages = []Language{
	{"", "Auto-detect"},
	{"zh", "Chinese"},
	{"nl", "Dutch"},
	{"en", "English"},
	{"fr", "French"},
	{"de", "German"},
	{"hi", "Hindi"},
	{"it", "Italian"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"pl", "Polish"},
	{"pt", "Portuguese"},
	{"ru", "Russian"},
	{"es", "Spanish"},
	{"sv", "Swedish"},
	{"tr", "Turkish"},
	{"uk", "Ukrainian"},
}

func OnRecord(start, stop func()) { recordFn = start; stopFn = stop }

func OnCancel(fn func()) { cancelFn = fn }

func OnCopyLast(fn func()) { copyLastFn = fn }

func SetAutoPaste(on bool) { autoPasteOn = on }

func OnAutoPaste(fn func(bool)) { autoPasteCb = fn }

func SetLanguage(code string, onSwitch func(string)) {
	langCode = code
	langCb = onSwitch
}

func SetRecording(rec bool) {
	stateMu.Lock()
	recording = rec
	paused = false
	stateMu.Unlock()
	updateSessionIcon(rec, false)
}

// SetPaused flips the icon between the live and silence-paused looks. Only
// meaningful while a session runs.
func SetPaused(on bool) {
	stateMu.Lock()
	if !recording {
		stateMu.Unlock()
		return
	}
	paused = on
	stateMu.Unlock()
	updateSessionIcon(true, on)
}

func SetError(msg string) {
	updateTooltip("murmur – " + msg)
	go func() {
		time.Sleep(10 * time.Second)
		updateTooltip("murmur – push to talk")
	}()
}

func SetLastTranscript(dur time.Duration) {
	updateCopyLastTitle(dur)
}

func Quit() {
	closeOnce.Do(func() { close(quitCh) })
}

func isRecording() bool {
	stateMu.Lock()
	defer stateMu.Unlock()
	return recording
}
