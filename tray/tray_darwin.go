//go:build darwin

package tray

import (
	"fmt"
	"time"

	"github.com/energye/systray"
	"golang.design/x/hotkey/mainthread"
)

var (
	mCopy     *systray.MenuItem
	mRecord   *systray.MenuItem
	mCancel   *systray.MenuItem
	mSettings *systray.MenuItem
	langItems []*systray.MenuItem
)

func Init() <-chan struct{} {
	start, _ := systray.RunWithExternalLoop(onReady, onExit)
	done := make(chan struct{})
	mainthread.Call(func() {
		start()
		close(done)
	})
	<-done
	return quitCh
}

func updateSessionIcon(rec, pause bool) {
	switch {
	case rec && pause:
		systray.SetIcon(iconPauseHi)
	case rec:
		systray.SetIcon(iconRecHi)
	default:
		systray.SetTemplateIcon(iconIdleHi, iconIdle)
	}
	if mRecord != nil {
		if rec {
			mRecord.SetTitle("Stop Recording")
		} else {
			mRecord.SetTitle("Start Recording")
		}
	}
	if mCancel != nil {
		if rec {
			mCancel.Enable()
		} else {
			mCancel.Disable()
		}
	}
}

func updateTooltip(msg string) {
	systray.SetTooltip(msg)
}

func updateCopyLastTitle(dur time.Duration) {
	if mCopy != nil {
		mCopy.SetTitle(fmt.Sprintf("Copy Last Transcript (%.1fs)", dur.Seconds()))
		mCopy.Enable()
	}
}

func onReady() {
	systray.SetTemplateIcon(iconIdleHi, iconIdle)
	systray.SetTooltip("murmur – push to talk")

	mCopy = systray.AddMenuItem("Copy Last Transcript", "Copy last transcription to clipboard")
	mCopy.Disable()
	mCopy.Click(func() {
		if copyLastFn != nil {
			copyLastFn()
		}
	})

	systray.AddSeparator()

	mRecord = systray.AddMenuItem("Start Recording", "Start or stop recording")
	mRecord.Click(func() {
		if isRecording() {
			if stopFn != nil {
				stopFn()
			}
		} else {
			if recordFn != nil {
				recordFn()
			}
		}
	})

	mCancel = systray.AddMenuItem("Cancel Recording", "Discard the current recording")
	mCancel.Disable()
	mCancel.Click(func() {
		if cancelFn != nil {
			cancelFn()
		}
	})

	mSettings = systray.AddMenuItem("Settings", "Settings")

	mAutoPaste := mSettings.AddSubMenuItemCheckbox("Auto-paste", "Paste transcribed text at the cursor", autoPasteOn)
	mAutoPaste.Click(func() {
		if mAutoPaste.Checked() {
			mAutoPaste.Uncheck()
		} else {
			mAutoPaste.Check()
		}
		if autoPasteCb != nil {
			autoPasteCb(mAutoPaste.Checked())
		}
	})

	mLanguage := mSettings.AddSubMenuItem("Language", "Select transcription language")
	langItems = make([]*systray.MenuItem, 0, len(Languages))
	for i, lang := range Languages {
		idx := i
		item := mLanguage.AddSubMenuItemCheckbox(lang.Label, lang.Label, lang.Code == langCode)
		item.Click(func() {
			for j, it := range langItems {
				if j == idx {
					it.Check()
				} else {
					it.Uncheck()
				}
			}
			if langCb != nil {
				langCb(Languages[idx].Code)
			}
		})
		langItems = append(langItems, item)
	}

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit murmur")
	mQuit.Click(func() { Quit() })
	systray.CreateMenu()
}

func onExit() {
	closeOnce.Do(func() { close(quitCh) })
}
