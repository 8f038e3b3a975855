package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"murmur/audio"
	"murmur/beep"
	"murmur/config"
	"murmur/encoder"
	"murmur/hotkey"
	"murmur/log"
	"murmur/paste"
	"murmur/session"
	"murmur/shutdown"
	"murmur/transcriber"
	"murmur/tray"
)

var version = "dev"

var shutdownOnce sync.Once

func gracefulShutdown() {
	shutdownOnce.Do(func() {
		stateMu.Lock()
		n := transcriptionCount
		stateMu.Unlock()
		if n > 0 {
			log.SessionEnd(n)
		}
		log.Close()
		tray.Quit()
		tuiMu.Lock()
		p := tuiProgram
		tuiMu.Unlock()
		if p != nil {
			p.Quit()
		}
		os.Exit(0)
	})
}

func statusLineText(svc transcriber.Transcriber, format string, dev *audio.DeviceInfo) string {
	providerLabel := svc.Name()
	if lang := svc.GetLanguage(); lang != "" {
		providerLabel += " (" + lang + ")"
	}
	mic := "system default"
	if dev != nil {
		mic = dev.Name
	}
	return fmt.Sprintf("[%s | %s] mic: %s", format, providerLabel, mic)
}

// costFor prices the recording by provider list rates: Groq bills
// whisper-large-v3-turbo per audio hour, OpenAI bills gpt-4o-transcribe
// per audio minute.
func costFor(provider string) session.CostFunc {
	switch provider {
	case "groq":
		return func(seconds float64) float64 { return seconds / 3600 * 0.04 }
	case "openai":
		return func(seconds float64) float64 { return seconds / 60 * 0.006 }
	}
	return nil
}

func newTranscriber(cfg *config.Config, format encoder.Format) (transcriber.Transcriber, error) {
	switch strings.ToLower(cfg.Provider) {
	case "groq":
		key := os.Getenv("GROQ_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("provider groq selected but GROQ_API_KEY is not set")
		}
		return transcriber.NewGroq(key, format), nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("provider openai selected but OPENAI_API_KEY is not set")
		}
		return transcriber.NewOpenAI(key, format), nil
	case "":
		return transcriber.New(format)
	}
	return nil, fmt.Errorf("unknown provider %q (use groq or openai)", cfg.Provider)
}

func run() {
	configFlag := flag.String("config", "", "Config file path (default: ~/.config/murmur/config.toml)")
	autoPasteFlag := flag.Bool("autopaste", true, "Auto-paste to focused window after transcription")
	setupFlag := flag.Bool("setup", false, "Select microphone device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	formatFlag := flag.String("format", "", "Upload format: wav or flac (default from config)")
	langFlag := flag.String("lang", "", "Language code hint, e.g. en, de (default from config)")
	logPathFlag := flag.String("logpath", "", "Log directory path (default: OS-specific location)")
	muteFlag := flag.Bool("mute", false, "Disable audio cues")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("murmur %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *formatFlag != "" {
		cfg.Format = *formatFlag
	}
	if *langFlag != "" {
		cfg.Language = *langFlag
	}
	setAutoPaste(cfg.AutoPaste && *autoPasteFlag)

	format, err := encoder.ParseFormat(cfg.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	if crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	svc, err := newTranscriber(cfg, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Language != "" {
		svc.SetLanguage(cfg.Language)
	}
	svc.WarmUp()
	log.SessionStart(svc.Name(), string(format))

	if autoPasteOn() {
		if err := paste.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: paste init failed: %v\n", err)
		}
	}

	audioCtx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio context: %v\n", err)
		os.Exit(1)
	}
	defer audioCtx.Close()

	var selectedDevice *audio.DeviceInfo
	if *deviceFlag != "" {
		if devices, err := audioCtx.Devices(); err == nil {
			for i := range devices {
				if devices[i].Name == *deviceFlag {
					selectedDevice = &devices[i]
					break
				}
			}
		}
		if selectedDevice == nil {
			fmt.Fprintf(os.Stderr, "Warning: device %q not found, using default\n", *deviceFlag)
		}
	} else if *setupFlag {
		selectedDevice, err = audio.SelectDevice(audioCtx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: device selection failed: %v, using default\n", err)
			selectedDevice = nil
		}
	}

	captureConfig := audio.CaptureConfig{
		SampleRate:       uint32(cfg.Capture.SampleRate),
		Channels:         uint32(cfg.Capture.Channels),
		EchoCancellation: cfg.Capture.EchoCancellation,
		NoiseSuppression: cfg.Capture.NoiseSuppression,
		AutoGainControl:  cfg.Capture.AutoGainControl,
	}
	captureDevice, err := audioCtx.NewCapture(selectedDevice, captureConfig)
	if err != nil {
		log.Errorf("capture device init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing capture device: %v\n", err)
		os.Exit(1)
	}
	defer captureDevice.Close()

	controller := session.New(captureDevice, svc, appSink{}, costFor(svc.Name()), session.Config{
		SilenceDetection: cfg.Silence.Detection,
		SilenceThreshold: cfg.Silence.Threshold,
		PauseDelay:       cfg.PauseDelay(),
	})

	toggle := func() {
		if controller.Phase() == session.Idle {
			if err := controller.Start(); err != nil {
				log.Errorf("recording start failed: %v", err)
				tuiSend(ErrorMsg{Text: err.Error()})
				tray.SetError(err.Error())
				beep.PlayError()
			}
		} else {
			controller.Stop()
		}
	}

	if *tuiFlag {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram(toggle, controller.Cancel)
		tuiMu.Unlock()

		go func() {
			if _, err := tuiProgram.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
				os.Exit(1)
			}
			gracefulShutdown()
		}()
	}

	tray.OnCopyLast(copyLastTranscript)
	tray.OnRecord(
		func() {
			if controller.Phase() == session.Idle {
				toggle()
			}
		},
		controller.Stop,
	)
	tray.OnCancel(controller.Cancel)
	tray.SetAutoPaste(autoPasteOn())
	tray.OnAutoPaste(setAutoPaste)
	tray.SetLanguage(cfg.Language, func(code string) {
		svc.SetLanguage(code)
		tuiSend(StatusLineMsg{Text: statusLineText(svc, string(format), selectedDevice)})
	})
	trayQuit := tray.Init()

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		select {
		case <-sigChan:
		case <-trayQuit:
		}
		gracefulShutdown()
	}()

	if *muteFlag {
		beep.Disable()
	}
	go beep.Init()

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		log.Errorf("hotkey register error: %v", err)
		fmt.Fprintf(os.Stderr, "Error registering hotkey: %v\n", err)
		os.Exit(1)
	}
	defer hk.Unregister()

	tuiSend(StatusLineMsg{Text: statusLineText(svc, string(format), selectedDevice)})

	hotkeyLoop(hk, toggle, nil)
}

// hotkeyLoop dispatches hotkey presses: press starts a session, the next
// press stops it and sends the audio off. Release events are irrelevant in
// this mode. Runs until quit closes; a nil quit runs forever.
func hotkeyLoop(hk hotkey.Hotkey, toggle func(), quit <-chan struct{}) {
	for {
		select {
		case <-hk.Keydown():
			log.Info("hotkey_down")
			toggle()
		case <-hk.Keyup():
		case <-quit:
			return
		}
	}
}
