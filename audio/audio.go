package audio

import "fmt"

const (
	// WaveformSize is the number of amplitude samples in one visualization frame.
	WaveformSize = 128
	// WaveformMidpoint is the zero-reference of a waveform frame; samples are
	// unsigned bytes centered here.
	WaveformMidpoint = 128
)

// DeviceError indicates the microphone could not be opened (missing,
// busy, or denied). It is terminal for the current start attempt.
type DeviceError struct {
	Reason string
	Err    error
}

func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio device: %s: %v", e.Reason, e.Err)
	}
	return "audio device: " + e.Reason
}

func (e *DeviceError) Unwrap() error { return e.Err }

type DataCallback func(data []byte, frameCount uint32)

type CaptureConfig struct {
	SampleRate uint32
	Channels   uint32

	// DSP hints; honored where the backend supports them, otherwise advisory.
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error)
	Close()
}

// CaptureDevice is a live microphone handle. PCM chunks (s16le) arrive on the
// callback; Waveform returns the most recent amplitude frame for rendering.
type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
	Waveform() []byte
	DeviceName() string
}
