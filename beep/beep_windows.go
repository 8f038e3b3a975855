//go:build windows

package beep

// No audio cue playback on Windows.

func Init() {}

func PlayStart() {}

func PlayEnd() {}

func PlayError() {}
