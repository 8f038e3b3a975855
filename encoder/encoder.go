package encoder

import (
	"encoding/binary"
	"fmt"
)

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

type Format string

const (
	FormatWAV  Format = "wav"
	FormatFLAC Format = "flac"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatWAV, FormatFLAC:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q (use wav or flac)", s)
}

// Encode wraps raw s16le mono PCM into an upload container. The returned
// extension matches the container for use as an upload filename suffix.
func Encode(format Format, pcm []byte) (data []byte, ext string, err error) {
	switch format {
	case FormatWAV:
		return encodeWAV(pcm), "wav", nil
	case FormatFLAC:
		data, err := encodeFLAC(samplesFromPCM(pcm))
		return data, "flac", err
	}
	return nil, "", fmt.Errorf("unknown format %q", format)
}

func samplesFromPCM(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return samples
}
