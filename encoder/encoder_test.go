package encoder

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func genTone(freq float64, durationMs int) []byte {
	n := SampleRate * durationMs / 1000
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		sample := int16(16000 * math.Sin(2*math.Pi*freq*float64(i)/SampleRate))
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(sample))
	}
	return buf
}

func TestWAVHeader(t *testing.T) {
	pcm := genTone(440, 100)
	data, ext, err := Encode(FormatWAV, pcm)
	if err != nil {
		t.Fatal(err)
	}
	if ext != "wav" {
		t.Errorf("ext = %q, want wav", ext)
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		t.Fatal("missing RIFF/WAVE magic")
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != SampleRate {
		t.Errorf("sample rate = %d, want %d", got, SampleRate)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d, want %d", got, len(pcm))
	}
	if len(data) != wavHeaderSize+len(pcm) {
		t.Errorf("total size = %d, want %d", len(data), wavHeaderSize+len(pcm))
	}
}

func TestWAVEmptyInput(t *testing.T) {
	data, _, err := Encode(FormatWAV, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != wavHeaderSize {
		t.Errorf("empty blob size = %d, want bare header", len(data))
	}
}

func TestFLACMagic(t *testing.T) {
	data, ext, err := Encode(FormatFLAC, genTone(440, 300))
	if err != nil {
		t.Fatal(err)
	}
	if ext != "flac" {
		t.Errorf("ext = %q, want flac", ext)
	}
	if !bytes.HasPrefix(data, []byte("fLaC")) {
		t.Fatal("missing fLaC magic")
	}
}

func TestFLACPartialFinalBlock(t *testing.T) {
	// 300ms at 16kHz = 4800 samples: one full 4096 block plus a partial.
	data, _, err := Encode(FormatFLAC, genTone(200, 300))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("empty flac output")
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat("flac"); err != nil {
		t.Error(err)
	}
	if _, err := ParseFormat("ogg"); err == nil {
		t.Error("expected error for unknown format")
	}
}
