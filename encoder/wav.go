package encoder

import "encoding/binary"

const wavHeaderSize = 44

// encodeWAV prepends a canonical RIFF/WAVE header for s16le mono PCM.
func encodeWAV(pcm []byte) []byte {
	out := make([]byte, wavHeaderSize+len(pcm))
	le := binary.LittleEndian

	copy(out[0:4], "RIFF")
	le.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	le.PutUint32(out[16:20], 16) // PCM chunk size
	le.PutUint16(out[20:22], 1)  // PCM format
	le.PutUint16(out[22:24], Channels)
	le.PutUint32(out[24:28], SampleRate)
	le.PutUint32(out[28:32], SampleRate*Channels*BitsPerSample/8)
	le.PutUint16(out[32:34], Channels*BitsPerSample/8)
	le.PutUint16(out[34:36], BitsPerSample)

	copy(out[36:40], "data")
	le.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[wavHeaderSize:], pcm)
	return out
}
