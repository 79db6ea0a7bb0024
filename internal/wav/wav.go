package wav

import (
	"bytes"
	"encoding/binary"
)

const (
	// DefaultSampleRate is the capture rate used throughout the pipeline.
	DefaultSampleRate = 16000
	// DefaultChannels is mono capture.
	DefaultChannels = 1

	bitsPerSample = 16
	headerSize    = 44
)

// Encode wraps raw little-endian signed 16-bit PCM in a canonical WAV
// container. The result is always 44 bytes of header followed by the PCM
// payload verbatim; an empty payload yields a structurally valid silent file.
func Encode(pcm []byte, sampleRate uint32, channels uint16) []byte {
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * uint32(blockAlign)

	dataSize := uint32(len(pcm))
	fileSize := 36 + dataSize

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(pcm)))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, fileSize)
	buf.WriteString("WAVE")

	// fmt chunk
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))            // fmt chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))             // PCM format
	binary.Write(buf, binary.LittleEndian, channels)              // number of channels
	binary.Write(buf, binary.LittleEndian, sampleRate)            // sample rate
	binary.Write(buf, binary.LittleEndian, byteRate)              // byte rate
	binary.Write(buf, binary.LittleEndian, blockAlign)            // block align
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample)) // bits per sample

	// data chunk
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	buf.Write(pcm)

	return buf.Bytes()
}

// EncodeDefault frames PCM captured with the pipeline defaults (16 kHz mono).
func EncodeDefault(pcm []byte) []byte {
	return Encode(pcm, DefaultSampleRate, DefaultChannels)
}
