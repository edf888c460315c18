package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWAV is returned when data is not a 16-bit PCM WAV stream.
var ErrInvalidWAV = errors.New("invalid WAV data")

const (
	wavHeaderSize  = 12
	chunkHeaderLen = 8
	formatPCM      = 1
)

// Format describes interleaved signed 16-bit little-endian PCM.
type Format struct {
	SampleRate int
	Channels   int
}

// Sound is decoded PCM ready for playback.
type Sound struct {
	Format Format
	PCM    []byte
}

// Duration returns how long the sound plays.
func (s Sound) Duration() time.Duration {
	frame := s.Format.Channels * 2
	if frame == 0 || s.Format.SampleRate == 0 {
		return 0
	}
	frames := len(s.PCM) / frame
	return time.Duration(frames) * time.Second / time.Duration(s.Format.SampleRate)
}

// DecodeWAV extracts the PCM payload of a RIFF/WAVE stream. Streams written
// to a pipe carry placeholder chunk sizes, so a data chunk that claims more
// bytes than remain is truncated to what is present.
func DecodeWAV(data []byte) (Sound, error) {
	if len(data) < wavHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Sound{}, fmt.Errorf("%w: missing RIFF/WAVE header", ErrInvalidWAV)
	}

	var (
		format    Format
		haveFmt   bool
		offset    = wavHeaderSize
		byteOrder = binary.LittleEndian
	)

	for offset+chunkHeaderLen <= len(data) {
		id := string(data[offset : offset+4])
		size := int(byteOrder.Uint32(data[offset+4 : offset+8]))
		body := offset + chunkHeaderLen

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return Sound{}, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
			}
			audioFormat := byteOrder.Uint16(data[body : body+2])
			channels := byteOrder.Uint16(data[body+2 : body+4])
			sampleRate := byteOrder.Uint32(data[body+4 : body+8])
			bitsPerSample := byteOrder.Uint16(data[body+14 : body+16])

			if audioFormat != formatPCM {
				return Sound{}, fmt.Errorf("%w: unsupported encoding %d", ErrInvalidWAV, audioFormat)
			}
			if bitsPerSample != 16 {
				return Sound{}, fmt.Errorf("%w: %d bits per sample, want 16", ErrInvalidWAV, bitsPerSample)
			}
			if channels == 0 || sampleRate == 0 {
				return Sound{}, fmt.Errorf("%w: empty format", ErrInvalidWAV)
			}
			format = Format{SampleRate: int(sampleRate), Channels: int(channels)}
			haveFmt = true

		case "data":
			if !haveFmt {
				return Sound{}, fmt.Errorf("%w: data chunk before fmt chunk", ErrInvalidWAV)
			}
			end := body + size
			if size < 0 || end > len(data) || end < body {
				end = len(data)
			}
			frame := format.Channels * 2
			pcm := data[body:end]
			pcm = pcm[:len(pcm)-len(pcm)%frame]
			return Sound{Format: format, PCM: pcm}, nil
		}

		// Chunks are padded to even sizes.
		next := body + size + size%2
		if next <= offset || next > len(data) {
			break
		}
		offset = next
	}

	return Sound{}, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
}

// EncodeWAV wraps PCM in a minimal RIFF/WAVE container.
func EncodeWAV(s Sound) []byte {
	const headerLen = 44
	out := make([]byte, headerLen+len(s.PCM))
	le := binary.LittleEndian

	blockAlign := s.Format.Channels * 2
	copy(out[0:4], "RIFF")
	le.PutUint32(out[4:8], uint32(36+len(s.PCM)))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	le.PutUint32(out[16:20], 16)
	le.PutUint16(out[20:22], formatPCM)
	le.PutUint16(out[22:24], uint16(s.Format.Channels))
	le.PutUint32(out[24:28], uint32(s.Format.SampleRate))
	le.PutUint32(out[28:32], uint32(s.Format.SampleRate*blockAlign))
	le.PutUint16(out[32:34], uint16(blockAlign))
	le.PutUint16(out[34:36], 16)
	copy(out[36:40], "data")
	le.PutUint32(out[40:44], uint32(len(s.PCM)))
	copy(out[headerLen:], s.PCM)

	return out
}
