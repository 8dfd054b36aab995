package signal

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

const wavHeaderSize = 44

// ReadWAV loads a 16-bit PCM WAV file. Multichannel input is downmixed
// to mono by averaging. The signal name is the file name without its
// extension.
func ReadWAV(path string) (*Signal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	if len(data) < wavHeaderSize {
		return nil, fmt.Errorf("read wav %q: file too short (%d bytes)", path, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("read wav %q: not a RIFF/WAVE file", path)
	}

	var (
		rate     int
		channels int
		bits     int
		pcm      []byte
		haveFmt  bool
	)

	// Walk the chunk list. Files in the wild carry LIST/INFO and other
	// chunks between fmt and data.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			size = len(data) - body
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("read wav %q: fmt chunk too short", path)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, fmt.Errorf("read wav %q: unsupported format %d (want PCM)", path, format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			rate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}
		// chunks are word aligned
		off = body + size + size%2
	}

	if !haveFmt {
		return nil, fmt.Errorf("read wav %q: missing fmt chunk", path)
	}
	if pcm == nil {
		return nil, fmt.Errorf("read wav %q: missing data chunk", path)
	}
	if bits != 16 {
		return nil, fmt.Errorf("read wav %q: unsupported bit depth %d (want 16)", path, bits)
	}
	if channels < 1 {
		return nil, fmt.Errorf("read wav %q: invalid channel count %d", path, channels)
	}

	frames := len(pcm) / (2 * channels)
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			v := int16(binary.LittleEndian.Uint16(pcm[2*(i*channels+c):]))
			sum += float64(v) / 32768.0
		}
		samples[i] = sum / float64(channels)
	}

	return New(stemOf(path), rate, samples), nil
}

// WriteWAV writes the signal as a mono 16-bit PCM WAV file. Samples are
// peak normalized first so clipping cannot occur.
func WriteWAV(path string, s *Signal) error {
	s.PeakNormalize()

	dataSize := 2 * len(s.Samples)
	buf := make([]byte, wavHeaderSize+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(s.Rate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(s.Rate*2))
	binary.LittleEndian.PutUint16(buf[32:34], 2)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	for i, v := range s.Samples {
		scaled := math.Round(v * 32767)
		if scaled > 32767 {
			scaled = 32767
		} else if scaled < -32768 {
			scaled = -32768
		}
		binary.LittleEndian.PutUint16(buf[wavHeaderSize+2*i:], uint16(int16(scaled)))
	}

	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
