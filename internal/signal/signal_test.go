package signal

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(name string, rate int, freq float64, n int, amp float64) *Signal {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return New(name, rate, samples)
}

func TestMix(t *testing.T) {
	a := sine("a", 8000, 440, 4000, 0.4)
	b := sine("b", 8000, 880, 3000, 0.4)

	m, err := Mix("mix", a, b)
	require.NoError(t, err)

	assert.Equal(t, 4000, m.Len())
	assert.Equal(t, 8000, m.Rate)
	assert.InDelta(t, a.Samples[100]+b.Samples[100], m.Samples[100], 1e-12)
	// past the end of b only a contributes
	assert.InDelta(t, a.Samples[3500], m.Samples[3500], 1e-12)
}

func TestMixRateMismatch(t *testing.T) {
	a := sine("a", 8000, 440, 1000, 0.4)
	b := sine("b", 16000, 440, 1000, 0.4)

	_, err := Mix("mix", a, b)
	assert.Error(t, err)
}

func TestPeakNormalize(t *testing.T) {
	s := New("s", 8000, []float64{0.5, -2.0, 1.0})
	s.PeakNormalize()
	assert.InDelta(t, 1.0, s.Peak(), 1e-12)

	quiet := New("q", 8000, []float64{0.1, -0.2})
	quiet.PeakNormalize()
	assert.InDelta(t, 0.2, quiet.Peak(), 1e-12)
}

func TestWAVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone_01.wav")

	orig := sine("tone_01", 8000, 440, 4000, 0.5)
	require.NoError(t, WriteWAV(path, orig))

	got, err := ReadWAV(path)
	require.NoError(t, err)

	assert.Equal(t, "tone_01", got.Name)
	assert.Equal(t, 8000, got.Rate)
	require.Equal(t, orig.Len(), got.Len())

	// 16-bit quantization error
	for i := 0; i < got.Len(); i += 97 {
		assert.InDelta(t, orig.Samples[i], got.Samples[i], 1.0/32000)
	}
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file at all"), 0644))

	_, err := ReadWAV(path)
	assert.Error(t, err)
}

func TestSTFTRoundTrip(t *testing.T) {
	s := sine("tone", 8000, 440, 8000, 0.5)

	spec, err := STFT(s, DefaultSTFTParams())
	require.NoError(t, err)
	assert.Equal(t, DefaultWindowLength/2+1, spec.Bins())

	got, err := spec.ISTFT("tone")
	require.NoError(t, err)
	require.Equal(t, s.Len(), got.Len())

	// skip window edges where overlap-add coverage is partial
	for i := DefaultWindowLength; i < got.Len()-DefaultWindowLength; i += 53 {
		assert.InDelta(t, s.Samples[i], got.Samples[i], 1e-6)
	}
}

func TestSTFTTooShort(t *testing.T) {
	s := sine("short", 8000, 440, 100, 0.5)
	_, err := STFT(s, DefaultSTFTParams())
	assert.Error(t, err)
}
