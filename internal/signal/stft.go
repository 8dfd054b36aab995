package signal

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	DefaultWindowLength = 1024
	DefaultHopLength    = 256
)

type STFTParams struct {
	WindowLength int
	HopLength    int
}

func DefaultSTFTParams() STFTParams {
	return STFTParams{WindowLength: DefaultWindowLength, HopLength: DefaultHopLength}
}

func (p STFTParams) orDefault() STFTParams {
	if p.WindowLength <= 0 {
		p.WindowLength = DefaultWindowLength
	}
	if p.HopLength <= 0 {
		p.HopLength = DefaultHopLength
	}
	return p
}

// Spectrogram holds the complex STFT of a signal: one row per frame,
// WindowLength/2+1 positive-frequency bins per row.
type Spectrogram struct {
	Frames [][]complex128
	Params STFTParams
	Rate   int
	// sample count of the signal the STFT was taken from, used to
	// truncate the inverse transform
	length int
}

func (sp *Spectrogram) Bins() int {
	if len(sp.Frames) == 0 {
		return 0
	}
	return len(sp.Frames[0])
}

// Clone returns a deep copy, used when a spectrogram is masked in place.
func (sp *Spectrogram) Clone() *Spectrogram {
	out := &Spectrogram{
		Frames: make([][]complex128, len(sp.Frames)),
		Params: sp.Params,
		Rate:   sp.Rate,
		length: sp.length,
	}
	for i, row := range sp.Frames {
		out.Frames[i] = make([]complex128, len(row))
		copy(out.Frames[i], row)
	}
	return out
}

// STFT computes the short-time Fourier transform of s using a Hann
// window. Frames past the end of the signal are zero padded.
func STFT(s *Signal, p STFTParams) (*Spectrogram, error) {
	p = p.orDefault()
	n, hop := p.WindowLength, p.HopLength
	if s.Len() < n {
		return nil, fmt.Errorf("stft %q: signal shorter than window (%d < %d)", s.Name, s.Len(), n)
	}

	win := window.NewValues(window.Hann, n)
	fft := fourier.NewFFT(n)

	frames := 1 + (s.Len()-n+hop-1)/hop
	spec := &Spectrogram{
		Frames: make([][]complex128, frames),
		Params: p,
		Rate:   s.Rate,
		length: s.Len(),
	}

	buf := make([]float64, n)
	for i := 0; i < frames; i++ {
		start := i * hop
		for k := 0; k < n; k++ {
			if start+k < s.Len() {
				buf[k] = s.Samples[start+k] * win[k]
			} else {
				buf[k] = 0
			}
		}
		spec.Frames[i] = fft.Coefficients(nil, buf)
	}
	return spec, nil
}

// ISTFT reconstructs a time-domain signal by weighted overlap-add. The
// result is truncated to the length of the originating signal.
func (sp *Spectrogram) ISTFT(name string) (*Signal, error) {
	p := sp.Params.orDefault()
	n, hop := p.WindowLength, p.HopLength
	if len(sp.Frames) == 0 {
		return nil, fmt.Errorf("istft %q: empty spectrogram", name)
	}

	win := window.NewValues(window.Hann, n)
	fft := fourier.NewFFT(n)

	total := (len(sp.Frames)-1)*hop + n
	out := make([]float64, total)
	norm := make([]float64, total)

	seq := make([]float64, n)
	for i, coeffs := range sp.Frames {
		if len(coeffs) != n/2+1 {
			return nil, fmt.Errorf("istft %q: frame %d has %d bins, want %d", name, i, len(coeffs), n/2+1)
		}
		// Sequence is unnormalized: Coefficients followed by Sequence
		// scales by the sequence length.
		seq = fft.Sequence(seq, coeffs)
		start := i * hop
		for k := 0; k < n; k++ {
			out[start+k] += seq[k] / float64(n) * win[k]
			norm[start+k] += win[k] * win[k]
		}
	}

	const eps = 1e-12
	for i := range out {
		if norm[i] > eps {
			out[i] /= norm[i]
		}
	}

	if sp.length > 0 && sp.length < len(out) {
		out = out[:sp.length]
	}
	return New(name, sp.Rate, out), nil
}
