package signal

import (
	"fmt"
	"math"
)

// Signal is a mono audio signal with a stable name derived from its
// source file. Samples are float64 in [-1, 1].
type Signal struct {
	Name    string
	Rate    int
	Samples []float64
}

func New(name string, rate int, samples []float64) *Signal {
	return &Signal{Name: name, Rate: rate, Samples: samples}
}

func (s *Signal) Len() int {
	return len(s.Samples)
}

func (s *Signal) Duration() float64 {
	if s.Rate == 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.Rate)
}

// Peak returns the maximum absolute sample value.
func (s *Signal) Peak() float64 {
	var peak float64
	for _, v := range s.Samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// PeakNormalize scales the signal down so it peaks at 1. Signals already
// within range are left untouched.
func (s *Signal) PeakNormalize() {
	peak := s.Peak()
	if peak <= 1 {
		return
	}
	for i := range s.Samples {
		s.Samples[i] /= peak
	}
}

// Mix sums the given signals into a new signal with the given name. The
// result has the length of the longest input.
func Mix(name string, signals ...*Signal) (*Signal, error) {
	if len(signals) == 0 {
		return nil, fmt.Errorf("mix %q: no signals", name)
	}
	rate := signals[0].Rate
	maxLen := 0
	for _, s := range signals {
		if s.Rate != rate {
			return nil, fmt.Errorf("mix %q: sample rate mismatch: %d vs %d", name, s.Rate, rate)
		}
		if s.Len() > maxLen {
			maxLen = s.Len()
		}
	}

	out := make([]float64, maxLen)
	for _, s := range signals {
		for i, v := range s.Samples {
			out[i] += v
		}
	}
	return New(name, rate, out), nil
}
