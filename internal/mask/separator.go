package mask

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/nayem/sepbench/internal/signal"
)

const eps = 1e-12

// OracleSeparator builds one mask per reference source from the
// ground-truth signals and applies it to the mixture spectrogram.
// Estimates come back ordered by sorted reference label; callers that
// care about label alignment should score with permutation search.
type OracleSeparator struct {
	mix     *signal.Signal
	refs    map[string]*signal.Signal
	variant Variant
	bounds  Bounds
	params  signal.STFTParams
}

func NewOracleSeparator(
	mix *signal.Signal,
	refs map[string]*signal.Signal,
	variant Variant,
	bounds Bounds,
	params signal.STFTParams,
) (*OracleSeparator, error) {
	if mix == nil || mix.Len() == 0 {
		return nil, fmt.Errorf("oracle separator: empty mixture")
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("oracle separator %q: no reference sources", mix.Name)
	}
	if _, err := ParseVariant(string(variant)); err != nil {
		return nil, fmt.Errorf("oracle separator %q: %w", mix.Name, err)
	}
	if err := bounds.validate(); err != nil {
		return nil, fmt.Errorf("oracle separator %q: %w", mix.Name, err)
	}
	for label, ref := range refs {
		if ref.Rate != mix.Rate {
			return nil, fmt.Errorf("oracle separator %q: source %q sample rate %d != mixture %d",
				mix.Name, label, ref.Rate, mix.Rate)
		}
	}
	return &OracleSeparator{
		mix:     mix,
		refs:    refs,
		variant: variant,
		bounds:  bounds,
		params:  params,
	}, nil
}

// Labels returns the reference labels in the order estimates are produced.
func (o *OracleSeparator) Labels() []string {
	labels := make([]string, 0, len(o.refs))
	for label := range o.refs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Separate computes the oracle masks and returns one estimated signal
// per reference source.
func (o *OracleSeparator) Separate() ([]*signal.Signal, error) {
	mixSpec, err := signal.STFT(o.mix, o.params)
	if err != nil {
		return nil, fmt.Errorf("separate %q: %w", o.mix.Name, err)
	}

	labels := o.Labels()
	refSpecs := make([]*signal.Spectrogram, len(labels))
	for i, label := range labels {
		ref := o.refs[label]
		// pad or trim references to the mixture length so frame
		// counts line up
		aligned := alignTo(ref, o.mix.Len())
		spec, err := signal.STFT(aligned, o.params)
		if err != nil {
			return nil, fmt.Errorf("separate %q: source %q: %w", o.mix.Name, label, err)
		}
		refSpecs[i] = spec
	}

	estimates := make([]*signal.Signal, len(labels))
	for i, label := range labels {
		masked := mixSpec.Clone()
		o.applyMask(masked, mixSpec, refSpecs, i)
		est, err := masked.ISTFT(fmt.Sprintf("%s_%s", o.mix.Name, label))
		if err != nil {
			return nil, fmt.Errorf("separate %q: source %q: %w", o.mix.Name, label, err)
		}
		estimates[i] = est
	}
	return estimates, nil
}

func (o *OracleSeparator) applyMask(dst, mix *signal.Spectrogram, refs []*signal.Spectrogram, src int) {
	for t := range dst.Frames {
		for f := range dst.Frames[t] {
			var m float64
			switch o.variant {
			case VariantBinary:
				m = binaryGain(refs, src, t, f)
			case VariantRatio:
				m = ratioGain(refs, src, t, f)
			case VariantPSA:
				m = psaGain(mix, refs[src], t, f)
			}
			dst.Frames[t][f] = complex(o.bounds.Clamp(m), 0) * mix.Frames[t][f]
		}
	}
}

func binaryGain(refs []*signal.Spectrogram, src, t, f int) float64 {
	target := cmplx.Abs(refs[src].Frames[t][f])
	for i, ref := range refs {
		if i == src {
			continue
		}
		if cmplx.Abs(ref.Frames[t][f]) > target {
			return 0
		}
	}
	return 1
}

func ratioGain(refs []*signal.Spectrogram, src, t, f int) float64 {
	var total float64
	for _, ref := range refs {
		a := cmplx.Abs(ref.Frames[t][f])
		total += a * a
	}
	if total < eps {
		return 0
	}
	a := cmplx.Abs(refs[src].Frames[t][f])
	return a * a / total
}

func psaGain(mix, ref *signal.Spectrogram, t, f int) float64 {
	x := mix.Frames[t][f]
	s := ref.Frames[t][f]
	xa := cmplx.Abs(x)
	if xa < eps {
		return 0
	}
	phase := cmplx.Phase(s) - cmplx.Phase(x)
	return cmplx.Abs(s) / xa * math.Cos(phase)
}

func alignTo(s *signal.Signal, n int) *signal.Signal {
	if s.Len() == n {
		return s
	}
	out := make([]float64, n)
	copy(out, s.Samples)
	return signal.New(s.Name, s.Rate, out)
}
