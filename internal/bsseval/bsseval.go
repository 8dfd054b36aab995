// Package bsseval scores separation estimates against ground-truth
// references with the BSS-Eval family of metrics: SDR (distortion),
// SIR (interference) and SAR (artifacts).
package bsseval

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/nayem/sepbench/internal/signal"
)

const eps = 1e-12

const (
	MetricSDR = "SDR"
	MetricSIR = "SIR"
	MetricSAR = "SAR"
)

// Scores maps a metric name to per-source values, ordered by reference
// index.
type Scores map[string][]float64

// Evaluator decomposes each estimate into a target component (its
// projection onto the assigned reference), an interference component
// (the rest of its projection onto the span of all references) and an
// artifact residual. With permutation search enabled every
// estimate-to-reference assignment is tried and the one maximizing mean
// SDR wins, since separator output order carries no label guarantee.
type Evaluator struct {
	refs       []*signal.Signal
	ests       []*signal.Signal
	permSearch bool
}

func New(refs, ests []*signal.Signal, permSearch bool) (*Evaluator, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("bsseval: no references")
	}
	if len(refs) != len(ests) {
		return nil, fmt.Errorf("bsseval: %d references but %d estimates", len(refs), len(ests))
	}
	for i, est := range ests {
		if est.Rate != refs[0].Rate {
			return nil, fmt.Errorf("bsseval: estimate %d sample rate %d != reference %d", i, est.Rate, refs[0].Rate)
		}
	}
	return &Evaluator{refs: refs, ests: ests, permSearch: permSearch}, nil
}

type decomposition struct {
	sdr, sir, sar float64
}

// Evaluate computes SDR/SIR/SAR per source. Values are reported in the
// order of the references passed to New.
func (e *Evaluator) Evaluate() (Scores, error) {
	n := len(e.refs)
	length := e.minLen()
	if length == 0 {
		return nil, fmt.Errorf("bsseval: zero-length signals")
	}

	refMat, err := e.referenceMatrix(length)
	if err != nil {
		return nil, err
	}

	// pairs[j][i] scores estimate i against reference j
	pairs := make([][]decomposition, n)
	for j := range pairs {
		pairs[j] = make([]decomposition, n)
	}
	for i, est := range e.ests {
		proj, err := projectOntoSpan(refMat, est.Samples[:length])
		if err != nil {
			return nil, fmt.Errorf("bsseval: estimate %d: %w", i, err)
		}
		for j := range e.refs {
			pairs[j][i] = decompose(e.refs[j].Samples[:length], est.Samples[:length], proj)
		}
	}

	assignment := identityAssignment(n)
	if e.permSearch {
		assignment = bestAssignment(pairs)
	}

	scores := Scores{
		MetricSDR: make([]float64, n),
		MetricSIR: make([]float64, n),
		MetricSAR: make([]float64, n),
	}
	for j := 0; j < n; j++ {
		d := pairs[j][assignment[j]]
		scores[MetricSDR][j] = d.sdr
		scores[MetricSIR][j] = d.sir
		scores[MetricSAR][j] = d.sar
	}
	return scores, nil
}

func (e *Evaluator) minLen() int {
	length := e.refs[0].Len()
	for _, s := range e.refs {
		if s.Len() < length {
			length = s.Len()
		}
	}
	for _, s := range e.ests {
		if s.Len() < length {
			length = s.Len()
		}
	}
	return length
}

func (e *Evaluator) referenceMatrix(length int) (*mat.Dense, error) {
	n := len(e.refs)
	m := mat.NewDense(length, n, nil)
	for j, ref := range e.refs {
		if power(ref.Samples[:length]) < eps {
			return nil, fmt.Errorf("bsseval: reference %d is silent", j)
		}
		m.SetCol(j, ref.Samples[:length])
	}
	return m, nil
}

// projectOntoSpan returns the least-squares projection of est onto the
// subspace spanned by the reference columns.
func projectOntoSpan(refs *mat.Dense, est []float64) ([]float64, error) {
	length, _ := refs.Dims()

	var gram mat.Dense
	gram.Mul(refs.T(), refs)

	e := mat.NewVecDense(length, est)
	var rte mat.VecDense
	rte.MulVec(refs.T(), e)

	var coeffs mat.VecDense
	if err := coeffs.SolveVec(&gram, &rte); err != nil {
		return nil, fmt.Errorf("references are linearly dependent: %w", err)
	}

	var proj mat.VecDense
	proj.MulVec(refs, &coeffs)

	out := make([]float64, length)
	for i := 0; i < length; i++ {
		out[i] = proj.AtVec(i)
	}
	return out, nil
}

func decompose(ref, est, spanProj []float64) decomposition {
	// sTarget = <est, ref>/<ref, ref> * ref
	scale := dot(est, ref) / math.Max(dot(ref, ref), eps)

	var pTarget, pInterf, pArtif, pTargetInterf float64
	for i := range est {
		sTarget := scale * ref[i]
		eInterf := spanProj[i] - sTarget
		eArtif := est[i] - spanProj[i]

		pTarget += sTarget * sTarget
		pInterf += eInterf * eInterf
		pArtif += eArtif * eArtif
		ti := sTarget + eInterf
		pTargetInterf += ti * ti
	}

	return decomposition{
		sdr: db(pTarget / math.Max(pInterf+pArtif, eps)),
		sir: db(pTarget / math.Max(pInterf, eps)),
		sar: db(pTargetInterf / math.Max(pArtif, eps)),
	}
}

func identityAssignment(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// bestAssignment returns, per reference index, the estimate index of
// the permutation with the highest mean SDR.
func bestAssignment(pairs [][]decomposition) []int {
	n := len(pairs)
	best := identityAssignment(n)
	bestScore := math.Inf(-1)

	for _, perm := range combin.Permutations(n, n) {
		var total float64
		for j := 0; j < n; j++ {
			total += pairs[j][perm[j]].sdr
		}
		if total > bestScore {
			bestScore = total
			best = perm
		}
	}
	return best
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func power(a []float64) float64 {
	return dot(a, a)
}

func db(ratio float64) float64 {
	return 10 * math.Log10(math.Max(ratio, eps))
}
