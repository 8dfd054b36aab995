package bsseval

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nayem/sepbench/internal/signal"
)

func sine(name string, freq float64, n int) *signal.Signal {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/8000)
	}
	return signal.New(name, 8000, samples)
}

func noisy(s *signal.Signal, amp float64, seed int64) *signal.Signal {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, s.Len())
	for i, v := range s.Samples {
		out[i] = v + amp*(2*rng.Float64()-1)
	}
	return signal.New(s.Name+"_noisy", s.Rate, out)
}

func TestNewValidation(t *testing.T) {
	a := sine("a", 300, 4000)
	b := sine("b", 700, 4000)

	_, err := New(nil, nil, true)
	assert.Error(t, err, "no references")

	_, err = New([]*signal.Signal{a, b}, []*signal.Signal{a}, true)
	assert.Error(t, err, "count mismatch")

	wrongRate := signal.New("w", 16000, make([]float64, 4000))
	_, err = New([]*signal.Signal{a}, []*signal.Signal{wrongRate}, true)
	assert.Error(t, err, "rate mismatch")
}

func TestPerfectEstimates(t *testing.T) {
	refs := []*signal.Signal{sine("a", 300, 4000), sine("b", 700, 4000)}

	ev, err := New(refs, refs, false)
	require.NoError(t, err)
	scores, err := ev.Evaluate()
	require.NoError(t, err)

	require.Len(t, scores[MetricSDR], 2)
	for j := 0; j < 2; j++ {
		assert.Greater(t, scores[MetricSDR][j], 60.0, "perfect estimate has near-infinite SDR")
		assert.Greater(t, scores[MetricSIR][j], 60.0)
		assert.Greater(t, scores[MetricSAR][j], 60.0)
	}
}

func TestNoisyEstimatesLoseSAR(t *testing.T) {
	refs := []*signal.Signal{sine("a", 300, 4000), sine("b", 700, 4000)}
	ests := []*signal.Signal{noisy(refs[0], 0.05, 1), noisy(refs[1], 0.05, 2)}

	ev, err := New(refs, ests, false)
	require.NoError(t, err)
	scores, err := ev.Evaluate()
	require.NoError(t, err)

	for j := 0; j < 2; j++ {
		assert.Greater(t, scores[MetricSDR][j], 5.0)
		assert.Less(t, scores[MetricSDR][j], 40.0, "additive noise bounds SDR")
		// noise is artifact, not interference
		assert.Greater(t, scores[MetricSIR][j], scores[MetricSAR][j])
	}
}

func TestPermutationSearchFixesSwap(t *testing.T) {
	refs := []*signal.Signal{sine("a", 300, 4000), sine("b", 700, 4000)}
	swapped := []*signal.Signal{refs[1], refs[0]}

	without, err := New(refs, swapped, false)
	require.NoError(t, err)
	scoresWithout, err := without.Evaluate()
	require.NoError(t, err)

	with, err := New(refs, swapped, true)
	require.NoError(t, err)
	scoresWith, err := with.Evaluate()
	require.NoError(t, err)

	for j := 0; j < 2; j++ {
		assert.Less(t, scoresWithout[MetricSDR][j], 0.0, "misassigned estimate scores badly")
		assert.Greater(t, scoresWith[MetricSDR][j], 60.0, "permutation search recovers the assignment")
	}
}

func TestSilentReferenceRejected(t *testing.T) {
	refs := []*signal.Signal{sine("a", 300, 4000), signal.New("silent", 8000, make([]float64, 4000))}

	ev, err := New(refs, refs, false)
	require.NoError(t, err)
	_, err = ev.Evaluate()
	assert.Error(t, err)
}

func TestLengthsTruncatedToShortest(t *testing.T) {
	refs := []*signal.Signal{sine("a", 300, 4000), sine("b", 700, 4000)}
	ests := []*signal.Signal{sine("a", 300, 3500), sine("b", 700, 3500)}

	ev, err := New(refs, ests, false)
	require.NoError(t, err)
	scores, err := ev.Evaluate()
	require.NoError(t, err)
	assert.Greater(t, scores[MetricSDR][0], 60.0)
}
