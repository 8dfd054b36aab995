package runner

import (
	"runtime"

	"github.com/nayem/sepbench/internal/signal"
)

// Each item holds several spectrograms in memory while separating, so
// the pool defaults to a quarter of the host's parallelism.
const workerDivisor = 4

func DefaultWorkers() int {
	w := runtime.NumCPU() / workerDivisor
	if w < 1 {
		w = 1
	}
	return w
}

type Config struct {
	// OutputDir is the results root; each configuration writes into its
	// own subdirectory.
	OutputDir string
	// Workers per configuration pool. Zero or negative derives from
	// host parallelism.
	Workers int
	// PermutationSearch is passed through to the scorer.
	PermutationSearch bool
	// Progress renders a per-configuration progress bar on stderr.
	Progress bool
	// STFT parameters for separation; zero values use the defaults.
	STFT signal.STFTParams
}
