package spec

import (
	"github.com/nayem/sepbench/internal/mask"
)

// RunSpec is the YAML description of one benchmark run: where the
// dataset and output live, how wide the per-configuration worker pool
// is, and the mask configurations to evaluate.
type RunSpec struct {
	Dataset string `yaml:"dataset"`
	Output  string `yaml:"output"`
	// Workers per pool; 0 derives from host parallelism.
	Workers int `yaml:"workers"`
	// PermutationSearch defaults to enabled when omitted.
	PermutationSearch *bool    `yaml:"permutation_search"`
	Configs           []Config `yaml:"configs"`
}

func (s *RunSpec) Permutation() bool {
	if s.PermutationSearch == nil {
		return true
	}
	return *s.PermutationSearch
}

// Config is one mask configuration: a labelled variant with value
// bounds and a destination subdirectory under the output root.
type Config struct {
	Label   string  `yaml:"label"`
	Variant string  `yaml:"variant"`
	Bounds  *Bounds `yaml:"bounds"`
	Dir     string  `yaml:"dir"`
}

// Bounds mirrors mask.Bounds in YAML; omitted sides are unbounded.
type Bounds struct {
	Low  *float64 `yaml:"low"`
	High *float64 `yaml:"high"`
}

func (c Config) MaskVariant() mask.Variant {
	return mask.Variant(c.Variant)
}

func (c Config) MaskBounds() mask.Bounds {
	b := mask.Unrestricted()
	if c.Bounds == nil {
		return b
	}
	if c.Bounds.Low != nil {
		b.Low = *c.Bounds.Low
	}
	if c.Bounds.High != nil {
		b.High = *c.Bounds.High
	}
	return b
}
