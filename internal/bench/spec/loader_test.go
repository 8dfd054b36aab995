package spec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nayem/sepbench/internal/mask"
)

func TestParse(t *testing.T) {
	t.Run("valid spec", func(t *testing.T) {
		yaml := `
dataset: /data/sep/test
output: /data/sep/results
workers: 4

configs:
  - label: irm
    variant: ratio
  - label: psa
    variant: psa
    dir: psa-unrestricted
  - label: tpsa
    variant: psa
    bounds: {low: 0, high: 1}
`
		s, err := Parse([]byte(yaml))
		require.NoError(t, err)

		assert.Equal(t, "/data/sep/test", s.Dataset)
		assert.Equal(t, 4, s.Workers)
		assert.True(t, s.Permutation(), "permutation search defaults on")
		require.Len(t, s.Configs, 3)

		// dir falls back to label
		assert.Equal(t, "irm", s.Configs[0].Dir)
		assert.Equal(t, "psa-unrestricted", s.Configs[1].Dir)

		assert.Equal(t, mask.VariantRatio, s.Configs[0].MaskVariant())
		assert.True(t, s.Configs[0].MaskBounds().IsUnrestricted())
		assert.Equal(t, mask.Bounds{Low: 0, High: 1}, s.Configs[2].MaskBounds())
	})

	t.Run("permutation search can be disabled", func(t *testing.T) {
		yaml := `
dataset: /d
output: /o
permutation_search: false
configs:
  - {label: irm, variant: ratio}
`
		s, err := Parse([]byte(yaml))
		require.NoError(t, err)
		assert.False(t, s.Permutation())
	})

	t.Run("one-sided bounds", func(t *testing.T) {
		yaml := `
dataset: /d
output: /o
configs:
  - label: capped
    variant: ratio
    bounds: {high: 0.5}
`
		s, err := Parse([]byte(yaml))
		require.NoError(t, err)
		b := s.Configs[0].MaskBounds()
		assert.True(t, math.IsInf(b.Low, -1))
		assert.Equal(t, 0.5, b.High)
	})

	invalid := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "no dataset",
			yaml: "output: /o\nconfigs: [{label: a, variant: ratio}]",
			want: "no dataset",
		},
		{
			name: "no configs",
			yaml: "dataset: /d\noutput: /o\nconfigs: []",
			want: "no configs",
		},
		{
			name: "unknown variant",
			yaml: "dataset: /d\noutput: /o\nconfigs: [{label: a, variant: irm}]",
			want: "unknown mask variant",
		},
		{
			name: "duplicate label",
			yaml: "dataset: /d\noutput: /o\nconfigs: [{label: a, variant: ratio}, {label: a, variant: psa, dir: b}]",
			want: "duplicate config label",
		},
		{
			name: "duplicate dir",
			yaml: "dataset: /d\noutput: /o\nconfigs: [{label: a, variant: ratio}, {label: b, variant: psa, dir: a}]",
			want: "reuses output dir",
		},
		{
			name: "inverted bounds",
			yaml: "dataset: /d\noutput: /o\nconfigs: [{label: a, variant: ratio, bounds: {low: 1, high: 0}}]",
			want: "bounds inverted",
		},
		{
			name: "negative workers",
			yaml: "dataset: /d\noutput: /o\nworkers: -1\nconfigs: [{label: a, variant: ratio}]",
			want: "negative worker count",
		},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile("/does/not/exist.yaml")
	assert.Error(t, err)
}
