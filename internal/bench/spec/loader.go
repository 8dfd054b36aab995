package spec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nayem/sepbench/internal/mask"
)

func LoadFromFile(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*RunSpec, error) {
	var s RunSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse spec YAML: %w", err)
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the run spec and fills defaults (a config's Dir falls
// back to its label).
func Validate(s *RunSpec) error {
	if s.Dataset == "" {
		return fmt.Errorf("spec has no dataset root")
	}
	if s.Output == "" {
		return fmt.Errorf("spec has no output root")
	}
	if s.Workers < 0 {
		return fmt.Errorf("spec has negative worker count %d", s.Workers)
	}
	if len(s.Configs) == 0 {
		return fmt.Errorf("spec has no configs")
	}

	labels := make(map[string]bool, len(s.Configs))
	dirs := make(map[string]bool, len(s.Configs))
	for i := range s.Configs {
		c := &s.Configs[i]
		if c.Label == "" {
			return fmt.Errorf("config at index %d has no label", i)
		}
		if labels[c.Label] {
			return fmt.Errorf("duplicate config label %q", c.Label)
		}
		labels[c.Label] = true

		if _, err := mask.ParseVariant(c.Variant); err != nil {
			return fmt.Errorf("config %q: %w", c.Label, err)
		}

		if c.Dir == "" {
			c.Dir = c.Label
		}
		if dirs[c.Dir] {
			return fmt.Errorf("config %q reuses output dir %q", c.Label, c.Dir)
		}
		dirs[c.Dir] = true

		b := c.MaskBounds()
		if b.Low > b.High {
			return fmt.Errorf("config %q: bounds inverted: low %v > high %v", c.Label, b.Low, b.High)
		}
	}
	return nil
}
