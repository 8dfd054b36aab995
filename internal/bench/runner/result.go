package runner

import (
	"time"

	"github.com/google/uuid"
)

// ItemResult records the outcome of one separate-and-score unit of
// work. Failures are first-class: a failed item is counted and kept,
// not silently dropped.
type ItemResult struct {
	Name string
	// Path of the written score record, empty on failure.
	Path string
	Err  error
}

type ConfigResult struct {
	Label     string
	Variant   string
	OutputDir string
	Processed int
	Failed    int
	// Items holds one result per dataset item. The first entry is the
	// synchronously processed item; the rest arrive in completion order.
	Items []ItemResult
}

func (cr *ConfigResult) Failures() []ItemResult {
	var out []ItemResult
	for _, it := range cr.Items {
		if it.Err != nil {
			out = append(out, it)
		}
	}
	return out
}

type RunResult struct {
	ID          uuid.UUID
	StartedAt   time.Time
	Duration    time.Duration
	DatasetRoot string
	DatasetSize int
	Configs     []*ConfigResult
}
