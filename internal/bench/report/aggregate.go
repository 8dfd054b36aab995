// Package report aggregates persisted score records into summary
// statistics and renders them as tables or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/nayem/sepbench/internal/bench/runner"
)

// Record is one decoded score file: metric name to per-source values.
// Scalar metrics decode as a single-element slice.
type Record map[string][]float64

func ReadRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse record %q: %w", path, err)
	}

	rec := make(Record, len(raw))
	for metric, v := range raw {
		switch val := v.(type) {
		case float64:
			rec[metric] = []float64{val}
		case []any:
			values := make([]float64, 0, len(val))
			for _, e := range val {
				f, ok := e.(float64)
				if !ok {
					return nil, fmt.Errorf("parse record %q: metric %q has non-numeric entry", path, metric)
				}
				values = append(values, f)
			}
			rec[metric] = values
		default:
			return nil, fmt.Errorf("parse record %q: metric %q is neither number nor array", path, metric)
		}
	}
	return rec, nil
}

// Collect reads every JSON score record currently present in dir. It is
// deliberately not synchronized against an expected count: it reports
// whatever exists at aggregation time.
func Collect(dir string) ([]Record, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	records := make([]Record, 0, len(paths))
	for _, path := range paths {
		rec, err := ReadRecord(path)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Summarize computes the column-wise mean per metric across records,
// pooling per-source values.
func Summarize(records []Record) map[string]float64 {
	pooled := make(map[string][]float64)
	for _, rec := range records {
		for metric, values := range rec {
			pooled[metric] = append(pooled[metric], values...)
		}
	}

	means := make(map[string]float64, len(pooled))
	for metric, values := range pooled {
		means[metric] = stat.Mean(values, nil)
	}
	return means
}

// Generate builds a report from a finished run by aggregating each
// configuration's output directory.
func Generate(rr *runner.RunResult) (*Report, error) {
	r := &Report{
		Meta: BenchMeta{
			RunID:       rr.ID,
			Timestamp:   rr.StartedAt,
			Duration:    rr.Duration,
			DatasetRoot: rr.DatasetRoot,
			DatasetSize: rr.DatasetSize,
			Environment: NewEnvironmentInfo(),
		},
	}
	if r.Meta.Timestamp.IsZero() {
		r.Meta.Timestamp = time.Now()
	}

	for _, cr := range rr.Configs {
		records, err := Collect(cr.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("aggregate config %q: %w", cr.Label, err)
		}
		r.Configs = append(r.Configs, ConfigReport{
			Label:     cr.Label,
			Variant:   cr.Variant,
			OutputDir: cr.OutputDir,
			Items:     len(records),
			Failed:    cr.Failed,
			Means:     Summarize(records),
		})
	}
	return r, nil
}
