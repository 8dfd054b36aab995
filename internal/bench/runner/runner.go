// Package runner drives a benchmark run: for every configuration it
// separates each dataset item with that configuration's oracle mask,
// scores the estimates, and persists one JSON score record per item
// under the configuration's output directory.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/nayem/sepbench/internal/bench/spec"
	"github.com/nayem/sepbench/internal/bsseval"
	"github.com/nayem/sepbench/internal/dataset"
	"github.com/nayem/sepbench/internal/mask"
)

type Runner struct {
	config Config
}

func New(cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers()
	}
	return &Runner{config: cfg}
}

// RunAll processes the configurations sequentially; each gets its own
// worker pool, drained before the next configuration starts.
func (r *Runner) RunAll(ctx context.Context, configs []spec.Config, ds *dataset.Dataset) (*RunResult, error) {
	rr := &RunResult{
		ID:          uuid.New(),
		StartedAt:   time.Now(),
		DatasetRoot: ds.Root,
		DatasetSize: ds.Len(),
	}

	slog.Info("benchmark run starting",
		"run_id", rr.ID,
		"configs", len(configs),
		"items", ds.Len(),
		"workers", r.config.Workers,
	)

	for _, cfg := range configs {
		cr, err := r.RunConfig(ctx, cfg, ds)
		if err != nil {
			return nil, fmt.Errorf("run config %q: %w", cfg.Label, err)
		}
		rr.Configs = append(rr.Configs, cr)
	}

	rr.Duration = time.Since(rr.StartedAt)
	slog.Info("benchmark run finished", "run_id", rr.ID, "duration", rr.Duration)
	return rr, nil
}

// RunConfig evaluates every dataset item under one configuration. The
// first item runs synchronously so configuration-level errors surface
// before any pool capacity is spent; its failure aborts the whole
// configuration. Later items run concurrently, and their failures are
// counted and logged rather than aborting the run.
func (r *Runner) RunConfig(ctx context.Context, cfg spec.Config, ds *dataset.Dataset) (*ConfigResult, error) {
	dir := filepath.Join(r.config.OutputDir, cfg.Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	cr := &ConfigResult{Label: cfg.Label, Variant: cfg.Variant, OutputDir: dir}
	if ds.Len() == 0 {
		return cr, nil
	}

	var progress *mpb.Progress
	var bar *mpb.Bar
	if r.config.Progress {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.AddBar(int64(ds.Len()),
			mpb.PrependDecorators(
				decor.Name(cfg.Label+": "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	record := func(res ItemResult) {
		cr.Items = append(cr.Items, res)
		if res.Err != nil {
			cr.Failed++
			slog.Warn("item failed", "config", cfg.Label, "item", res.Name, "error", res.Err)
		} else {
			cr.Processed++
		}
		if bar != nil {
			bar.Increment()
		}
	}

	first := r.processItem(cfg, ds.Items[0], dir)
	if first.Err != nil {
		if bar != nil {
			bar.Abort(true)
			progress.Wait()
		}
		return nil, fmt.Errorf("first item %q: %w", first.Name, first.Err)
	}
	record(first)

	if rest := ds.Items[1:]; len(rest) > 0 {
		jobs := make(chan dataset.Item)
		results := make(chan ItemResult)

		var wg sync.WaitGroup
		for w := 0; w < r.config.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for item := range jobs {
					results <- r.processItem(cfg, item, dir)
				}
			}()
		}

		go func() {
			defer close(jobs)
			for _, item := range rest {
				select {
				case <-ctx.Done():
					return
				case jobs <- item:
				}
			}
		}()

		go func() {
			wg.Wait()
			close(results)
		}()

		for res := range results {
			record(res)
		}

		if err := ctx.Err(); err != nil {
			if bar != nil {
				bar.Abort(true)
				progress.Wait()
			}
			return nil, err
		}
	}

	if progress != nil {
		progress.Wait()
	}

	slog.Info("config finished",
		"config", cfg.Label,
		"processed", cr.Processed,
		"failed", cr.Failed,
	)
	return cr, nil
}

// processItem loads, separates, scores and persists one item. cfg and
// item are taken by value so pool tasks never observe loop-variable
// mutation.
func (r *Runner) processItem(cfg spec.Config, item dataset.Item, dir string) ItemResult {
	res := ItemResult{Name: item.Name}

	entry, err := item.Load()
	if err != nil {
		res.Err = err
		return res
	}

	sep, err := mask.NewOracleSeparator(entry.Mix, entry.Sources, cfg.MaskVariant(), cfg.MaskBounds(), r.config.STFT)
	if err != nil {
		res.Err = err
		return res
	}
	estimates, err := sep.Separate()
	if err != nil {
		res.Err = err
		return res
	}

	ev, err := bsseval.New(entry.References(), estimates, r.config.PermutationSearch)
	if err != nil {
		res.Err = err
		return res
	}
	scores, err := ev.Evaluate()
	if err != nil {
		res.Err = fmt.Errorf("evaluate: %w", err)
		return res
	}

	path := filepath.Join(dir, item.Name+".json")
	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		res.Err = fmt.Errorf("marshal scores: %w", err)
		return res
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		res.Err = fmt.Errorf("write scores: %w", err)
		return res
	}

	res.Path = path
	return res
}
