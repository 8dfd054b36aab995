package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nayem/sepbench/internal/bench/report"
	"github.com/nayem/sepbench/internal/bench/runner"
	"github.com/nayem/sepbench/internal/bench/spec"
	"github.com/nayem/sepbench/internal/dataset"
	"github.com/nayem/sepbench/pkg/config/env"
)

func main() {
	if err := env.LoadDotEnv(".env"); err != nil {
		slog.Error("Failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg := parseFlags()
	ctx := context.Background()

	var rs *spec.RunSpec
	var err error
	if cfg.SpecPath != "" {
		rs, err = spec.LoadFromFile(cfg.SpecPath)
		if err != nil {
			slog.Error("Failed to load run spec", "path", cfg.SpecPath, "error", err)
			os.Exit(1)
		}
	} else {
		rs, err = buildQuickSpec(cfg)
		if err != nil {
			slog.Error("Invalid flags", "error", err)
			os.Exit(1)
		}
	}

	ds, err := dataset.Scan(rs.Dataset)
	if err != nil {
		slog.Error("Failed to scan dataset", "root", rs.Dataset, "error", err)
		os.Exit(1)
	}

	r := runner.New(runner.Config{
		OutputDir:         rs.Output,
		Workers:           rs.Workers,
		PermutationSearch: rs.Permutation(),
		Progress:          cfg.Progress,
	})

	result, err := r.RunAll(ctx, rs.Configs, ds)
	if err != nil {
		slog.Error("Benchmark failed", "error", err)
		os.Exit(1)
	}

	rpt, err := report.Generate(result)
	if err != nil {
		slog.Error("Failed to aggregate results", "error", err)
		os.Exit(1)
	}
	report.WriteTable(rpt, os.Stdout)

	if cfg.ReportPath != "" {
		if err := report.WriteJSON(rpt, cfg.ReportPath); err != nil {
			slog.Error("Failed to write JSON report", "error", err)
			os.Exit(1)
		}
		slog.Info("Report written", "path", cfg.ReportPath)
	}
}

// buildQuickSpec assembles the default configuration set from flags:
// the three standard oracle baselines over one dataset.
func buildQuickSpec(cfg cliConfig) (*spec.RunSpec, error) {
	zero, one := 0.0, 1.0
	rs := &spec.RunSpec{
		Dataset:           cfg.Dataset,
		Output:            cfg.Output,
		Workers:           cfg.Workers,
		PermutationSearch: &cfg.Permutation,
		Configs: []spec.Config{
			{Label: "ibm", Variant: "binary", Dir: "ibm"},
			{Label: "irm", Variant: "ratio", Dir: "irm"},
			{Label: "psa", Variant: "psa", Dir: "psa"},
			{Label: "tpsa", Variant: "psa", Dir: "tpsa", Bounds: &spec.Bounds{Low: &zero, High: &one}},
		},
	}
	if err := spec.Validate(rs); err != nil {
		return nil, err
	}
	return rs, nil
}
