package main

import (
	"flag"
	"os"
	"strconv"
)

type cliConfig struct {
	SpecPath    string
	Dataset     string
	Output      string
	Workers     int
	Permutation bool
	Progress    bool
	ReportPath  string
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.SpecPath, "spec", "", "Path to run spec YAML (overrides quick-mode flags)")
	flag.StringVar(&cfg.Dataset, "dataset", envOr("SEPBENCH_DATASET", ""), "Dataset root (mix/ plus one dir per source label)")
	flag.StringVar(&cfg.Output, "output", envOr("SEPBENCH_OUTPUT", "results"), "Output root for score records")
	flag.IntVar(&cfg.Workers, "workers", envIntOr("SEPBENCH_WORKERS", 0), "Workers per configuration pool (0 = quarter of CPUs, min 1)")
	flag.BoolVar(&cfg.Permutation, "permutation", true, "Score with permutation search between estimates and references")
	flag.BoolVar(&cfg.Progress, "progress", true, "Render per-configuration progress bars")
	flag.StringVar(&cfg.ReportPath, "report", "", "Optional path for the JSON report")

	flag.Parse()
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
