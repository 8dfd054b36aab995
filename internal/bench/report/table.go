package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nayem/sepbench/internal/bsseval"
)

var headlineMetrics = []string{bsseval.MetricSDR, bsseval.MetricSIR, bsseval.MetricSAR}

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Oracle Mask Benchmark ===\n")
	fmt.Fprintf(tw, "Run %s over %d items\n\n", r.Meta.RunID, r.Meta.DatasetSize)

	header := []string{"Config", "Variant", "Items", "Failed"}
	header = append(header, headlineMetrics...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, cfg := range r.Configs {
		row := []string{
			cfg.Label,
			cfg.Variant,
			fmt.Sprintf("%d", cfg.Items),
			fmt.Sprintf("%d", cfg.Failed),
		}
		for _, metric := range headlineMetrics {
			row = append(row, fmtMean(cfg.Means, metric))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
	tw.Flush()
}

func fmtMean(means map[string]float64, metric string) string {
	v, ok := means[metric]
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.2f dB", v)
}
