// Package metrics exports size reports as Prometheus gauges in the
// node_exporter textfile format
package metrics

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ludo-technologies/contractsize/domain"
)

// TextfileWriter writes one report per file using a private registry
type TextfileWriter struct{}

// NewTextfileWriter creates a metrics writer
func NewTextfileWriter() *TextfileWriter {
	return &TextfileWriter{}
}

// Collect registers the report's gauges on a fresh registry
func Collect(report *domain.Report) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	contractBytes := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "contractsize_contract_bytes",
			Help: "Deployed bytecode size of each contract in bytes",
		},
		[]string{"contract", "name"},
	)
	totalBytes := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "contractsize_total_bytes",
		Help: "Sum of deployed bytecode sizes in bytes",
	})
	maxSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "contractsize_max_size_kib",
		Help: "Configured maximum contract size in KiB (0 when not enforced)",
	})
	violations := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "contractsize_violations",
		Help: "Number of contracts above the maximum size",
	})
	contracts := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "contractsize_contracts",
			Help: "Number of contracts per size tier",
		},
		[]string{"tier"},
	)

	for _, c := range []prometheus.Collector{contractBytes, totalBytes, maxSize, violations, contracts} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	for _, row := range report.Rows {
		contractBytes.WithLabelValues(row.ContractKey(), row.DisplayName).Set(float64(row.Size.Bytes()))
	}
	totalBytes.Set(float64(report.Total.Size.Bytes()))
	if report.Threshold.Enabled {
		maxSize.Set(report.Threshold.MaxSizeKiB)
	}
	violations.Set(float64(len(report.Violations)))
	for tier, n := range report.TierCounts() {
		contracts.WithLabelValues(string(tier)).Set(float64(n))
	}

	return reg, nil
}

// WriteReport writes the report's gauges to path atomically
func (w *TextfileWriter) WriteReport(report *domain.Report, path string) error {
	reg, err := Collect(report)
	if err != nil {
		return domain.NewOutputError("failed to collect metrics", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.NewOutputError("failed to create metrics directory", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return domain.NewOutputError("failed to write metrics file "+path, err)
	}
	return nil
}
