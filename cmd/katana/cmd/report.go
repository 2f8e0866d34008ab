package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// snapshot gathers the current value of every counter in reg, keyed by
// series name.
func snapshot(reg prometheus.Gatherer) (map[string]float64, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	values := make(map[string]float64)
	for _, family := range families {
		if family.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range family.GetMetric() {
			values[seriesName(family, m)] = m.GetCounter().GetValue()
		}
	}
	return values, nil
}

// writeReport prints each counter's increase since baseline, one series per
// line in name order. The counters are process-wide, so the baseline keeps
// earlier runs out of the report.
func writeReport(reg prometheus.Gatherer, baseline map[string]float64, out io.Writer) error {
	current, err := snapshot(reg)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(current))
	for name := range current {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(out, "%-48s %g\n", name, current[name]-baseline[name])
	}
	return nil
}

func seriesName(family *dto.MetricFamily, m *dto.Metric) string {
	labels := m.GetLabel()
	if len(labels) == 0 {
		return family.GetName()
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return fmt.Sprintf("%s{%s}", family.GetName(), strings.Join(parts, ","))
}
