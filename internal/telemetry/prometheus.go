package telemetry

import (
	"fmt"
	"strings"
)

// PrometheusText renders the counters in Prometheus text exposition
// format under the uire_ namespace.
func (c *Counters) PrometheusText() string {
	s := c.Snapshot()

	var b strings.Builder
	write := func(name string, value any) {
		fmt.Fprintf(&b, "uire_%s %v\n", name, value)
	}
	write("requests_total", s.RequestsTotal)
	write("ambiguous_total", s.AmbiguousTotal)
	write("clarifications_total", s.ClarificationsTotal)
	write("resolved_total", s.ResolvedTotal)
	write("answer_total", s.AnswerTotal)
	write("errors_total", s.ErrorsTotal)
	write("latency_ms_sum", s.LatencyMSSum)
	write("avg_latency_ms", s.AvgLatencyMS)
	return b.String()
}
