package api

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// metrics are process-lifetime request counters
type metrics struct {
	requests      atomic.Int64
	clientErrors  atomic.Int64
	serverErrors  atomic.Int64
	latencyMicros atomic.Int64
}

func (m *metrics) record(status int, d time.Duration) {
	m.requests.Add(1)
	m.latencyMicros.Add(d.Microseconds())
	switch {
	case status >= http.StatusInternalServerError:
		m.serverErrors.Add(1)
	case status >= http.StatusBadRequest:
		m.clientErrors.Add(1)
	}
}

// handleMetrics handles GET /metrics in the Prometheus text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	requests := s.metrics.requests.Load()
	avgLatency := 0.0
	if requests > 0 {
		avgLatency = float64(s.metrics.latencyMicros.Load()) / float64(requests) / 1000
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, `# HELP viscolab_requests_total Total requests
# TYPE viscolab_requests_total counter
viscolab_requests_total %d

# HELP viscolab_errors_total Failed requests by class
# TYPE viscolab_errors_total counter
viscolab_errors_total{class="client"} %d
viscolab_errors_total{class="server"} %d

# HELP viscolab_latency_avg_ms Average latency
# TYPE viscolab_latency_avg_ms gauge
viscolab_latency_avg_ms %.3f
`, requests, s.metrics.clientErrors.Load(), s.metrics.serverErrors.Load(), avgLatency)
}
