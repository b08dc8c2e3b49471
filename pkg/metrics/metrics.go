package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordTick records one evaluated timer tick with its outcome
func (r *Registry) RecordTick(result string) {
	r.SimTicksTotal.WithLabelValues(result).Inc()
}

// RecordStep records one applied simulation step
func (r *Registry) RecordStep(duration time.Duration) {
	r.SimStepsTotal.Inc()
	r.SimStepDuration.Observe(duration.Seconds())
}

// RecordTransition records one node or connection state change
func (r *Registry) RecordTransition(kind, to string) {
	r.SimTransitionsTotal.WithLabelValues(kind, to).Inc()
}

// RecordRespawn records one keep-alive re-activation
func (r *Registry) RecordRespawn() {
	r.SimRespawnsTotal.Inc()
}

// SetNodeStateCount sets the gauge for one node state
func (r *Registry) SetNodeStateCount(state string, count int) {
	r.SimNodeStates.WithLabelValues(state).Set(float64(count))
}

// SetSpeed sets the playback speed gauge
func (r *Registry) SetSpeed(speed int) {
	r.SimSpeed.Set(float64(speed))
}

// SetPaused sets the paused gauge
func (r *Registry) SetPaused(paused bool) {
	if paused {
		r.SimPaused.Set(1)
	} else {
		r.SimPaused.Set(0)
	}
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// Handler returns an http.Handler serving this registry in the
// Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
