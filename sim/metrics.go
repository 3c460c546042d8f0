/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package sim

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the simulator's prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	trials        *prometheus.CounterVec
	failures      *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		trials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "topcut_sim_trials_total",
			Help: "Total number of simulated trials completed",
		}, []string{"mode"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "topcut_sim_batch_failures_total",
			Help: "Total number of simulation batches aborted by an error",
		}, []string{"mode"}),
		batchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "topcut_sim_batch_duration_seconds",
			Help:    "Duration of simulation batches",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"}),
	}
}

func (m *Metrics) observe(mode Mode, trials int, elapsed time.Duration,
	err error) {

	if m == nil {
		return
	}
	m.trials.WithLabelValues(string(mode)).Add(float64(trials))
	m.batchDuration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
	if err != nil {
		m.failures.WithLabelValues(string(mode)).Inc()
	}
}
