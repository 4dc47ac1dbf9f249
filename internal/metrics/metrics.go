// Copyright 2023 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics exposes the wallet daemon's operational counters and
// gauges as Prometheus metrics, registered under their own registry
// and served over the debug listener.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every gauge/counter the wallet daemon updates as it
// syncs, scans, and talks to the daemon. All fields are safe for
// concurrent use; the underlying prometheus types handle their own
// locking.
type Metrics struct {
	registry *prometheus.Registry

	SyncHeight    prometheus.Gauge
	SyncTipHeight prometheus.Gauge
	SyncState     *prometheus.GaugeVec

	OutputsScanned    prometheus.Counter
	OutputsRecognized prometheus.Counter
	ReorgsDetected    prometheus.Counter
	SyncErrors        prometheus.Counter

	DaemonRequests *prometheus.CounterVec
	DaemonFailures *prometheus.CounterVec
	DaemonLatency  *prometheus.HistogramVec
}

// New builds a Metrics instance registered under its own registry, so
// that including this package never pulls in the default global
// registry's unrelated process/Go runtime collectors twice if embedded
// alongside another registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		SyncHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walletcore_sync_height",
			Help: "Last block height the wallet has fully scanned.",
		}),
		SyncTipHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walletcore_sync_tip_height",
			Help: "Daemon-reported chain tip height as of the last poll.",
		}),
		SyncState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "walletcore_sync_state",
			Help: "1 for the Sync Manager's current state, 0 otherwise.",
		}, []string{"state"}),
		OutputsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walletcore_outputs_scanned_total",
			Help: "Total candidate outputs examined by the scanner.",
		}),
		OutputsRecognized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walletcore_outputs_recognized_total",
			Help: "Total outputs recognized as owned by the wallet.",
		}),
		ReorgsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walletcore_reorgs_detected_total",
			Help: "Total chain reorganizations detected during sync.",
		}),
		SyncErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walletcore_sync_errors_total",
			Help: "Total sync attempts that ended in the Error state.",
		}),
		DaemonRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "walletcore_daemon_requests_total",
			Help: "Total daemon RPC calls, by method.",
		}, []string{"method"}),
		DaemonFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "walletcore_daemon_failures_total",
			Help: "Total daemon RPC calls that returned an error, by method.",
		}, []string{"method"}),
		DaemonLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "walletcore_daemon_request_duration_seconds",
			Help:    "Daemon RPC call latency, by method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(
		m.SyncHeight,
		m.SyncTipHeight,
		m.SyncState,
		m.OutputsScanned,
		m.OutputsRecognized,
		m.ReorgsDetected,
		m.SyncErrors,
		m.DaemonRequests,
		m.DaemonFailures,
		m.DaemonLatency,
	)

	return m
}

// SetState zeroes every known sync state gauge and sets only the given
// one to 1, so a /metrics scrape never shows more than one state as
// active.
func (m *Metrics) SetState(current string) {
	for _, s := range []string{"idle", "syncing", "synced", "error"} {
		v := 0.0
		if s == current {
			v = 1.0
		}
		m.SyncState.WithLabelValues(s).Set(v)
	}
}

// SetHeight records the wallet's synced height and the daemon's
// last-known tip.
func (m *Metrics) SetHeight(height, tip uint64) {
	m.SyncHeight.Set(float64(height))
	m.SyncTipHeight.Set(float64(tip))
}

// IncOutputsScanned adds n to the scanned-outputs counter.
func (m *Metrics) IncOutputsScanned(n int) {
	m.OutputsScanned.Add(float64(n))
}

// IncOutputsRecognized adds n to the recognized-outputs counter.
func (m *Metrics) IncOutputsRecognized(n int) {
	m.OutputsRecognized.Add(float64(n))
}

// IncReorgsDetected increments the reorg counter.
func (m *Metrics) IncReorgsDetected() {
	m.ReorgsDetected.Inc()
}

// IncSyncErrors increments the sync-error counter.
func (m *Metrics) IncSyncErrors() {
	m.SyncErrors.Inc()
}

// ObserveDaemonCall records one daemon RPC call's outcome and latency
// under method. err may be nil.
func (m *Metrics) ObserveDaemonCall(method string, seconds float64, err error) {
	m.DaemonRequests.WithLabelValues(method).Inc()
	m.DaemonLatency.WithLabelValues(method).Observe(seconds)
	if err != nil {
		m.DaemonFailures.WithLabelValues(method).Inc()
	}
}

// Handler returns the /metrics HTTP handler for m's registry, suitable
// for mounting on the debug listener's mux.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
