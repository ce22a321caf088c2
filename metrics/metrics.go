// Package metrics provides a Prometheus-backed implementation of the
// bundle.Hooks interface plus gauges for sequencer/render activity, so a
// host can expose /metrics without every package depending on
// Prometheus directly.
//
// Grounded on the Hooks-interface-plus-Prometheus-collector pattern seen
// in the pack's ironcore-dev-libvirt-provider and
// streamspace-dev-streamspace/controller example repos, both of which
// define a small domain-specific hooks/callback interface and provide a
// Prometheus-backed implementation alongside a no-op default — the same
// shape bundle.Hooks/bundle.NopHooks already follow here.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// BundleHooks implements bundle.Hooks (structurally; this package avoids
// importing bundle directly to keep metrics free of a dependency on
// every domain package it instruments).
type BundleHooks struct {
	loads    *prometheus.CounterVec
	unloads  *prometheus.CounterVec
	loadErrs *prometheus.CounterVec
}

// NewBundleHooks registers bundle-pool counters with reg and returns a
// Hooks implementation that records against them.
func NewBundleHooks(reg prometheus.Registerer) *BundleHooks {
	h := &BundleHooks{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pluginhost_bundle_loads_total",
			Help: "Bundle pool load attempts, labeled by whether the load actually hit the loader (new) or the cache (cached).",
		}, []string{"kind"}),
		unloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pluginhost_bundle_unloads_total",
			Help: "Bundle pool unloads.",
		}, []string{"path"}),
		loadErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pluginhost_bundle_load_errors_total",
			Help: "Bundle pool load failures.",
		}, []string{"path"}),
	}
	reg.MustRegister(h.loads, h.unloads, h.loadErrs)
	return h
}

// OnLoad implements bundle.Hooks.
func (h *BundleHooks) OnLoad(bundlePath string, asNew bool) {
	kind := "cached"
	if asNew {
		kind = "new"
	}
	h.loads.WithLabelValues(kind).Inc()
}

// OnUnload implements bundle.Hooks.
func (h *BundleHooks) OnUnload(bundlePath string) {
	h.unloads.WithLabelValues(bundlePath).Inc()
}

// OnLoadError implements bundle.Hooks.
func (h *BundleHooks) OnLoadError(bundlePath string, err error) {
	h.loadErrs.WithLabelValues(bundlePath).Inc()
}

// EngineGauges tracks sequencer.Engine activity for export. Callers
// sample sequencer.Engine.Metrics() periodically (or once per
// render/process call) and feed it here via Set.
type EngineGauges struct {
	trackCount     prometheus.Gauge
	blocksRendered prometheus.Counter
	offlineMode    prometheus.Gauge
}

// NewEngineGauges registers sequencer-engine gauges with reg.
func NewEngineGauges(reg prometheus.Registerer) *EngineGauges {
	g := &EngineGauges{
		trackCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pluginhost_sequencer_tracks",
			Help: "Current number of tracks registered with the sequencer engine.",
		}),
		blocksRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pluginhost_sequencer_blocks_processed_total",
			Help: "Total audio blocks processed by the sequencer engine.",
		}),
		offlineMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pluginhost_sequencer_offline_mode",
			Help: "1 if the sequencer engine is currently in offline-rendering mode.",
		}),
	}
	reg.MustRegister(g.trackCount, g.blocksRendered, g.offlineMode)
	return g
}

// Set records one sample of engine activity. blocksDelta is the number
// of newly processed blocks since the last Set call (the counter only
// moves forward).
func (g *EngineGauges) Set(trackCount int, blocksDelta int64, offline bool) {
	g.trackCount.Set(float64(trackCount))
	if blocksDelta > 0 {
		g.blocksRendered.Add(float64(blocksDelta))
	}
	if offline {
		g.offlineMode.Set(1)
	} else {
		g.offlineMode.Set(0)
	}
}
