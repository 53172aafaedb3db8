package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	edits        *prometheus.CounterVec
	cellsChanged *prometheus.CounterVec
	clients      prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		edits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "edc15p_cell_edits_total",
			Help: "Cell edits received over HTTP by result",
		}, []string{"result"}),
		cellsChanged: f.NewCounterVec(prometheus.CounterOpts{
			Name: "edc15p_cells_changed_total",
			Help: "Cells changed by edits and their cascades, by row",
		}, []string{"row"}),
		clients: f.NewGauge(prometheus.GaugeOpts{
			Name: "edc15p_websocket_clients",
			Help: "Connected websocket clients",
		}),
	}
}
