package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DatagramsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldwatch_datagrams_total",
		Help: "Datagrams received, by decode result",
	}, []string{"result"})

	RobotsKnown = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fieldwatch_robots_known",
		Help: "Robots currently held in the store, connected or not",
	})

	RobotsConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fieldwatch_robots_connected",
		Help: "Robots currently marked connected",
	})

	DisconnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fieldwatch_disconnects_total",
		Help: "Stale transitions detected by the sweeper",
	})

	EvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fieldwatch_evictions_total",
		Help: "Records removed after the evict timeout",
	})

	ObserverPanicsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fieldwatch_observer_panics_total",
		Help: "Observer callbacks that panicked and were isolated",
	})
)

// Decode result label values for DatagramsTotal.
const (
	ResultOK          = "ok"
	ResultDecodeError = "decode_error"
)

func init() {
	prometheus.MustRegister(
		DatagramsTotal,
		RobotsKnown,
		RobotsConnected,
		DisconnectsTotal,
		EvictionsTotal,
		ObserverPanicsTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
