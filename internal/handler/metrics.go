package handler

import "github.com/prometheus/client_golang/prometheus"

// checkinsTotal counts check-in attempts by outcome.
var checkinsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "classtrack_checkins_total",
		Help: "Check-in attempts partitioned by result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(checkinsTotal)
}
