package console

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var actionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "console_actions_total",
		Help: "Console actions by name and outcome",
	},
	[]string{"action", "outcome"},
)
