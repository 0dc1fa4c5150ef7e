package repository

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "cems_query_duration_seconds",
	Help: "Duration of team and leaderboard queries in seconds",
}, []string{"query"})
