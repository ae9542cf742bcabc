package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tsunami_usgs_fetch_attempts_total",
		Help: "Feed fetch-and-parse runs, labelled by outcome.",
	}, []string{"outcome"})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tsunami_usgs_fetch_duration_ms",
		Help:    "Time spent fetching the USGS feed in milliseconds.",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 1500, 2500, 5000},
	})

	ResponseBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tsunami_usgs_response_bytes",
		Help:    "Size of feed response bodies.",
		Buckets: prometheus.ExponentialBuckets(256, 4, 8),
	})

	EventsDisplayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tsunami_usgs_events_displayed_total",
		Help: "Events handed to the display surface.",
	})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tsunami_usgs_ws_clients",
		Help: "Currently connected screen websocket clients.",
	})
)
