package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumi_gateway_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "lumi_gateway_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	TurnCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumi_gateway_turns_total",
			Help: "Completed conversation turns by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	StreamEventCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumi_gateway_stream_events_total",
			Help: "Stream events emitted to clients by type",
		},
		[]string{"type"},
	)

	SynthesisCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumi_gateway_tts_synthesis_total",
			Help: "Speech synthesis attempts by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	AudioBlobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lumi_gateway_audio_blobs",
			Help: "Number of synthesized audio blobs held in memory",
		},
	)
)
