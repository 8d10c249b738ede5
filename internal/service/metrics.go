package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level Prometheus metrics, registered on the default registry.
var (
	// turnsTotal counts handled chat turns by outcome (found, clarify, small_talk, ...).
	turnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poli",
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "Total number of chat turns by outcome.",
		},
		[]string{"outcome"},
	)

	// generationCalls counts generation calls.
	//
	// Labels:
	//   - purpose: "extract" or "persona"
	//   - status: "success", "error", "timeout", "unavailable"
	generationCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poli",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total number of text generation calls.",
		},
		[]string{"purpose", "status"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "poli",
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Duration of text generation calls in seconds, including queue wait.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"purpose"},
	)

	// hallucinationsRejected counts generative slot values dropped because they do not occur
	// in the utterance.
	hallucinationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poli",
			Subsystem: "extract",
			Name:      "rejected_values_total",
			Help:      "Generative slot values rejected as unverifiable.",
		},
		[]string{"slot"},
	)

	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "poli",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Number of conversation sessions held in memory.",
		},
	)

	sessionsEvicted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "poli",
			Subsystem: "sessions",
			Name:      "evicted_total",
			Help:      "Sessions evicted from memory by reason (ttl, capacity).",
		},
		[]string{"reason"},
	)
)
