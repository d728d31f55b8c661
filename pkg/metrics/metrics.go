package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CodesGenerated counts written artifacts
	CodesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrbatch_codes_generated_total",
			Help: "Total number of generated QR code artifacts",
		},
		[]string{"format"},
	)

	// RowsSkipped counts tabular rows without the target column
	RowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qrbatch_rows_skipped_total",
			Help: "Total number of tabular rows skipped for a missing column",
		},
	)

	// Colorize counts colorizer runs by outcome
	Colorize = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrbatch_colorize_total",
			Help: "Total number of vector colorization runs by outcome",
		},
		[]string{"outcome"},
	)

	// RenderDuration measures render plus save per artifact
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qrbatch_render_duration_seconds",
			Help:    "Duration of rendering and saving one artifact in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"format"},
	)
)

// WriteTextfile dumps the default registry in the node exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
