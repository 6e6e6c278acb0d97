// Package metrics defines the prometheus metrics of the conversion layer.
//
// The metrics are registered with the default registry at init, so a process that serves
// promhttp.Handler exports them without further setup.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	prometheus.MustRegister(ParamsEncoded)
	prometheus.MustRegister(RowsDecoded)
	prometheus.MustRegister(ConversionErrors)
	prometheus.MustRegister(DecodeDuration)
}

var (
	// Counts query parameters encoded, by top level wire type.
	// Provides metrics:
	//    gobigquery_params_encoded_total
	// Example usage:
	//    metrics.ParamsEncoded.WithLabelValues("INT64").Inc()
	ParamsEncoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobigquery_params_encoded_total",
			Help: "Number of query parameters encoded.",
		},
		[]string{"wire_type"},
	)

	// Counts rows decoded successfully.
	// Provides metrics:
	//    gobigquery_rows_decoded_total
	// Example usage:
	//    metrics.RowsDecoded.Inc()
	RowsDecoded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gobigquery_rows_decoded_total",
			Help: "Number of result rows decoded.",
		},
	)

	// Counts conversion failures by kind: inference, format, structure or other.
	// Provides metrics:
	//    gobigquery_conversion_errors_total
	// Example usage:
	//    metrics.ConversionErrors.WithLabelValues("format").Inc()
	ConversionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobigquery_conversion_errors_total",
			Help: "Number of failed conversions, by error kind.",
		},
		[]string{"kind"},
	)

	// Distribution of the time taken to decode a page of rows, in seconds.
	// Provides metrics:
	//    gobigquery_page_decode_seconds
	// Example usage:
	//    metrics.DecodeDuration.Observe(elapsed.Seconds())
	DecodeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gobigquery_page_decode_seconds",
			Help:    "Time taken to decode a page of rows.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)
)
