package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pinshare",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pinshare",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Upload counters
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pinshare",
			Subsystem: "files",
			Name:      "uploads_total",
			Help:      "Total file uploads",
		},
		[]string{"content_type"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pinshare",
			Subsystem: "files",
			Name:      "upload_bytes_total",
			Help:      "Total bytes uploaded",
		},
		[]string{"content_type"},
	)

	// Compression savings
	CompressionSavedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pinshare",
			Subsystem: "files",
			Name:      "compression_saved_bytes_total",
			Help:      "Bytes saved by pre-pin compression",
		},
	)

	// Pinning service operations
	PinOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pinshare",
			Subsystem: "pinning",
			Name:      "operations_total",
			Help:      "Total pinning service operations",
		},
		[]string{"status"},
	)

	// Retention sweep
	SweepRemovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pinshare",
			Subsystem: "retention",
			Name:      "records_removed_total",
			Help:      "File records removed by the retention sweep",
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordUpload records a completed file upload
func RecordUpload(contentType string, bytes int64) {
	UploadsTotal.WithLabelValues(contentType).Inc()
	UploadBytesTotal.WithLabelValues(contentType).Add(float64(bytes))
}

// RecordCompression records the savings of an accepted compression
func RecordCompression(originalBytes, compressedBytes int64) {
	if originalBytes > compressedBytes {
		CompressionSavedBytes.Add(float64(originalBytes - compressedBytes))
	}
}

// RecordPin records a pinning service call
func RecordPin(status string) {
	PinOperationsTotal.WithLabelValues(status).Inc()
}

// RecordSweep records a retention sweep run
func RecordSweep(removed int) {
	SweepRemovedTotal.Add(float64(removed))
}
