// Package metrics records extract run statistics in a private Prometheus
// registry. A batch job has no scrape endpoint, so the registry is
// written to a node_exporter textfile after the run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "museum_extract"

// Metrics holds the collectors for one process.
//
// Metrics:
//   - museum_extract_objects_listed_total - keys returned by the bucket listing
//   - museum_extract_objects_matched_total - keys passing the filename filter
//   - museum_extract_objects_downloaded_total - files written to the folder
//   - museum_extract_bytes_downloaded_total - bytes written to the folder
//   - museum_extract_files_merged_total - CSV files merged into the output
//   - museum_extract_files_skipped_total - CSV files skipped as malformed
//   - museum_extract_rows_written_total - data rows in the merged output
//   - museum_extract_run_duration_seconds{outcome} - wall time of a run
//   - museum_extract_last_success_timestamp_seconds - end of the last successful run
type Metrics struct {
	registry *prometheus.Registry

	ObjectsListed     prometheus.Counter
	ObjectsMatched    prometheus.Counter
	ObjectsDownloaded prometheus.Counter
	BytesDownloaded   prometheus.Counter
	FilesMerged       prometheus.Counter
	FilesSkipped      prometheus.Counter
	RowsWritten       prometheus.Counter
	RunDuration       *prometheus.HistogramVec
	LastSuccess       prometheus.Gauge
}

// New registers the collectors in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}

	return &Metrics{
		registry:          reg,
		ObjectsListed:     counter("objects_listed_total", "Object keys returned by the bucket listing."),
		ObjectsMatched:    counter("objects_matched_total", "Object keys matching the exhibition or history patterns."),
		ObjectsDownloaded: counter("objects_downloaded_total", "Objects written to the local folder."),
		BytesDownloaded:   counter("bytes_downloaded_total", "Bytes written to the local folder."),
		FilesMerged:       counter("files_merged_total", "CSV files merged into the combined output."),
		FilesSkipped:      counter("files_skipped_total", "CSV files skipped because they could not be parsed."),
		RowsWritten:       counter("rows_written_total", "Data rows written to the combined output."),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of extract runs in seconds.",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"outcome"}, // "success" or "failure"
		),
		LastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time at which the last successful run finished.",
		}),
	}
}

// ObserveRun records the duration of a run and, on success, its end time.
func (m *Metrics) ObserveRun(started, finished time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.RunDuration.WithLabelValues(outcome).Observe(finished.Sub(started).Seconds())
	if err == nil {
		m.LastSuccess.Set(float64(finished.Unix()))
	}
}

// Registry exposes the registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric in the text exposition format to
// path, atomically replacing any previous file.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
