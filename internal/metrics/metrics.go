package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "playlister"

// Recorder collects the metrics of one conversion run on a private registry
// so the textfile only carries playlister series.
type Recorder struct {
	registry *prometheus.Registry

	tracksDecoded    prometheus.Gauge
	playlistsDecoded prometheus.Gauge
	decodeWarnings   prometheus.Gauge
	playlistsWritten *prometheus.CounterVec
	entriesWritten   prometheus.Counter
	entriesSkipped   prometheus.Counter
	runDuration      prometheus.Gauge
	lastRun          prometheus.Gauge
	lastRunSuccess   prometheus.Gauge
}

// NewRecorder registers the run metrics and the build info collector.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(version.NewCollector(namespace))
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		tracksDecoded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracks_decoded",
			Help:      "Tracks decoded from the catalog in the last run",
		}),
		playlistsDecoded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "playlists_decoded",
			Help:      "Playlists decoded from the catalog in the last run",
		}),
		decodeWarnings: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "decode_warnings",
			Help:      "Structural warnings raised while decoding the catalog",
		}),
		playlistsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playlists_written_total",
			Help:      "Playlists processed in the last run by outcome",
		}, []string{"status"}),
		entriesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_written",
			Help:      "Track entries written across all playlists in the last run",
		}),
		entriesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_skipped",
			Help:      "Track entries omitted across all playlists in the last run",
		}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		lastRunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 when the last run finished without a fatal error",
		}),
	}
}

// ObserveDecode records catalog decode counts.
func (r *Recorder) ObserveDecode(tracks, playlists, warnings int) {
	r.tracksDecoded.Set(float64(tracks))
	r.playlistsDecoded.Set(float64(playlists))
	r.decodeWarnings.Set(float64(warnings))
}

// ObservePlaylist records the outcome of one playlist.
func (r *Recorder) ObservePlaylist(status string, written, skipped int) {
	r.playlistsWritten.WithLabelValues(status).Inc()
	r.entriesWritten.Add(float64(written))
	r.entriesSkipped.Add(float64(skipped))
}

// ObserveRun records run timing and whether it succeeded.
func (r *Recorder) ObserveRun(started, finished time.Time, succeeded bool) {
	r.runDuration.Set(finished.Sub(started).Seconds())
	r.lastRun.Set(float64(finished.Unix()))
	if succeeded {
		r.lastRunSuccess.Set(1)
	} else {
		r.lastRunSuccess.Set(0)
	}
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the registry in the text exposition format for the
// node_exporter textfile collector. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
