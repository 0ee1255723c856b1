// Package metrics defines the Prometheus collectors of the profile service.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xtding233/vgmprofile/internal/profile"
)

// Resolution metrics
var (
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vgmprofile_resolutions_total",
			Help: "Total number of configuration resolutions",
		},
		[]string{"source", "transport", "result"},
	)

	ResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vgmprofile_resolution_duration_seconds",
			Help:    "Configuration resolution duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"source"},
	)

	DocumentReloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vgmprofile_document_reloads_total",
			Help: "Total number of profile document reloads triggered by file changes",
		},
	)
)

// Source labels.
const (
	SourceProfile   = "profile"
	SourceDirectory = "directory"
)

// Result maps a resolution error onto a bounded label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, profile.ErrConfigNotFound):
		return "not_found"
	case errors.Is(err, profile.ErrMissingField):
		return "missing_field"
	case errors.Is(err, profile.ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, profile.ErrDuplicateSongIndex):
		return "duplicate_song_index"
	case errors.Is(err, profile.ErrSongTableLengthMismatch):
		return "song_table_length_mismatch"
	case errors.Is(err, profile.ErrNoSequencesFound):
		return "no_sequences"
	case errors.Is(err, profile.ErrDocumentParse):
		return "document_parse"
	case errors.Is(err, profile.ErrCyclicInheritance):
		return "cyclic_inheritance"
	default:
		return "error"
	}
}

// ObserveResolution records one resolution that started at start.
func ObserveResolution(source, transport string, start time.Time, err error) {
	ResolutionsTotal.WithLabelValues(source, transport, Result(err)).Inc()
	ResolutionDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}
