package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"imagecompressor/internal/domain/entities"
)

// Recorder собирает статистику одного запуска в собственном реестре
// и сбрасывает ее в текстовый файл формата Prometheus.
type Recorder struct {
	registry *prometheus.Registry
	path     string

	FilesTotal        *prometheus.CounterVec
	BytesTotal        *prometheus.CounterVec
	EncodeAttempts    prometheus.Histogram
	ChosenQuality     prometheus.Histogram
	BudgetUnsatisfied prometheus.Counter
	FileDuration      prometheus.Histogram
}

// NewRecorder создает сборщик метрик. Пустой путь отключает запись в файл.
func NewRecorder(path string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		path:     path,

		FilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imagecompressor_files_total",
				Help: "Total number of processed images",
			},
			[]string{"status"}, // success, warning, error
		),

		BytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imagecompressor_bytes_total",
				Help: "Total input/output bytes of processed images",
			},
			[]string{"direction"}, // input, output
		),

		EncodeAttempts: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "imagecompressor_encode_attempts",
				Help:    "JPEG encodes performed per image during quality search",
				Buckets: []float64{1, 2, 5, 10, 12, 15, 20},
			},
		),

		ChosenQuality: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "imagecompressor_chosen_quality",
				Help:    "JPEG quality selected for written images",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
		),

		BudgetUnsatisfied: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "imagecompressor_budget_unsatisfied_total",
				Help: "Images written above the byte budget at the lowest quality",
			},
		),

		FileDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "imagecompressor_file_duration_seconds",
				Help:    "Time spent processing one image",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
	}
}

// RecordFile учитывает результат обработки одного файла
func (r *Recorder) RecordFile(result *entities.CompressionResult, duration time.Duration) {
	r.FileDuration.Observe(duration.Seconds())

	if !result.Success || result.Error != nil {
		r.FilesTotal.WithLabelValues("error").Inc()
		return
	}

	if result.Warning != nil {
		r.FilesTotal.WithLabelValues("warning").Inc()
		r.BudgetUnsatisfied.Inc()
	} else {
		r.FilesTotal.WithLabelValues("success").Inc()
	}

	r.BytesTotal.WithLabelValues("input").Add(float64(result.OriginalSize))
	r.BytesTotal.WithLabelValues("output").Add(float64(result.CompressedSize))
	r.EncodeAttempts.Observe(float64(result.EncodeAttempts))
	r.ChosenQuality.Observe(float64(result.Quality))
}

// Flush записывает метрики в файл, если путь задан
func (r *Recorder) Flush() error {
	if r.path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(r.path, r.registry)
}

// Registry возвращает реестр метрик запуска
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
