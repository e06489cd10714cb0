package entities

import (
	"path/filepath"
	"strings"
	"time"
)

// Значения конфигурации по умолчанию
const (
	DefaultSourceDirectory    = "./"
	DefaultOutputSubdirectory = "compressed"
	DefaultMaxWidth           = 400
	DefaultMaxHeight          = 300
	DefaultMaxFileSize        = 64000
	DefaultResampleFilter     = "lanczos3"
	DefaultLogLevel           = "info"
	DefaultLogFileName        = "compressor.log"
	DefaultLogMaxSizeMB       = 10
)

// SupportedResampleFilters фильтры ресемплинга, доступные в конфигурации
var SupportedResampleFilters = []string{"lanczos3", "lanczos2", "bicubic", "bilinear", "mitchell", "nearest"}

// Config представляет конфигурацию приложения
type Config struct {
	Scanner ScannerConfig `yaml:"scanner"`
	Limits  LimitsConfig  `yaml:"limits"`
	Output  OutputConfig  `yaml:"output"`
}

// ScannerConfig настройки сканирования директорий
type ScannerConfig struct {
	SourceDirectory    string `yaml:"source_directory"`
	OutputSubdirectory string `yaml:"output_subdirectory"`
}

// LimitsConfig ограничения на размеры выходных изображений
type LimitsConfig struct {
	MaxWidth       int    `yaml:"max_width"`
	MaxHeight      int    `yaml:"max_height"`
	MaxFileSize    int64  `yaml:"max_file_size"` // Бюджет в байтах
	ResampleFilter string `yaml:"resample_filter"`
}

// OutputConfig настройки вывода
type OutputConfig struct {
	Verbose      bool   `yaml:"verbose"`
	LogLevel     string `yaml:"log_level"`
	LogToFile    bool   `yaml:"log_to_file"`
	LogFileName  string `yaml:"log_file_name"`
	LogMaxSizeMB int    `yaml:"log_max_size_mb"`
	MetricsFile  string `yaml:"metrics_file"`
}

// NewDefaultConfig создает конфигурацию по умолчанию
func NewDefaultConfig() *Config {
	return &Config{
		Scanner: ScannerConfig{
			SourceDirectory:    DefaultSourceDirectory,
			OutputSubdirectory: DefaultOutputSubdirectory,
		},
		Limits: LimitsConfig{
			MaxWidth:       DefaultMaxWidth,
			MaxHeight:      DefaultMaxHeight,
			MaxFileSize:    DefaultMaxFileSize,
			ResampleFilter: DefaultResampleFilter,
		},
		Output: OutputConfig{
			Verbose:      true,
			LogLevel:     DefaultLogLevel,
			LogToFile:    false,
			LogFileName:  DefaultLogFileName,
			LogMaxSizeMB: DefaultLogMaxSizeMB,
		},
	}
}

// Bounds возвращает максимальные размеры как Dimensions
func (l LimitsConfig) Bounds() Dimensions {
	return Dimensions{Width: l.MaxWidth, Height: l.MaxHeight}
}

// OutputDirectory возвращает путь к директории для сжатых файлов
func (c *Config) OutputDirectory() string {
	return filepath.Join(c.Scanner.SourceDirectory, c.Scanner.OutputSubdirectory)
}

// WithSourceDirectory возвращает копию конфигурации с другой исходной директорией
func (c *Config) WithSourceDirectory(dir string) *Config {
	clone := *c
	clone.Scanner.SourceDirectory = dir
	return &clone
}

// Validate проверяет корректность конфигурации приложения
func (c *Config) Validate() error {
	if err := c.Limits.Validate(); err != nil {
		return err
	}

	sub := c.Scanner.OutputSubdirectory
	if sub == "" || sub == "." || sub == ".." || filepath.IsAbs(sub) || strings.ContainsAny(sub, `/\`) {
		return ErrInvalidOutputDirectory
	}

	return nil
}

// Validate проверяет ограничения
func (l LimitsConfig) Validate() error {
	if l.MaxWidth <= 0 || l.MaxHeight <= 0 {
		return ErrInvalidDimensions
	}
	if l.MaxFileSize <= 0 {
		return ErrInvalidBudget
	}
	if !IsSupportedResampleFilter(l.ResampleFilter) {
		return ErrInvalidResampleFilter
	}
	return nil
}

// IsSupportedResampleFilter проверяет имя фильтра (пустое имя означает фильтр по умолчанию)
func IsSupportedResampleFilter(name string) bool {
	if name == "" {
		return true
	}
	for _, f := range SupportedResampleFilters {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// ProcessingStatus статус обработки
type ProcessingStatus struct {
	// Идентификатор запуска
	RunID string

	// Текущая фаза обработки
	Phase ProcessingPhase

	// Информация о текущем файле
	CurrentFile     string
	CurrentFileSize int64

	// Общая статистика
	TotalFiles      int
	ProcessedFiles  int
	SuccessfulFiles int
	FailedFiles     int
	BudgetWarnings  int

	// Прогресс
	Progress float64

	// Статистика сжатия
	TotalOriginalSize   int64
	TotalCompressedSize int64
	TotalSavedSpace     int64
	AverageCompression  float64

	// Текущий результат
	LastResult *CompressionResult

	// Время выполнения
	StartTime     time.Time
	ElapsedTime   time.Duration
	EstimatedTime time.Duration

	// Состояние
	IsComplete bool
	Error      error

	// Сообщение для UI
	Message string
}

// ProcessingPhase фаза обработки
type ProcessingPhase int

const (
	PhaseInitializing ProcessingPhase = iota
	PhaseScanning
	PhaseCompressing
	PhaseCompleted
	PhaseFailed
)

// UIScreen типы экранов UI
type UIScreen int

const (
	UIScreenMenu UIScreen = iota
	UIScreenConfig
	UIScreenProcessing
)

// NewProcessingStatus создает новый статус обработки
func NewProcessingStatus(runID string, totalFiles int) *ProcessingStatus {
	return &ProcessingStatus{
		RunID:      runID,
		Phase:      PhaseInitializing,
		TotalFiles: totalFiles,
		StartTime:  time.Now(),
	}
}

// UpdateProgress обновляет прогресс обработки
func (ps *ProcessingStatus) UpdateProgress() {
	if ps.TotalFiles > 0 {
		ps.Progress = float64(ps.ProcessedFiles) / float64(ps.TotalFiles) * 100
	}

	ps.ElapsedTime = time.Since(ps.StartTime)

	// Оценка оставшегося времени
	if ps.ProcessedFiles > 0 && ps.ProcessedFiles < ps.TotalFiles {
		avgTimePerFile := ps.ElapsedTime / time.Duration(ps.ProcessedFiles)
		remainingFiles := ps.TotalFiles - ps.ProcessedFiles
		ps.EstimatedTime = avgTimePerFile * time.Duration(remainingFiles)
	}
}

// AddResult добавляет результат обработки файла
func (ps *ProcessingStatus) AddResult(result *CompressionResult) {
	ps.ProcessedFiles++
	ps.LastResult = result

	if result.Success && result.Error == nil {
		ps.SuccessfulFiles++
		ps.TotalOriginalSize += result.OriginalSize
		ps.TotalCompressedSize += result.CompressedSize
		ps.TotalSavedSpace += result.SavedSpace

		if result.Warning != nil {
			ps.BudgetWarnings++
		}

		// Пересчитываем среднее сжатие
		if ps.TotalOriginalSize > 0 {
			ps.AverageCompression = ((float64(ps.TotalOriginalSize) - float64(ps.TotalCompressedSize)) / float64(ps.TotalOriginalSize)) * 100
		}
	} else {
		ps.FailedFiles++
	}

	ps.UpdateProgress()
}

// SetPhase устанавливает фазу обработки
func (ps *ProcessingStatus) SetPhase(phase ProcessingPhase, message string) {
	ps.Phase = phase
	ps.Message = message
}

// SetCurrentFile устанавливает текущий обрабатываемый файл
func (ps *ProcessingStatus) SetCurrentFile(filePath string, size int64) {
	ps.CurrentFile = filePath
	ps.CurrentFileSize = size
}

// Complete завершает обработку
func (ps *ProcessingStatus) Complete() {
	ps.IsComplete = true
	ps.Phase = PhaseCompleted
	ps.Progress = 100
	ps.ElapsedTime = time.Since(ps.StartTime)
	ps.EstimatedTime = 0
}

// Fail отмечает обработку как неудачную
func (ps *ProcessingStatus) Fail(err error) {
	ps.IsComplete = true
	ps.Phase = PhaseFailed
	ps.Error = err
	ps.ElapsedTime = time.Since(ps.StartTime)
}

// String возвращает название фазы
func (phase ProcessingPhase) String() string {
	switch phase {
	case PhaseInitializing:
		return "Инициализация"
	case PhaseScanning:
		return "Сканирование файлов"
	case PhaseCompressing:
		return "Сжатие изображений"
	case PhaseCompleted:
		return "Завершено"
	case PhaseFailed:
		return "Ошибка"
	default:
		return "Неизвестно"
	}
}

// FormatElapsedTime форматирует время выполнения
func (ps *ProcessingStatus) FormatElapsedTime() string {
	return formatDuration(ps.ElapsedTime)
}

// FormatEstimatedTime форматирует оставшееся время
func (ps *ProcessingStatus) FormatEstimatedTime() string {
	if ps.EstimatedTime == 0 {
		return "N/A"
	}
	return formatDuration(ps.EstimatedTime)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "< 1 сек"
	}
	return d.Round(time.Second).String()
}
