package repositories

import (
	"time"

	"imagecompressor/internal/domain/entities"
)

// FileRepository интерфейс для работы с файловой системой
type FileRepository interface {
	GetFileInfo(path string) (*entities.ImageFile, error)
	DirectoryExists(path string) bool
	CreateDirectory(path string) error
	ListImageFiles(directory string) ([]string, error)
	WriteFile(path string, data []byte) error
}

// MetricsRecorder интерфейс для сбора статистики запуска
type MetricsRecorder interface {
	RecordFile(result *entities.CompressionResult, duration time.Duration)
	Flush() error
}

// Logger интерфейс для логирования.
// Warning используется для мягких ошибок: файл обработан, но бюджет не выдержан.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
	Success(format string, args ...any)
	Close() error
}
