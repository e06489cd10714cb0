package usecases

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"imagecompressor/internal/domain/entities"
	"imagecompressor/internal/domain/repositories"
	"imagecompressor/internal/infrastructure/compressors"
	"imagecompressor/internal/infrastructure/logging"
	"imagecompressor/internal/infrastructure/metrics"
)

// CompressDirectoryUseCase сценарий сжатия всех изображений в директории
type CompressDirectoryUseCase struct {
	fileRepo         repositories.FileRepository
	logger           repositories.Logger
	progressReporter func(entities.ProcessingStatus)
	resultHandler    func(*entities.CompressionResult)

	newCompressor func(filter string) compressors.ImageCompressor
	newMetrics    func(path string) repositories.MetricsRecorder
}

// NewCompressDirectoryUseCase создает новый сценарий сжатия директории
func NewCompressDirectoryUseCase(
	fileRepo repositories.FileRepository,
	logger repositories.Logger,
) *CompressDirectoryUseCase {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &CompressDirectoryUseCase{
		fileRepo:      fileRepo,
		logger:        logger,
		newCompressor: compressors.NewImageCompressor,
		newMetrics: func(path string) repositories.MetricsRecorder {
			return metrics.NewRecorder(path)
		},
	}
}

// DirectoryCompressionResult результат сжатия директории
type DirectoryCompressionResult struct {
	RunID           string
	OutputDirectory string
	TotalFiles      int
	SuccessCount    int
	FailedCount     int
	WarningCount    int
	Results         []*entities.CompressionResult
	Errors          []error
	Status          entities.ProcessingStatus
}

// SetProgressReporter устанавливает функцию для отчета о прогрессе
func (uc *CompressDirectoryUseCase) SetProgressReporter(reporter func(entities.ProcessingStatus)) {
	uc.progressReporter = reporter
}

// SetResultHandler устанавливает функцию, вызываемую после каждого файла
func (uc *CompressDirectoryUseCase) SetResultHandler(handler func(*entities.CompressionResult)) {
	uc.resultHandler = handler
}

// SetCompressorFactory подменяет создание компрессора (используется в тестах)
func (uc *CompressDirectoryUseCase) SetCompressorFactory(factory func(filter string) compressors.ImageCompressor) {
	uc.newCompressor = factory
}

// reportProgress отправляет обновление прогресса
func (uc *CompressDirectoryUseCase) reportProgress(status *entities.ProcessingStatus) {
	if uc.progressReporter != nil {
		uc.progressReporter(*status)
	}
}

// Execute сжимает все изображения исходной директории в выходную поддиректорию.
//
// Ошибки отдельных файлов не прерывают запуск и собираются в результате.
// Если изображений нет, выходная директория не создается.
func (uc *CompressDirectoryUseCase) Execute(config *entities.Config) (*DirectoryCompressionResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	sourceDir := config.Scanner.SourceDirectory
	outputDir := config.OutputDirectory()

	status := entities.NewProcessingStatus(uuid.NewString(), 0)
	status.SetPhase(entities.PhaseInitializing, "Инициализация обработки...")
	uc.reportProgress(status)

	result := &DirectoryCompressionResult{
		RunID:           status.RunID,
		OutputDirectory: outputDir,
	}

	// Проверяем существование исходной директории
	if !uc.fileRepo.DirectoryExists(sourceDir) {
		err := fmt.Errorf("%w: %s", entities.ErrDirectoryNotFound, sourceDir)
		status.Fail(err)
		uc.reportProgress(status)
		return nil, err
	}

	// Сканирование файлов
	status.SetPhase(entities.PhaseScanning, "Сканирование изображений...")
	uc.reportProgress(status)

	files, err := uc.fileRepo.ListImageFiles(sourceDir)
	if err != nil {
		err = fmt.Errorf("ошибка получения списка файлов: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return nil, err
	}

	if len(files) == 0 {
		uc.logger.Warning("Изображения не найдены в директории: %s", sourceDir)
		status.Complete()
		uc.reportProgress(status)
		result.Status = *status
		return result, nil
	}

	if err := uc.fileRepo.CreateDirectory(outputDir); err != nil {
		err = fmt.Errorf("ошибка создания выходной директории: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return nil, err
	}

	status.TotalFiles = len(files)
	result.TotalFiles = len(files)
	result.Results = make([]*entities.CompressionResult, 0, len(files))

	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Начало сжатия изображений")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Запуск: %s", status.RunID)
	uc.logInfo("║ Исходная директория: %s", sourceDir)
	uc.logInfo("║ Выходная директория: %s", outputDir)
	uc.logInfo("║ Максимальные размеры: %s", config.Limits.Bounds())
	uc.logInfo("║ Бюджет файла: %s", entities.FormatBytes(config.Limits.MaxFileSize))
	uc.logInfo("║ Фильтр: %s", config.Limits.ResampleFilter)
	uc.logInfo("║ Найдено файлов: %d", len(files))
	uc.logInfo("╚════════════════════════════════════════════════════════════")

	imageUseCase := NewCompressImageUseCase(uc.logger, uc.newCompressor(config.Limits.ResampleFilter), uc.fileRepo)
	recorder := uc.newMetrics(config.Output.MetricsFile)

	status.SetPhase(entities.PhaseCompressing, "Сжатие изображений...")
	uc.reportProgress(status)

	for i, inputFile := range files {
		fileName := filepath.Base(inputFile)
		outputFile := filepath.Join(outputDir, fileName)

		status.SetCurrentFile(inputFile, 0)
		uc.reportProgress(status)

		started := time.Now()
		fileResult, err := imageUseCase.CompressImage(inputFile, outputFile, config.Limits)
		recorder.RecordFile(fileResult, time.Since(started))

		status.AddResult(fileResult)
		status.SetCurrentFile(inputFile, fileResult.OriginalSize)
		result.Results = append(result.Results, fileResult)

		switch {
		case err != nil:
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", fileName, err))
			uc.logError("[%d/%d] ✗ %s", i+1, len(files), fileName)
			uc.logError("    └─ Ошибка: %v", err)
		case fileResult.Warning != nil:
			result.SuccessCount++
			result.WarningCount++
			uc.logWarning("[%d/%d] ! %s", i+1, len(files), fileName)
			uc.logWarning("    └─ %v", fileResult.Warning)
		default:
			result.SuccessCount++
			uc.logSuccess("[%d/%d] ✓ %s", i+1, len(files), fileName)
			uc.logInfo("    └─ %s -> %s, %s -> %s, качество %d",
				entities.FormatBytes(fileResult.OriginalSize),
				entities.FormatBytes(fileResult.CompressedSize),
				fileResult.OriginalDimensions,
				fileResult.OutputDimensions,
				fileResult.Quality)
		}

		if uc.resultHandler != nil {
			uc.resultHandler(fileResult)
		}
		uc.reportProgress(status)
	}

	if err := recorder.Flush(); err != nil {
		uc.logWarning("Не удалось записать метрики в %s: %v", config.Output.MetricsFile, err)
	}

	status.Complete()
	uc.reportProgress(status)
	result.Status = *status

	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Обработка завершена за %s", status.FormatElapsedTime())
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║   • Всего: %d", status.TotalFiles)
	uc.logSuccess("║   • Успешно: %d", status.SuccessfulFiles)
	if status.BudgetWarnings > 0 {
		uc.logWarning("║   • Сверх бюджета: %d", status.BudgetWarnings)
	}
	if status.FailedFiles > 0 {
		uc.logError("║   • Ошибок: %d", status.FailedFiles)
	}
	if status.TotalOriginalSize > 0 {
		uc.logInfo("║   • Исходный размер: %s", entities.FormatBytes(status.TotalOriginalSize))
		uc.logInfo("║   • Сжатый размер: %s", entities.FormatBytes(status.TotalCompressedSize))
		uc.logSuccess("║   • Среднее сжатие: %.1f%%", status.AverageCompression)
	}
	uc.logInfo("╚════════════════════════════════════════════════════════════")

	return result, nil
}

func (uc *CompressDirectoryUseCase) logInfo(format string, args ...any) {
	uc.logger.Info(format, args...)
}

func (uc *CompressDirectoryUseCase) logSuccess(format string, args ...any) {
	uc.logger.Success(format, args...)
}

func (uc *CompressDirectoryUseCase) logWarning(format string, args ...any) {
	uc.logger.Warning(format, args...)
}

func (uc *CompressDirectoryUseCase) logError(format string, args ...any) {
	uc.logger.Error(format, args...)
}
