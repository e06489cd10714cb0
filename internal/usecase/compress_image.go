package usecases

import (
	"fmt"
	"path/filepath"

	"imagecompressor/internal/domain/entities"
	"imagecompressor/internal/domain/repositories"
	"imagecompressor/internal/domain/services"
	"imagecompressor/internal/infrastructure/compressors"
	"imagecompressor/internal/infrastructure/logging"
)

// CompressImageUseCase обрабатывает сжатие одного изображения:
// декодирование, масштабирование, подбор качества и запись.
type CompressImageUseCase struct {
	logger     repositories.Logger
	compressor compressors.ImageCompressor
	fileRepo   repositories.FileRepository
}

// NewCompressImageUseCase создает новый UseCase для сжатия изображений
func NewCompressImageUseCase(
	logger repositories.Logger,
	compressor compressors.ImageCompressor,
	fileRepo repositories.FileRepository,
) *CompressImageUseCase {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &CompressImageUseCase{
		logger:     logger,
		compressor: compressor,
		fileRepo:   fileRepo,
	}
}

// CompressImage сжимает одно изображение в JPEG, укладывая его в limits.
//
// Результат возвращается всегда; при ошибке он содержит ее в поле Error.
// Невыполненный бюджет ошибкой не считается: файл записывается,
// а в Warning кладется ErrBudgetUnsatisfiable.
func (uc *CompressImageUseCase) CompressImage(inputPath, outputPath string, limits entities.LimitsConfig) (*entities.CompressionResult, error) {
	result := &entities.CompressionResult{
		CurrentFile: inputPath,
		OutputFile:  outputPath,
	}

	fail := func(err error) (*entities.CompressionResult, error) {
		result.Success = false
		result.Error = err
		return result, err
	}

	fileInfo, err := uc.fileRepo.GetFileInfo(inputPath)
	if err != nil {
		return fail(fmt.Errorf("ошибка получения информации о файле: %w", err))
	}
	result.OriginalSize = fileInfo.Size

	img, err := uc.compressor.Decode(inputPath)
	if err != nil {
		return fail(err)
	}

	bounds := img.Bounds()
	result.OriginalDimensions = entities.Dimensions{Width: bounds.Dx(), Height: bounds.Dy()}

	dims, err := services.CalcSize(result.OriginalDimensions, limits.Bounds())
	if err != nil {
		return fail(err)
	}
	result.OutputDimensions = dims

	resized := uc.compressor.Resize(img, dims)
	uc.logger.Debug("%s: %s -> %s", fileInfo.Name, result.OriginalDimensions, dims)

	quality, err := services.FindQuality(resized, limits.MaxFileSize, uc.compressor)
	if err != nil {
		return fail(err)
	}
	result.Quality = quality.Quality
	result.EncodeAttempts = quality.Attempts
	uc.logger.Debug("%s: качество %d, %d байт, попыток кодирования %d",
		fileInfo.Name, quality.Quality, quality.Size, quality.Attempts)

	if err := uc.fileRepo.WriteFile(outputPath, quality.Data); err != nil {
		return fail(fmt.Errorf("%w: %s: %v", entities.ErrWriteFailure, outputPath, err))
	}

	result.CompressedSize = quality.Size
	result.Success = true
	result.CalculateCompressionRatio()

	if !quality.BudgetMet {
		result.Warning = fmt.Errorf("%w: %s занимает %s при качестве %d (бюджет %s)",
			entities.ErrBudgetUnsatisfiable,
			filepath.Base(inputPath),
			entities.FormatBytes(quality.Size),
			quality.Quality,
			entities.FormatBytes(limits.MaxFileSize))
	}

	return result, nil
}
