package controllers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"imagecompressor/internal/domain/entities"
	usecases "imagecompressor/internal/usecase"
)

// DirectoryPrompt приглашение для ввода директории
const DirectoryPrompt = "Введите директорию с изображениями (Enter: рабочая директория): "

// CLIController контроллер для командной строки
type CLIController struct {
	compressDirectoryUseCase *usecases.CompressDirectoryUseCase
	reader                   *bufio.Reader
	out                      io.Writer
	errOut                   io.Writer
}

// NewCLIController создает новый CLI контроллер
func NewCLIController(
	compressDirectoryUseCase *usecases.CompressDirectoryUseCase,
	in io.Reader,
	out, errOut io.Writer,
) *CLIController {
	return &CLIController{
		compressDirectoryUseCase: compressDirectoryUseCase,
		reader:                   bufio.NewReader(in),
		out:                      out,
		errOut:                   errOut,
	}
}

// AskForDirectory запрашивает директорию у пользователя.
// Пустой ввод (или конец ввода) означает defaultDir.
func (c *CLIController) AskForDirectory(defaultDir string) string {
	fmt.Fprint(c.out, DirectoryPrompt)

	input, err := c.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return defaultDir
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return defaultDir
	}
	return input
}

// HandleDirectory сжимает изображения директории и печатает результаты
func (c *CLIController) HandleDirectory(config *entities.Config) error {
	c.compressDirectoryUseCase.SetResultHandler(func(result *entities.CompressionResult) {
		c.showFileResult(result, config.Output.Verbose)
	})

	result, err := c.compressDirectoryUseCase.Execute(config)
	if err != nil {
		if errors.Is(err, entities.ErrDirectoryNotFound) {
			fmt.Fprintf(c.errOut, "Неверная директория: %s\n", config.Scanner.SourceDirectory)
		} else {
			fmt.Fprintf(c.errOut, "Ошибка: %v\n", err)
		}
		return err
	}

	c.showDirectoryResult(result)
	return nil
}

// showFileResult печатает строку по одному файлу
func (c *CLIController) showFileResult(result *entities.CompressionResult, verbose bool) {
	fileName := filepath.Base(result.CurrentFile)

	if result.Error != nil {
		fmt.Fprintf(c.errOut, "%s\tошибка: %v\n", fileName, result.Error)
		return
	}

	if verbose {
		fmt.Fprintf(c.out, "%s\t%s -> %s\n",
			fileName,
			entities.FormatBytes(result.OriginalSize),
			entities.FormatBytes(result.CompressedSize))
	}

	if result.Warning != nil {
		fmt.Fprintf(c.errOut, "%s\tпредупреждение: %v\n", fileName, result.Warning)
	}
}

// showDirectoryResult показывает итог, если что-то было обработано
func (c *CLIController) showDirectoryResult(result *usecases.DirectoryCompressionResult) {
	if result.TotalFiles == 0 {
		return
	}

	status := result.Status
	fmt.Fprintf(c.out, "Готово: %d/%d файлов, %s -> %s (%.1f%%), сверх бюджета: %d, ошибок: %d, время: %s\n",
		result.SuccessCount,
		result.TotalFiles,
		entities.FormatBytes(status.TotalOriginalSize),
		entities.FormatBytes(status.TotalCompressedSize),
		status.AverageCompression,
		result.WarningCount,
		result.FailedCount,
		status.FormatElapsedTime())
}
