package main

import (
	"sync"

	"imagecompressor/internal/domain/entities"
	"imagecompressor/internal/domain/repositories"
	usecases "imagecompressor/internal/usecase"
)

// ApplicationProcessor запускает сжатие из TUI
type ApplicationProcessor struct {
	compressUseCase *usecases.CompressDirectoryUseCase
	logger          repositories.Logger

	// Один запуск за раз
	mu sync.Mutex
	wg sync.WaitGroup
}

// NewApplicationProcessor создает новый процессор приложения
func NewApplicationProcessor(
	compressUseCase *usecases.CompressDirectoryUseCase,
	logger repositories.Logger,
) *ApplicationProcessor {
	return &ApplicationProcessor{
		compressUseCase: compressUseCase,
		logger:          logger,
	}
}

// StartProcessing сжимает изображения директории из конфигурации
func (p *ApplicationProcessor) StartProcessing(config *entities.Config) {
	p.wg.Add(1)
	defer p.wg.Done()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger.Info("Запуск сжатия: %s", config.Scanner.SourceDirectory)

	result, err := p.compressUseCase.Execute(config)
	if err != nil {
		p.logger.Error("Ошибка обработки: %v", err)
		return
	}

	if result.TotalFiles == 0 {
		return
	}

	p.logger.Success("Сжато %d из %d файлов, результат в %s",
		result.SuccessCount, result.TotalFiles, result.OutputDirectory)
}

// Shutdown дожидается завершения текущего запуска
func (p *ApplicationProcessor) Shutdown() {
	p.wg.Wait()
}
