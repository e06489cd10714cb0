package main

import (
	"flag"
	"log"
	"os"

	"imagecompressor/internal/domain/entities"
	"imagecompressor/internal/domain/repositories"
	"imagecompressor/internal/infrastructure/config"
	"imagecompressor/internal/infrastructure/logging"
	infraRepos "imagecompressor/internal/infrastructure/repositories"
	"imagecompressor/internal/interface/controllers"
	"imagecompressor/internal/presentation/tui"
	usecases "imagecompressor/internal/usecase"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	dir := flag.String("dir", "", "директория с изображениями (без интерактивного запроса)")
	useTUI := flag.Bool("tui", false, "запустить терминальный интерфейс")
	flag.Parse()

	// Загрузка конфигурации
	configRepo := config.NewRepository()
	appConfig, err := configRepo.Load(*configPath)
	if err != nil {
		log.Printf("Ошибка загрузки конфигурации: %v", err)
		return 1
	}

	// Базовый логгер (в файл, если включен)
	fileLogger, err := logging.NewFileLogger(
		appConfig.Output.LogFileName,
		appConfig.Output.LogLevel,
		appConfig.Output.LogMaxSizeMB,
		appConfig.Output.LogToFile,
	)
	if err != nil {
		log.Printf("Предупреждение: не удалось инициализировать логгер: %v", err)
	}

	var baseLogger repositories.Logger
	if fileLogger != nil {
		baseLogger = fileLogger
		defer fileLogger.Close()
	}

	fileRepo := infraRepos.NewFileSystemRepository()

	if *useTUI {
		return runTUI(configRepo, *configPath, fileRepo, baseLogger)
	}
	return runCLI(appConfig, *dir, fileRepo, baseLogger)
}

// runCLI запрашивает директорию и сжимает ее изображения
func runCLI(appConfig *entities.Config, dir string, fileRepo repositories.FileRepository, logger repositories.Logger) int {
	useCase := usecases.NewCompressDirectoryUseCase(fileRepo, logger)
	controller := controllers.NewCLIController(useCase, os.Stdin, os.Stdout, os.Stderr)

	if dir == "" {
		dir = controller.AskForDirectory(appConfig.Scanner.SourceDirectory)
	}

	if err := controller.HandleDirectory(appConfig.WithSourceDirectory(dir)); err != nil {
		return 1
	}
	return 0
}

// runTUI запускает терминальный интерфейс
func runTUI(
	configRepo repositories.AppConfigRepository,
	configPath string,
	fileRepo repositories.FileRepository,
	fileLogger repositories.Logger,
) int {
	tuiManager := tui.NewManager(configRepo, configPath)
	tuiManager.Initialize()

	// Оборачиваем логгер адаптером, чтобы видеть логи в TUI
	logger := tui.NewUILogger(fileLogger, tuiManager)

	useCase := usecases.NewCompressDirectoryUseCase(fileRepo, logger)
	useCase.SetProgressReporter(tuiManager.SendStatusUpdate)

	processor := NewApplicationProcessor(useCase, logger)
	defer processor.Shutdown()

	// Запуск обработки с актуальной конфигурацией из формы
	tuiManager.SetOnStartProcessing(func() {
		processor.StartProcessing(tuiManager.GetConfig())
	})

	if err := tuiManager.Run(); err != nil {
		log.Printf("Ошибка запуска TUI: %v", err)
		return 1
	}

	tuiManager.Cleanup()
	return 0
}
