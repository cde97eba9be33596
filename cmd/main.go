package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"imgshrink/internal/domain/entities"
	"imgshrink/internal/infrastructure/config"
	"imgshrink/internal/infrastructure/logging"
	"imgshrink/internal/interface/controllers"
	"imgshrink/internal/presentation/tui"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	noTUI := flag.Bool("no-tui", false, "работать без TUI, выводя журнал в консоль")
	singleFile := flag.String("file", "", "сжать один файл и выйти")
	outputFile := flag.String("out", "", "путь результата для -file (по умолчанию рядом с исходником)")
	flag.Parse()

	// Загрузка конфигурации
	configRepo := config.NewRepository()
	appConfig, err := configRepo.Load(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация базового логгера (в файл)
	fileLogger, err := logging.NewFileLogger(
		appConfig.Output.LogFileName,
		appConfig.Output.LogLevel,
		appConfig.Output.LogMaxSizeMB,
		appConfig.Output.LogToFile,
	)
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}

	if *noTUI || *singleFile != "" {
		code := runConsole(appConfig, fileLogger, *singleFile, *outputFile)
		fileLogger.Close()
		os.Exit(code)
	}
	defer fileLogger.Close()

	// Инициализация TUI
	tuiManager := tui.NewManager(configRepo, *configPath, appConfig)
	tuiManager.Initialize()

	// Оборачиваем логгер адаптером, чтобы видеть логи в TUI
	logger := tui.NewUILogger(fileLogger, tuiManager)
	processUseCase, _ := buildUseCases(logger)

	// Подключаем репортер прогресса к TUI
	processUseCase.SetProgressReporter(func(s entities.ProcessingStatus) {
		tuiManager.SendStatusUpdate(s)
	})

	// Создание процессора для обработки команд
	processor := NewApplicationProcessor(processUseCase, appConfig, logger)
	defer processor.Shutdown()

	// Привязываем запуск обработки к TUI
	tuiManager.SetOnStartProcessing(func() {
		// Получаем актуальную конфигурацию из TUI
		processor.SetConfig(tuiManager.GetConfig())
		processor.StartProcessing()
	})

	// Автозапуск, если включен в конфигурации
	if appConfig.Compression.AutoStart {
		tuiManager.ShowProcessing()
		go processor.StartProcessing()
	}

	// Запуск TUI
	if err := tuiManager.Run(); err != nil {
		log.Fatalf("Ошибка запуска TUI: %v", err)
	}

	// Cleanup при выходе
	tuiManager.Cleanup()
}

// runConsole выполняет обработку без TUI и возвращает код завершения
func runConsole(appConfig *entities.Config, fileLogger *logging.FileLogger, singleFile, outputFile string) int {
	logger := fileLogger.WithConsole(os.Stdout, appConfig.Output.LogLevel)
	processUseCase, imageUseCase := buildUseCases(logger)
	controller := controllers.NewCLIController(imageUseCase, processUseCase, os.Stdout)

	if singleFile != "" {
		if err := controller.HandleSingleFile(singleFile, outputFile, appConfig.Compression.CompressionConfig()); err != nil {
			logger.Error("%v", err)
			return 1
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := controller.HandleThemes(ctx, appConfig); err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}
