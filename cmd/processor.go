package main

import (
	"context"
	"sync"

	"imgshrink/internal/domain/entities"
	"imgshrink/internal/domain/repositories"
	"imgshrink/internal/infrastructure/compressors"
	infraRepos "imgshrink/internal/infrastructure/repositories"
	usecases "imgshrink/internal/usecase"
)

// buildUseCases собирает сценарии обработки вокруг переданного логгера
func buildUseCases(logger repositories.Logger) (*usecases.ProcessThemesUseCase, *usecases.CompressImageUseCase) {
	fileRepo := infraRepos.NewFileSystemRepository()
	imageUseCase := usecases.NewCompressImageUseCase(logger, compressors.NewImageCompressor(), fileRepo)

	processUseCase := usecases.NewProcessThemesUseCase(
		usecases.NewCompressThemeUseCase(imageUseCase),
		fileRepo,
		infraRepos.NewBackupRepository(),
		infraRepos.NewConfigRepository(),
		logger,
	)
	return processUseCase, imageUseCase
}

// ApplicationProcessor запускает пакетную обработку из TUI
type ApplicationProcessor struct {
	processUseCase *usecases.ProcessThemesUseCase
	logger         repositories.Logger

	mu      sync.Mutex
	config  *entities.Config
	running bool

	// Graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApplicationProcessor создает новый процессор приложения
func NewApplicationProcessor(
	processUseCase *usecases.ProcessThemesUseCase,
	config *entities.Config,
	logger repositories.Logger,
) *ApplicationProcessor {
	ctx, cancel := context.WithCancel(context.Background())

	return &ApplicationProcessor{
		processUseCase: processUseCase,
		config:         config,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// SetConfig заменяет конфигурацию для следующего запуска
func (p *ApplicationProcessor) SetConfig(config *entities.Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config = config
}

// StartProcessing запускает обработку тематических папок.
// Повторный вызов во время работы игнорируется.
func (p *ApplicationProcessor) StartProcessing() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		p.logger.Warning("Обработка уже выполняется")
		return
	}
	p.running = true
	config := p.config
	p.wg.Add(1)
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		p.wg.Done()
	}()

	p.logger.Info("Запуск обработки изображений в %s", config.Scanner.SourceDirectory)

	if err := p.processUseCase.Execute(p.ctx, config); err != nil {
		p.logger.Error("Ошибка обработки: %v", err)
		return
	}

	p.logger.Success("Обработка изображений завершена успешно")
}

// Shutdown прерывает текущую обработку и ждет ее завершения
func (p *ApplicationProcessor) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
