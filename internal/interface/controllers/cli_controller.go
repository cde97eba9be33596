package controllers

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"imgshrink/internal/domain/entities"
	usecases "imgshrink/internal/usecase"
)

// CLIController контроллер для работы без TUI (флаг -no-tui)
type CLIController struct {
	imageUseCase   *usecases.CompressImageUseCase
	processUseCase *usecases.ProcessThemesUseCase
	out            io.Writer
}

// NewCLIController создает новый CLI контроллер
func NewCLIController(
	imageUseCase *usecases.CompressImageUseCase,
	processUseCase *usecases.ProcessThemesUseCase,
	out io.Writer,
) *CLIController {
	return &CLIController{
		imageUseCase:   imageUseCase,
		processUseCase: processUseCase,
		out:            out,
	}
}

// HandleSingleFile сжимает один файл.
// Если outputPath пуст, результат пишется рядом с исходником с расширением .jpg.
func (c *CLIController) HandleSingleFile(inputPath, outputPath string, config *entities.CompressionConfig) error {
	fmt.Fprintln(c.out, "🖼  Image Shrinker - Сжатие изображения")
	fmt.Fprintln(c.out, "======================================")

	if outputPath == "" {
		outputPath = entities.OutputPath(filepath.Dir(inputPath), inputPath, config.OutputFormat)
	}

	fmt.Fprintf(c.out, "\n🚀 Начинаем сжатие файла: %s\n", inputPath)

	result, err := c.imageUseCase.OptimizeFile(inputPath, outputPath, config, false)
	if err != nil {
		return fmt.Errorf("ошибка сжатия: %w", err)
	}

	c.showCompressionResult(result, config)
	return nil
}

// HandleThemes обрабатывает все тематические папки.
// Подробный журнал пишет логгер сценария, здесь выводятся только смены фаз.
func (c *CLIController) HandleThemes(ctx context.Context, config *entities.Config) error {
	fmt.Fprintln(c.out, "🖼  Image Shrinker - Пакетная обработка")
	fmt.Fprintln(c.out, "======================================")

	var (
		lastPhase = entities.ProcessingPhase(-1)
		final     entities.ProcessingStatus
	)
	c.processUseCase.SetProgressReporter(func(status entities.ProcessingStatus) {
		if status.Phase != lastPhase {
			lastPhase = status.Phase
			fmt.Fprintf(c.out, "▶ %s\n", status.Phase)
		}
		final = status
	})
	defer c.processUseCase.SetProgressReporter(nil)

	if err := c.processUseCase.Execute(ctx, config); err != nil {
		return fmt.Errorf("ошибка обработки: %w", err)
	}

	fmt.Fprintf(c.out, "\n🎉 Обработка завершена! Успешно: %d/%d, ошибок: %d\n",
		final.SuccessfulFiles, final.TotalFiles, final.FailedFiles)
	return nil
}

// showCompressionResult показывает результат сжатия файла
func (c *CLIController) showCompressionResult(result *entities.CompressionResult, config *entities.CompressionConfig) {
	fmt.Fprintln(c.out, "\n📊 Результаты сжатия:")
	fmt.Fprintf(c.out, "Исходный размер: %s\n", humanize.IBytes(uint64(result.OriginalSize)))
	fmt.Fprintf(c.out, "Сжатый размер: %s\n", humanize.IBytes(uint64(result.CompressedSize)))
	fmt.Fprintf(c.out, "Качество JPEG: %d\n", result.Quality)
	fmt.Fprintf(c.out, "Сжатие: %.1f%%\n", result.CompressionRatio)

	if result.Fallback {
		fmt.Fprintln(c.out, "↘ Разрешение уменьшено, чтобы уложиться в бюджет")
	}

	if result.WithinBudget {
		fmt.Fprintf(c.out, "✅ Файл укладывается в бюджет %s\n", humanize.IBytes(uint64(config.MaxBytes)))
	} else {
		fmt.Fprintf(c.out, "⚠️ Файл больше бюджета %s (лучший достижимый результат)\n", humanize.IBytes(uint64(config.MaxBytes)))
	}

	fmt.Fprintf(c.out, "\n🎉 Готово! Сжатый файл сохранен как: %s\n", result.OutputFile)
}
