package usecases

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"imgshrink/internal/domain/entities"
	"imgshrink/internal/domain/repositories"
)

// ProcessThemesUseCase сценарий пакетной обработки тематических папок
type ProcessThemesUseCase struct {
	themeUseCase     *CompressThemeUseCase
	fileRepo         repositories.FileRepository
	backupRepo       repositories.BackupManager
	configRepo       repositories.ConfigRepository
	logger           repositories.Logger
	progressReporter func(entities.ProcessingStatus)
}

// NewProcessThemesUseCase создает новый сценарий пакетной обработки
func NewProcessThemesUseCase(
	themeUseCase *CompressThemeUseCase,
	fileRepo repositories.FileRepository,
	backupRepo repositories.BackupManager,
	configRepo repositories.ConfigRepository,
	logger repositories.Logger,
) *ProcessThemesUseCase {
	return &ProcessThemesUseCase{
		themeUseCase: themeUseCase,
		fileRepo:     fileRepo,
		backupRepo:   backupRepo,
		configRepo:   configRepo,
		logger:       logger,
	}
}

// SetProgressReporter устанавливает функцию для отчета о прогрессе
func (uc *ProcessThemesUseCase) SetProgressReporter(reporter func(entities.ProcessingStatus)) {
	uc.progressReporter = reporter
}

// reportProgress отправляет обновление прогресса
func (uc *ProcessThemesUseCase) reportProgress(status *entities.ProcessingStatus) {
	if uc.progressReporter != nil {
		uc.progressReporter(*status)
	}
}

// fail завершает обработку с ошибкой
func (uc *ProcessThemesUseCase) fail(status *entities.ProcessingStatus, err error) error {
	status.Fail(err)
	uc.reportProgress(status)
	uc.logError("❌ %v", err)
	return err
}

// Execute выполняет обработку всех тематических папок согласно конфигурации.
// Ошибки отдельных файлов логируются и не прерывают обработку;
// ошибка возвращается только при невозможности начать или продолжить пакет.
func (uc *ProcessThemesUseCase) Execute(ctx context.Context, config *entities.Config) error {
	// Фаза 1: Инициализация
	status := entities.NewProcessingStatus(0)
	status.SetPhase(entities.PhaseInitializing, "Инициализация обработки...")
	uc.reportProgress(status)

	scanner := config.Scanner
	policy, err := entities.ParseDestinationPolicy(string(scanner.Destination))
	if err != nil {
		return uc.fail(status, err)
	}

	compressionConfig, err := uc.configRepo.GetCompressionConfig(&config.Compression)
	if err != nil {
		return uc.fail(status, fmt.Errorf("ошибка валидации конфигурации сжатия: %w", err))
	}

	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Начало обработки изображений")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Исходная директория: %s", scanner.SourceDirectory)
	uc.logInfo("║ Режим: %s", policy)
	if policy.NeedsBackup() {
		uc.logInfo("║ Резервная копия: %s", scanner.BackupDirectory)
	} else {
		uc.logInfo("║ Целевая директория: %s", scanner.OutputDirectory)
	}
	uc.logInfo("║ Максимальный размер стороны: %d px", compressionConfig.MaxDimension)
	uc.logInfo("║ Бюджет размера файла: %s", humanize.IBytes(uint64(compressionConfig.MaxBytes)))
	uc.logInfo("║ Качество: %d → %d (шаг %d)", compressionConfig.QualityMax, compressionConfig.QualityMin, compressionConfig.QualityStep)
	uc.logInfo("╚════════════════════════════════════════════════════════════")

	if !uc.fileRepo.FileExists(scanner.SourceDirectory) {
		return uc.fail(status, fmt.Errorf("%w: %s", entities.ErrDirectoryNotFound, scanner.SourceDirectory))
	}

	if err := validatePaths(scanner, policy); err != nil {
		return uc.fail(status, err)
	}

	// Фаза 2: Резервное копирование или подготовка целевой директории
	if policy.NeedsBackup() {
		status.SetPhase(entities.PhaseBackingUp, "Резервное копирование исходников...")
		uc.reportProgress(status)

		created, err := uc.backupRepo.EnsureBackedUp(scanner.SourceDirectory, scanner.BackupDirectory)
		if err != nil {
			return uc.fail(status, fmt.Errorf("ошибка резервного копирования: %w", err))
		}
		if created {
			uc.logSuccess("✅ Исходные файлы скопированы в: %s", scanner.BackupDirectory)
		} else {
			uc.logInfo("💾 Резервная копия уже существует: %s", scanner.BackupDirectory)
		}
	} else {
		if err := uc.fileRepo.CreateDirectory(scanner.OutputDirectory); err != nil {
			return uc.fail(status, fmt.Errorf("ошибка создания целевой директории: %w", err))
		}
	}

	// Фаза 3: Сканирование тематических папок
	status.SetPhase(entities.PhaseScanning, "Сканирование тематических папок...")
	uc.reportProgress(status)
	uc.logInfo("🔍 Сканирование директории...")

	themes, err := uc.fileRepo.ListThemeFolders(scanner.SourceDirectory)
	if err != nil {
		return uc.fail(status, fmt.Errorf("ошибка получения списка тем: %w", err))
	}

	jobs := make([]ThemeJob, 0, len(themes))
	for _, theme := range themes {
		themeDir := filepath.Join(scanner.SourceDirectory, theme)
		images, err := uc.fileRepo.ListImages(themeDir)
		if err != nil {
			// Нечитаемая папка пропускается, как и отдельный файл
			uc.logError("Не удалось прочитать тему [%s]: %v", theme, err)
			continue
		}
		jobs = append(jobs, ThemeJob{
			Theme:     theme,
			SourceDir: themeDir,
			OutputDir: policy.OutputDirectory(scanner.SourceDirectory, scanner.OutputDirectory, theme),
			Policy:    policy,
			Config:    compressionConfig,
			Images:    images,
		})
		status.TotalFiles += len(images)
	}
	status.TotalThemes = len(jobs)

	if status.TotalFiles == 0 {
		uc.logWarning("⚠️  %v в директории: %s", entities.ErrNoImagesFound, scanner.SourceDirectory)
		status.Complete()
		uc.reportProgress(status)
		return nil
	}

	uc.logSuccess("✓ Найдено тем: %d, изображений: %d", status.TotalThemes, status.TotalFiles)

	// Фаза 4: Сжатие
	status.SetPhase(entities.PhaseCompressing, "Сжатие изображений...")
	uc.reportProgress(status)

	for _, job := range jobs {
		uc.logInfo("")
		uc.logInfo("🔄 Обработка темы [%s] (всего %d изображений)", job.Theme, len(job.Images))

		_, err := uc.themeUseCase.Execute(ctx, job, func(result *entities.CompressionResult) {
			status.SetCurrentFile(job.Theme, result.CurrentFile, result.OriginalSize)
			status.AddResult(result)
			uc.reportProgress(status)
			uc.logResult(status, result)
		})
		if err != nil {
			return uc.fail(status, fmt.Errorf("обработка прервана: %w", err))
		}
	}

	// Финальная фаза
	status.Complete()
	uc.reportProgress(status)
	uc.logSummary(status, policy, scanner)

	return nil
}

// validatePaths проверяет, что служебные директории не пересекаются с исходной
// ни в одну сторону
func validatePaths(scanner entities.ScannerConfig, policy entities.DestinationPolicy) error {
	if policy.NeedsBackup() {
		if strings.TrimSpace(scanner.BackupDirectory) == "" {
			return entities.ErrBackupDirectoryNeeded
		}
		if entities.PathWithin(scanner.SourceDirectory, scanner.BackupDirectory) {
			return fmt.Errorf("%w: %s", entities.ErrBackupInsideSource, scanner.BackupDirectory)
		}
		if entities.PathWithin(scanner.BackupDirectory, scanner.SourceDirectory) {
			return fmt.Errorf("%w: %s", entities.ErrBackupContainsSource, scanner.BackupDirectory)
		}
		return nil
	}

	if entities.PathWithin(scanner.SourceDirectory, scanner.OutputDirectory) {
		return fmt.Errorf("%w: %s", entities.ErrOutputInsideSource, scanner.OutputDirectory)
	}
	if entities.PathWithin(scanner.OutputDirectory, scanner.SourceDirectory) {
		return fmt.Errorf("%w: %s", entities.ErrOutputContainsSource, scanner.OutputDirectory)
	}
	return nil
}

// logResult логирует результат обработки одного файла
func (uc *ProcessThemesUseCase) logResult(status *entities.ProcessingStatus, result *entities.CompressionResult) {
	fileName := filepath.Base(result.CurrentFile)
	if !result.Success || result.Error != nil {
		uc.logError("   ❌ [%d/%d] %s: %v", status.ProcessedFiles, status.TotalFiles, fileName, result.Error)
		return
	}

	line := fmt.Sprintf("   ✔ [%d/%d] %s → %s (%s, качество %d)",
		status.ProcessedFiles, status.TotalFiles,
		fileName, filepath.Base(result.OutputFile),
		humanize.IBytes(uint64(result.CompressedSize)), result.Quality)

	switch {
	case !result.WithinBudget:
		uc.logWarning("%s ⚠️ бюджет не достигнут", line)
	case result.Fallback:
		uc.logSuccess("%s, уменьшено разрешение", line)
	default:
		uc.logSuccess("%s", line)
	}
}

// logSummary логирует итоговую статистику
func (uc *ProcessThemesUseCase) logSummary(status *entities.ProcessingStatus, policy entities.DestinationPolicy, scanner entities.ScannerConfig) {
	uc.logInfo("")
	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ 🎉 Обработка завершена")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Время выполнения: %s", status.FormatElapsedTime())
	uc.logInfo("║ Тем: %d, изображений: %d", status.TotalThemes, status.TotalFiles)
	uc.logSuccess("║   • Успешно: %d", status.SuccessfulFiles)

	if status.FailedFiles > 0 {
		uc.logError("║   • Ошибок: %d", status.FailedFiles)
	}
	if status.FallbackFiles > 0 {
		uc.logInfo("║   • С уменьшением разрешения: %d", status.FallbackFiles)
	}
	if status.OverBudgetFiles > 0 {
		uc.logWarning("║   • Больше бюджета: %d", status.OverBudgetFiles)
	}

	if status.TotalOriginalSize > 0 {
		uc.logInfo("╠════════════════════════════════════════════════════════════")
		uc.logInfo("║ Исходный размер: %s", humanize.IBytes(uint64(status.TotalOriginalSize)))
		uc.logInfo("║ Сжатый размер: %s", humanize.IBytes(uint64(status.TotalCompressedSize)))
		uc.logSuccess("║ Среднее сжатие: %.1f%%", status.AverageCompression)
	}

	if policy.NeedsBackup() {
		uc.logInfo("║ 💾 Оригиналы сохранены в: %s", scanner.BackupDirectory)
	} else {
		uc.logInfo("║ 📁 Результаты записаны в: %s", scanner.OutputDirectory)
	}
	uc.logInfo("╚════════════════════════════════════════════════════════════")
}

// Методы для логирования
func (uc *ProcessThemesUseCase) logInfo(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Info(format, args...)
	}
}

func (uc *ProcessThemesUseCase) logSuccess(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Success(format, args...)
	}
}

func (uc *ProcessThemesUseCase) logWarning(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Warning(format, args...)
	}
}

func (uc *ProcessThemesUseCase) logError(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Error(format, args...)
	}
}
