package usecases

import (
	"fmt"
	"path/filepath"

	"imgshrink/internal/domain/entities"
	"imgshrink/internal/domain/repositories"
	"imgshrink/internal/infrastructure/compressors"
)

// CompressImageUseCase обрабатывает сжатие одного изображения
type CompressImageUseCase struct {
	logger     repositories.Logger
	compressor repositories.ImageCompressor
	fileRepo   repositories.FileRepository
}

// NewCompressImageUseCase создает новый UseCase для сжатия изображений
func NewCompressImageUseCase(
	logger repositories.Logger,
	compressor repositories.ImageCompressor,
	fileRepo repositories.FileRepository,
) *CompressImageUseCase {
	return &CompressImageUseCase{
		logger:     logger,
		compressor: compressor,
		fileRepo:   fileRepo,
	}
}

// OptimizeFile сжимает изображение inputPath и записывает результат в outputPath.
// При removeSource исходный файл удаляется после успешной записи,
// если его путь отличается от выходного.
func (uc *CompressImageUseCase) OptimizeFile(
	inputPath, outputPath string,
	config *entities.CompressionConfig,
	removeSource bool,
) (*entities.CompressionResult, error) {
	result := &entities.CompressionResult{
		CurrentFile: inputPath,
		OutputFile:  outputPath,
		Theme:       filepath.Base(filepath.Dir(inputPath)),
	}

	fail := func(err error) (*entities.CompressionResult, error) {
		result.Success = false
		result.Error = err
		return result, err
	}

	if !compressors.IsImageFile(inputPath) {
		return fail(fmt.Errorf("%w: %s", entities.ErrUnsupportedFormat, inputPath))
	}

	source, err := uc.fileRepo.ReadFile(inputPath)
	if err != nil {
		return fail(fmt.Errorf("не удалось прочитать файл %s: %w", inputPath, err))
	}
	result.OriginalSize = int64(len(source))

	encoded, err := uc.compressor.Compress(source, config)
	if err != nil {
		return fail(fmt.Errorf("ошибка сжатия %s: %w", filepath.Base(inputPath), err))
	}

	uc.logDebug("%s: %dx%d, качество %d, попыток %d, %d байт",
		filepath.Base(inputPath), encoded.Width, encoded.Height, encoded.Quality, encoded.Attempts, encoded.SizeBytes)

	if err := uc.fileRepo.WriteFileAtomic(outputPath, encoded.Bytes); err != nil {
		return fail(fmt.Errorf("ошибка записи %s: %w", outputPath, err))
	}

	if removeSource && filepath.Clean(inputPath) != filepath.Clean(outputPath) {
		if err := uc.fileRepo.RemoveFile(inputPath); err != nil {
			return fail(fmt.Errorf("результат записан, но не удалось удалить исходник %s: %w", inputPath, err))
		}
	}

	result.CompressedSize = int64(encoded.SizeBytes)
	result.Quality = encoded.Quality
	result.Fallback = encoded.Fallback
	result.WithinBudget = encoded.FitsBudget(config.MaxBytes)
	result.Success = true
	result.CalculateCompressionRatio()

	return result, nil
}

func (uc *CompressImageUseCase) logDebug(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Debug(format, args...)
	}
}
