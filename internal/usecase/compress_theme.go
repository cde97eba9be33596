package usecases

import (
	"context"
	"fmt"
	"path/filepath"

	"imgshrink/internal/domain/entities"
)

// ThemeJob описывает обработку одной тематической папки
type ThemeJob struct {
	Theme     string
	SourceDir string // Папка с исходными изображениями темы
	OutputDir string // Папка для результатов темы
	Policy    entities.DestinationPolicy
	Config    *entities.CompressionConfig
	Images    []string
}

// ThemeCompressionResult результат сжатия тематической папки
type ThemeCompressionResult struct {
	Theme        string
	TotalFiles   int
	SuccessCount int
	FailedCount  int
	Results      []*entities.CompressionResult
	Errors       []error
}

// CompressThemeUseCase сценарий сжатия всех изображений тематической папки
type CompressThemeUseCase struct {
	imageUseCase *CompressImageUseCase
}

// NewCompressThemeUseCase создает новый сценарий сжатия тематической папки
func NewCompressThemeUseCase(imageUseCase *CompressImageUseCase) *CompressThemeUseCase {
	return &CompressThemeUseCase{
		imageUseCase: imageUseCase,
	}
}

// Execute сжимает изображения темы по очереди.
// Ошибка отдельного файла не прерывает обработку: она попадает в результат
// и передается в onResult. Возвращаемая ошибка означает только отмену контекста.
func (uc *CompressThemeUseCase) Execute(
	ctx context.Context,
	job ThemeJob,
	onResult func(*entities.CompressionResult),
) (*ThemeCompressionResult, error) {
	result := &ThemeCompressionResult{
		Theme:      job.Theme,
		TotalFiles: len(job.Images),
		Results:    make([]*entities.CompressionResult, 0, len(job.Images)),
		Errors:     make([]error, 0),
	}

	owners := outputOwners(job)

	for _, inputFile := range job.Images {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outputFile := entities.OutputPath(job.OutputDir, inputFile, job.Config.OutputFormat)

		var fileResult *entities.CompressionResult
		if owner := owners[outputFile]; owner != inputFile {
			err := fmt.Errorf("%w: %s получается из %s", entities.ErrOutputCollision,
				filepath.Base(outputFile), filepath.Base(owner))
			fileResult = &entities.CompressionResult{
				CurrentFile: inputFile,
				OutputFile:  outputFile,
				Theme:       job.Theme,
				Error:       err,
			}
		} else {
			fileResult, _ = uc.imageUseCase.OptimizeFile(
				inputFile,
				outputFile,
				job.Config,
				job.Policy.ShouldRemoveSource(inputFile, job.Config.OutputFormat),
			)
			fileResult.Theme = job.Theme
		}

		if fileResult.Success && fileResult.Error == nil {
			result.SuccessCount++
		} else {
			result.FailedCount++
			result.Errors = append(result.Errors, fileResult.Error)
		}
		result.Results = append(result.Results, fileResult)

		if onResult != nil {
			onResult(fileResult)
		}
	}

	return result, nil
}

// outputOwners выбирает для каждого выходного пути единственный исходник.
// Разные исходники могут дать одно имя результата (a.png и a.webp → a.jpg):
// приоритет у файла, путь которого совпадает с выходным, иначе у первого по порядку.
func outputOwners(job ThemeJob) map[string]string {
	owners := make(map[string]string, len(job.Images))
	for _, inputFile := range job.Images {
		outputFile := entities.OutputPath(job.OutputDir, inputFile, job.Config.OutputFormat)
		if _, ok := owners[outputFile]; !ok || filepath.Clean(inputFile) == outputFile {
			owners[outputFile] = inputFile
		}
	}
	return owners
}
