package entities

import "time"

// Config представляет конфигурацию приложения
type Config struct {
	Scanner     ScannerConfig        `yaml:"scanner" envconfig:"SCANNER"`
	Compression AppCompressionConfig `yaml:"compression" envconfig:"COMPRESSION"`
	Output      OutputConfig         `yaml:"output" envconfig:"OUTPUT"`
}

// ScannerConfig настройки обхода тематических папок
type ScannerConfig struct {
	SourceDirectory string            `yaml:"source_directory" envconfig:"SOURCE_DIRECTORY" validate:"required"`
	OutputDirectory string            `yaml:"output_directory" envconfig:"OUTPUT_DIRECTORY" validate:"required_if=Destination mirror"`
	BackupDirectory string            `yaml:"backup_directory" envconfig:"BACKUP_DIRECTORY" validate:"required_if=Destination overwrite"`
	Destination     DestinationPolicy `yaml:"destination" envconfig:"DESTINATION" validate:"oneof=overwrite mirror"`
}

// AppCompressionConfig настройки сжатия приложения
type AppCompressionConfig struct {
	MaxDimension  int  `yaml:"max_dimension" envconfig:"MAX_DIMENSION" validate:"gt=0"`
	MaxFileSizeKB int  `yaml:"max_file_size_kb" envconfig:"MAX_FILE_SIZE_KB" validate:"gt=0"`
	QualityMin    int  `yaml:"quality_min" envconfig:"QUALITY_MIN" validate:"min=1,max=100,ltefield=QualityMax"`
	QualityMax    int  `yaml:"quality_max" envconfig:"QUALITY_MAX" validate:"min=1,max=100"`
	QualityStep   int  `yaml:"quality_step" envconfig:"QUALITY_STEP" validate:"gt=0"`
	AutoStart     bool `yaml:"auto_start" envconfig:"AUTO_START"`
}

// OutputConfig настройки вывода
type OutputConfig struct {
	LogLevel     string `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"omitempty,oneof=debug info warning error"`
	LogToFile    bool   `yaml:"log_to_file" envconfig:"LOG_TO_FILE"`
	LogFileName  string `yaml:"log_file_name" envconfig:"LOG_FILE_NAME" validate:"required_if=LogToFile true"`
	LogMaxSizeMB int    `yaml:"log_max_size_mb" envconfig:"LOG_MAX_SIZE_MB" validate:"gte=0"`
}

// DefaultConfig создает конфигурацию приложения по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Scanner: ScannerConfig{
			SourceDirectory: "./downloaded",
			OutputDirectory: "./compressed",
			BackupDirectory: "./downloaded_backup",
			Destination:     DestinationOverwrite,
		},
		Compression: AppCompressionConfig{
			MaxDimension:  DefaultMaxDimension,
			MaxFileSizeKB: DefaultMaxBytes / 1024,
			QualityMin:    DefaultQualityMin,
			QualityMax:    DefaultQualityMax,
			QualityStep:   DefaultQualityStep,
			AutoStart:     false,
		},
		Output: OutputConfig{
			LogLevel:     "info",
			LogToFile:    true,
			LogFileName:  "imgshrink.log",
			LogMaxSizeMB: 10,
		},
	}
}

// CompressionConfig строит конфигурацию адаптивного сжатия
func (c *AppCompressionConfig) CompressionConfig() *CompressionConfig {
	return &CompressionConfig{
		MaxDimension: c.MaxDimension,
		MaxBytes:     c.MaxFileSizeKB * 1024,
		QualityMin:   c.QualityMin,
		QualityMax:   c.QualityMax,
		QualityStep:  c.QualityStep,
		OutputFormat: FormatJPEG,
	}
}

// Validate проверяет корректность настроек сжатия
func (c *AppCompressionConfig) Validate() error {
	return c.CompressionConfig().Validate()
}

// ProcessingStatus статус обработки
type ProcessingStatus struct {
	// Текущая фаза обработки
	Phase ProcessingPhase

	// Информация о текущем файле
	CurrentTheme    string
	CurrentFile     string
	CurrentFileSize int64

	// Общая статистика
	TotalThemes     int
	TotalFiles      int
	ProcessedFiles  int
	SuccessfulFiles int
	FailedFiles     int
	FallbackFiles   int
	OverBudgetFiles int

	// Прогресс
	Progress float64

	// Статистика сжатия
	TotalOriginalSize   int64
	TotalCompressedSize int64
	TotalSavedSpace     int64
	AverageCompression  float64

	// Текущий результат
	LastResult *CompressionResult

	// Время выполнения
	StartTime     time.Time
	ElapsedTime   time.Duration
	EstimatedTime time.Duration

	// Состояние
	IsComplete bool
	Error      error

	// Сообщение для UI
	Message string
}

// ProcessingPhase фаза обработки
type ProcessingPhase int

const (
	PhaseInitializing ProcessingPhase = iota
	PhaseBackingUp
	PhaseScanning
	PhaseCompressing
	PhaseCompleted
	PhaseFailed
)

// UIScreen типы экранов UI
type UIScreen int

const (
	UIScreenMenu UIScreen = iota
	UIScreenConfig
	UIScreenProcessing
)

// NewProcessingStatus создает новый статус обработки
func NewProcessingStatus(totalFiles int) *ProcessingStatus {
	return &ProcessingStatus{
		Phase:      PhaseInitializing,
		TotalFiles: totalFiles,
		StartTime:  time.Now(),
	}
}

// UpdateProgress обновляет прогресс обработки
func (ps *ProcessingStatus) UpdateProgress() {
	if ps.TotalFiles > 0 {
		ps.Progress = float64(ps.ProcessedFiles) / float64(ps.TotalFiles) * 100
	}

	ps.ElapsedTime = time.Since(ps.StartTime)

	// Оценка оставшегося времени
	if ps.ProcessedFiles > 0 && ps.ProcessedFiles < ps.TotalFiles {
		avgTimePerFile := ps.ElapsedTime / time.Duration(ps.ProcessedFiles)
		remainingFiles := ps.TotalFiles - ps.ProcessedFiles
		ps.EstimatedTime = avgTimePerFile * time.Duration(remainingFiles)
	}
}

// AddResult добавляет результат обработки файла
func (ps *ProcessingStatus) AddResult(result *CompressionResult) {
	ps.ProcessedFiles++
	ps.LastResult = result

	if result.Success && result.Error == nil {
		ps.SuccessfulFiles++
		ps.TotalOriginalSize += result.OriginalSize
		ps.TotalCompressedSize += result.CompressedSize
		ps.TotalSavedSpace += result.SavedSpace

		if result.Fallback {
			ps.FallbackFiles++
		}
		if !result.WithinBudget {
			ps.OverBudgetFiles++
		}

		// Пересчитываем среднее сжатие
		if ps.TotalOriginalSize > 0 {
			ps.AverageCompression = ((float64(ps.TotalOriginalSize) - float64(ps.TotalCompressedSize)) / float64(ps.TotalOriginalSize)) * 100
		}
	} else {
		ps.FailedFiles++
	}

	ps.UpdateProgress()
}

// SetPhase устанавливает фазу обработки
func (ps *ProcessingStatus) SetPhase(phase ProcessingPhase, message string) {
	ps.Phase = phase
	ps.Message = message
}

// SetCurrentFile устанавливает текущий обрабатываемый файл
func (ps *ProcessingStatus) SetCurrentFile(theme, filePath string, size int64) {
	ps.CurrentTheme = theme
	ps.CurrentFile = filePath
	ps.CurrentFileSize = size
}

// Complete завершает обработку
func (ps *ProcessingStatus) Complete() {
	ps.IsComplete = true
	ps.Phase = PhaseCompleted
	ps.Progress = 100
	ps.ElapsedTime = time.Since(ps.StartTime)
	ps.EstimatedTime = 0
}

// Fail отмечает обработку как неудачную
func (ps *ProcessingStatus) Fail(err error) {
	ps.IsComplete = true
	ps.Phase = PhaseFailed
	ps.Error = err
	ps.ElapsedTime = time.Since(ps.StartTime)
}

// String возвращает название фазы
func (phase ProcessingPhase) String() string {
	switch phase {
	case PhaseInitializing:
		return "Инициализация"
	case PhaseBackingUp:
		return "Резервное копирование"
	case PhaseScanning:
		return "Сканирование тематических папок"
	case PhaseCompressing:
		return "Сжатие изображений"
	case PhaseCompleted:
		return "Завершено"
	case PhaseFailed:
		return "Ошибка"
	default:
		return "Неизвестно"
	}
}

// FormatElapsedTime форматирует время выполнения
func (ps *ProcessingStatus) FormatElapsedTime() string {
	return formatDuration(ps.ElapsedTime)
}

// FormatEstimatedTime форматирует оставшееся время
func (ps *ProcessingStatus) FormatEstimatedTime() string {
	if ps.EstimatedTime == 0 {
		return "N/A"
	}
	return formatDuration(ps.EstimatedTime)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "< 1 сек"
	}
	return d.Round(time.Second).String()
}
