package entities

import "fmt"

// OutputFormat формат выходного изображения
type OutputFormat string

const (
	// FormatJPEG единственный поддерживаемый выходной формат
	FormatJPEG OutputFormat = "jpeg"
)

// Extension возвращает расширение файла для формата
func (f OutputFormat) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	default:
		return ""
	}
}

// Значения по умолчанию для адаптивного сжатия
const (
	DefaultMaxDimension = 500
	DefaultMaxBytes     = 50 * 1024
	DefaultQualityMin   = 50
	DefaultQualityMax   = 80
	DefaultQualityStep  = 5
)

// CompressionConfig представляет конфигурацию адаптивного сжатия изображения
type CompressionConfig struct {
	MaxDimension int          // Максимальная сторона изображения в пикселях
	MaxBytes     int          // Бюджет размера файла в байтах
	QualityMin   int          // Нижняя граница качества (1-100)
	QualityMax   int          // Стартовое качество (1-100)
	QualityStep  int          // Шаг снижения качества
	OutputFormat OutputFormat // Формат результата
}

// DefaultCompressionConfig создает конфигурацию сжатия по умолчанию
func DefaultCompressionConfig() *CompressionConfig {
	return &CompressionConfig{
		MaxDimension: DefaultMaxDimension,
		MaxBytes:     DefaultMaxBytes,
		QualityMin:   DefaultQualityMin,
		QualityMax:   DefaultQualityMax,
		QualityStep:  DefaultQualityStep,
		OutputFormat: FormatJPEG,
	}
}

// Validate проверяет корректность конфигурации
func (c *CompressionConfig) Validate() error {
	if c.MaxDimension <= 0 {
		return fmt.Errorf("%w: максимальный размер стороны должен быть больше 0 (получено %d)", ErrInvalidConfig, c.MaxDimension)
	}
	if c.MaxBytes <= 0 {
		return fmt.Errorf("%w: бюджет размера файла должен быть больше 0 (получено %d)", ErrInvalidConfig, c.MaxBytes)
	}
	if c.QualityMin < 1 || c.QualityMin > 100 {
		return fmt.Errorf("%w: минимальное качество должно быть от 1 до 100 (получено %d)", ErrInvalidConfig, c.QualityMin)
	}
	if c.QualityMax < 1 || c.QualityMax > 100 {
		return fmt.Errorf("%w: максимальное качество должно быть от 1 до 100 (получено %d)", ErrInvalidConfig, c.QualityMax)
	}
	if c.QualityMin > c.QualityMax {
		return fmt.Errorf("%w: минимальное качество %d больше максимального %d", ErrInvalidConfig, c.QualityMin, c.QualityMax)
	}
	if c.QualityStep <= 0 {
		return fmt.Errorf("%w: шаг качества должен быть больше 0 (получено %d)", ErrInvalidConfig, c.QualityStep)
	}
	if c.OutputFormat != FormatJPEG {
		return fmt.Errorf("%w: неподдерживаемый выходной формат %q", ErrInvalidConfig, c.OutputFormat)
	}
	return nil
}

// NextQuality возвращает следующее значение качества с учетом нижней границы
func (c *CompressionConfig) NextQuality(quality int) int {
	next := quality - c.QualityStep
	if next < c.QualityMin {
		next = c.QualityMin
	}
	return next
}
