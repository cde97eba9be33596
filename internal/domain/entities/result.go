package entities

import (
	"time"
)

// ImageFile представляет исходное изображение в тематической папке
type ImageFile struct {
	Path         string
	Theme        string
	Size         int64
	ModifiedTime time.Time
}

// EncodedResult результат одной попытки кодирования.
// Не изменяется после создания.
type EncodedResult struct {
	Bytes     []byte
	SizeBytes int
	Width     int
	Height    int
	Quality   int
	Attempts  int  // Количество выполненных кодирований
	Fallback  bool // Результат получен уменьшением разрешения
}

// NewEncodedResult создает результат кодирования
func NewEncodedResult(data []byte, width, height, quality int) *EncodedResult {
	return &EncodedResult{
		Bytes:     data,
		SizeBytes: len(data),
		Width:     width,
		Height:    height,
		Quality:   quality,
	}
}

// FitsBudget проверяет, укладывается ли результат в бюджет размера
func (r *EncodedResult) FitsBudget(maxBytes int) bool {
	return r.SizeBytes <= maxBytes
}

// CompressionResult представляет результат обработки одного файла
type CompressionResult struct {
	CurrentFile      string
	OutputFile       string
	Theme            string
	OriginalSize     int64
	CompressedSize   int64
	CompressionRatio float64
	SavedSpace       int64
	Quality          int
	Fallback         bool
	WithinBudget     bool
	Success          bool
	Error            error
}

// CalculateCompressionRatio вычисляет коэффициент сжатия
func (cr *CompressionResult) CalculateCompressionRatio() {
	if cr.OriginalSize > 0 {
		cr.CompressionRatio = ((float64(cr.OriginalSize) - float64(cr.CompressedSize)) / float64(cr.OriginalSize)) * 100
		cr.SavedSpace = cr.OriginalSize - cr.CompressedSize
	}
}

// IsEffective проверяет, было ли сжатие эффективным
func (cr *CompressionResult) IsEffective() bool {
	return cr.Success && cr.CompressionRatio > 0
}
