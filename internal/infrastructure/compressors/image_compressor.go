package compressors

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/nfnt/resize"

	"imgshrink/internal/domain/entities"
)

// Encoder кодирует изображение с заданным качеством
type Encoder interface {
	Encode(w io.Writer, img image.Image, quality int) error
}

// JPEGEncoder кодировщик JPEG на базе image/jpeg
type JPEGEncoder struct{}

// Encode кодирует изображение в JPEG
func (JPEGEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

// Option настройка компрессора
type Option func(*AdaptiveImageCompressor)

// WithEncoder задает кодировщик
func WithEncoder(encoder Encoder) Option {
	return func(c *AdaptiveImageCompressor) {
		c.encoder = encoder
	}
}

// WithInterpolation задает функцию интерполяции при масштабировании
func WithInterpolation(interp resize.InterpolationFunction) Option {
	return func(c *AdaptiveImageCompressor) {
		c.interp = interp
	}
}

// AdaptiveImageCompressor подбирает качество, а при необходимости и разрешение,
// чтобы результат уложился в бюджет размера файла.
//
// Компрессор не хранит состояния между вызовами и не работает с файлами,
// поэтому его можно вызывать из нескольких горутин.
type AdaptiveImageCompressor struct {
	encoder Encoder
	interp  resize.InterpolationFunction
}

// NewImageCompressor создает новый компрессор изображений
func NewImageCompressor(opts ...Option) *AdaptiveImageCompressor {
	c := &AdaptiveImageCompressor{
		encoder: JPEGEncoder{},
		interp:  resize.Lanczos3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compress декодирует исходные байты и сжимает изображение.
// Конфигурация проверяется до декодирования.
func (c *AdaptiveImageCompressor) Compress(source []byte, config *entities.CompressionConfig) (*entities.EncodedResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	img, _, err := Decode(source)
	if err != nil {
		return nil, err
	}

	return c.CompressImage(img, config)
}

// CompressImage сжимает уже декодированное изображение.
//
// Фаза 1: качество снижается от QualityMax до QualityMin с шагом QualityStep,
// изображение вписывается в MaxDimension без увеличения. Первый результат,
// уложившийся в MaxBytes, возвращается сразу.
//
// Фаза 2 выполняется, только если и при QualityMin результат превышает бюджет:
// исходные размеры умножаются на ScaleFactor и выполняется одно кодирование
// при QualityMin. Возвращается меньший из двух последних результатов,
// даже если он по-прежнему больше бюджета. Если после ограничения
// MaxDimension разрешение не уменьшилось, повторное кодирование не
// выполняется и возвращается результат фазы 1.
func (c *AdaptiveImageCompressor) CompressImage(img image.Image, config *entities.CompressionConfig) (*entities.EncodedResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	origWidth, origHeight := bounds.Dx(), bounds.Dy()
	if origWidth <= 0 || origHeight <= 0 {
		return nil, fmt.Errorf("%w: пустое изображение %dx%d", entities.ErrDecode, origWidth, origHeight)
	}

	width, height := FitInside(origWidth, origHeight, config.MaxDimension)
	fitted := c.scale(img, width, height)

	attempts := 0
	var last *entities.EncodedResult
	for quality := config.QualityMax; ; quality = config.NextQuality(quality) {
		result, err := c.encode(fitted, width, height, quality)
		if err != nil {
			return nil, err
		}
		attempts++
		result.Attempts = attempts

		if result.FitsBudget(config.MaxBytes) {
			return result, nil
		}
		last = result

		if quality <= config.QualityMin {
			break
		}
	}

	// Разрешение считается от исходных размеров, но не выходит за MaxDimension
	factor := ScaleFactor(config.MaxBytes, last.SizeBytes)
	fallbackWidth, fallbackHeight := FallbackDimensions(origWidth, origHeight, factor)
	fallbackWidth, fallbackHeight = FitInside(fallbackWidth, fallbackHeight, config.MaxDimension)
	if fallbackWidth >= width && fallbackHeight >= height {
		return last, nil
	}

	fallback, err := c.encode(c.scale(img, fallbackWidth, fallbackHeight), fallbackWidth, fallbackHeight, config.QualityMin)
	if err != nil {
		return nil, err
	}
	attempts++
	fallback.Attempts = attempts
	fallback.Fallback = true

	if fallback.SizeBytes > last.SizeBytes {
		last.Attempts = attempts
		return last, nil
	}
	return fallback, nil
}

// scale масштабирует изображение до точных размеров
func (c *AdaptiveImageCompressor) scale(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	if width == bounds.Dx() && height == bounds.Dy() {
		return img
	}
	return resize.Resize(uint(width), uint(height), img, c.interp)
}

// encode выполняет одну попытку кодирования
func (c *AdaptiveImageCompressor) encode(img image.Image, width, height, quality int) (*entities.EncodedResult, error) {
	var buf bytes.Buffer
	if err := c.encoder.Encode(&buf, img, quality); err != nil {
		return nil, fmt.Errorf("%w: качество %d, %dx%d: %v", entities.ErrEncode, quality, width, height, err)
	}
	return entities.NewEncodedResult(buf.Bytes(), width, height, quality), nil
}
