package compressors_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgshrink/internal/domain/entities"
	"imgshrink/internal/infrastructure/compressors"
)

type encodeCall struct {
	Quality int
	Width   int
	Height  int
}

// fakeEncoder выдает результат заданного размера без настоящего кодирования
type fakeEncoder struct {
	size  func(call encodeCall) int
	err   error
	calls []encodeCall
}

func (e *fakeEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	call := encodeCall{Quality: quality, Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	e.calls = append(e.calls, call)
	if e.err != nil {
		return e.err
	}
	_, err := w.Write(make([]byte, e.size(call)))
	return err
}

func (e *fakeEncoder) qualities() []int {
	qs := make([]int, 0, len(e.calls))
	for _, c := range e.calls {
		qs = append(qs, c.Quality)
	}
	return qs
}

func constantSize(n int) func(encodeCall) int {
	return func(encodeCall) int { return n }
}

func gradient(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func solid(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	return img
}

func TestCompressImage_FitsInsideMaxDimension(t *testing.T) {
	c := compressors.NewImageCompressor()

	result, err := c.CompressImage(gradient(2000, 1000), entities.DefaultCompressionConfig())
	require.NoError(t, err)

	assert.Equal(t, 500, result.Width)
	assert.Equal(t, 250, result.Height)
	assert.Equal(t, len(result.Bytes), result.SizeBytes)

	decoded, err := jpeg.Decode(bytes.NewReader(result.Bytes))
	require.NoError(t, err)
	assert.LessOrEqual(t, decoded.Bounds().Dx(), 500)
	assert.LessOrEqual(t, decoded.Bounds().Dy(), 250)
}

func TestCompressImage_NoUpscaling(t *testing.T) {
	c := compressors.NewImageCompressor()

	result, err := c.CompressImage(gradient(120, 60), entities.DefaultCompressionConfig())
	require.NoError(t, err)

	assert.Equal(t, 120, result.Width)
	assert.Equal(t, 60, result.Height)
	assert.Equal(t, 80, result.Quality)
	assert.Equal(t, 1, result.Attempts)
}

func TestCompressImage_KeepsQualityMaxWhenWithinBudget(t *testing.T) {
	enc := &fakeEncoder{size: constantSize(40 * 1024)}
	c := compressors.NewImageCompressor(compressors.WithEncoder(enc))

	result, err := c.CompressImage(gradient(300, 200), entities.DefaultCompressionConfig())
	require.NoError(t, err)

	assert.Equal(t, 80, result.Quality)
	assert.Equal(t, 1, result.Attempts)
	assert.False(t, result.Fallback)
	assert.Equal(t, []int{80}, enc.qualities())
}

func TestCompressImage_QualityDecreasesByStep(t *testing.T) {
	enc := &fakeEncoder{size: func(c encodeCall) int {
		if c.Quality > 60 {
			return 60 * 1024
		}
		return 30 * 1024
	}}
	c := compressors.NewImageCompressor(compressors.WithEncoder(enc))

	result, err := c.CompressImage(gradient(300, 200), entities.DefaultCompressionConfig())
	require.NoError(t, err)

	assert.Equal(t, []int{80, 75, 70, 65, 60}, enc.qualities())
	assert.Equal(t, 60, result.Quality)
	assert.Equal(t, 5, result.Attempts)
	assert.False(t, result.Fallback)
}

func TestCompressImage_QualityFloorAlwaysAttempted(t *testing.T) {
	enc := &fakeEncoder{size: func(c encodeCall) int {
		if c.Quality > 50 {
			return 60 * 1024
		}
		return 30 * 1024
	}}
	config := entities.DefaultCompressionConfig()
	config.QualityStep = 7
	c := compressors.NewImageCompressor(compressors.WithEncoder(enc))

	result, err := c.CompressImage(gradient(300, 200), config)
	require.NoError(t, err)

	assert.Equal(t, []int{80, 73, 66, 59, 52, 50}, enc.qualities())
	assert.Equal(t, 50, result.Quality)
	assert.False(t, result.Fallback)
}

func TestCompressImage_FallbackResize(t *testing.T) {
	enc := &fakeEncoder{size: func(c encodeCall) int {
		if c.Width == 400 && c.Height == 300 {
			return 80 * 1024
		}
		return 20 * 1024
	}}
	c := compressors.NewImageCompressor(compressors.WithEncoder(enc))

	result, err := c.CompressImage(gradient(400, 300), entities.DefaultCompressionConfig())
	require.NoError(t, err)

	require.Len(t, enc.calls, 8)
	assert.Equal(t, []int{80, 75, 70, 65, 60, 55, 50, 50}, enc.qualities())

	// sqrt(51200/81920) * 0.9 ≈ 0.7115
	assert.Equal(t, encodeCall{Quality: 50, Width: 284, Height: 213}, enc.calls[7])
	assert.True(t, result.Fallback)
	assert.Equal(t, 284, result.Width)
	assert.Equal(t, 213, result.Height)
	assert.Equal(t, 50, result.Quality)
	assert.Equal(t, 8, result.Attempts)
	assert.True(t, result.FitsBudget(entities.DefaultMaxBytes))
}

func TestCompressImage_FallbackIsBestEffort(t *testing.T) {
	enc := &fakeEncoder{size: constantSize(80 * 1024)}
	c := compressors.NewImageCompressor(compressors.WithEncoder(enc))

	result, err := c.CompressImage(gradient(400, 300), entities.DefaultCompressionConfig())
	require.NoError(t, err)

	assert.Len(t, enc.calls, 8)
	assert.True(t, result.Fallback)
	assert.False(t, result.FitsBudget(entities.DefaultMaxBytes))
}

func TestCompressImage_ReturnsSmallestAttempt(t *testing.T) {
	enc := &fakeEncoder{size: func(c encodeCall) int {
		if c.Width == 400 {
			return 60 * 1024
		}
		return 70 * 1024
	}}
	c := compressors.NewImageCompressor(compressors.WithEncoder(enc))

	result, err := c.CompressImage(gradient(400, 300), entities.DefaultCompressionConfig())
	require.NoError(t, err)

	assert.False(t, result.Fallback)
	assert.Equal(t, 400, result.Width)
	assert.Equal(t, 60*1024, result.SizeBytes)
	assert.Equal(t, 8, result.Attempts)
}

func TestCompressImage_FallbackStaysInsideMaxDimension(t *testing.T) {
	enc := &fakeEncoder{size: func(c encodeCall) int {
		if c.Width*c.Height >= 500*250 {
			return 80 * 1024
		}
		return 20 * 1024
	}}
	c := compressors.NewImageCompressor(compressors.WithEncoder(enc))

	result, err := c.CompressImage(gradient(2000, 1000), entities.DefaultCompressionConfig())
	require.NoError(t, err)

	for _, call := range enc.calls {
		assert.LessOrEqual(t, call.Width, 500)
		assert.LessOrEqual(t, call.Height, 250)
	}
	assert.LessOrEqual(t, result.Width, 500)
	assert.LessOrEqual(t, result.Height, 250)
}

func TestCompressImage_SkipsFallbackWhenClampedToFittedSize(t *testing.T) {
	enc := &fakeEncoder{size: constantSize(80 * 1024)}
	c := compressors.NewImageCompressor(compressors.WithEncoder(enc))

	// 2000x1000 * 0.71 = 1423x711, после ограничения снова 500x250
	result, err := c.CompressImage(gradient(2000, 1000), entities.DefaultCompressionConfig())
	require.NoError(t, err)

	require.Len(t, enc.calls, 7)
	for _, call := range enc.calls {
		assert.Equal(t, 500, call.Width)
		assert.Equal(t, 250, call.Height)
	}
	assert.Equal(t, 50, enc.calls[6].Quality)

	assert.False(t, result.Fallback)
	assert.Equal(t, 7, result.Attempts)
	assert.Equal(t, 50, result.Quality)
	assert.Equal(t, 500, result.Width)
	assert.Equal(t, 250, result.Height)
	assert.False(t, result.FitsBudget(entities.DefaultMaxBytes))
}

func TestCompressImage_NoFallbackWhenFloorFits(t *testing.T) {
	enc := &fakeEncoder{size: func(c encodeCall) int {
		if c.Quality > 50 {
			return 80 * 1024
		}
		return 50 * 1024
	}}
	c := compressors.NewImageCompressor(compressors.WithEncoder(enc))

	result, err := c.CompressImage(gradient(400, 300), entities.DefaultCompressionConfig())
	require.NoError(t, err)

	assert.Len(t, enc.calls, 7)
	assert.False(t, result.Fallback)
	assert.Equal(t, 50, result.Quality)
}

func TestCompressImage_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *entities.CompressionConfig)
	}{
		{"Quality min above max", func(c *entities.CompressionConfig) { c.QualityMin, c.QualityMax = 90, 50 }},
		{"Zero max dimension", func(c *entities.CompressionConfig) { c.MaxDimension = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := &fakeEncoder{size: constantSize(1)}
			c := compressors.NewImageCompressor(compressors.WithEncoder(enc))
			config := entities.DefaultCompressionConfig()
			tt.modify(config)

			_, err := c.CompressImage(gradient(10, 10), config)
			assert.ErrorIs(t, err, entities.ErrInvalidConfig)
			assert.Empty(t, enc.calls)

			_, err = c.Compress([]byte("not an image"), config)
			assert.ErrorIs(t, err, entities.ErrInvalidConfig)
			assert.Empty(t, enc.calls)
		})
	}
}

func TestCompress_DecodeError(t *testing.T) {
	c := compressors.NewImageCompressor()

	_, err := c.Compress([]byte("definitely not an image"), entities.DefaultCompressionConfig())
	assert.ErrorIs(t, err, entities.ErrDecode)

	_, err = c.Compress(nil, entities.DefaultCompressionConfig())
	assert.ErrorIs(t, err, entities.ErrDecode)
}

func TestCompressImage_EncodeError(t *testing.T) {
	enc := &fakeEncoder{err: errors.New("unsupported color space")}
	c := compressors.NewImageCompressor(compressors.WithEncoder(enc))

	_, err := c.CompressImage(gradient(10, 10), entities.DefaultCompressionConfig())
	assert.ErrorIs(t, err, entities.ErrEncode)
}

func TestCompress_SourceFormats(t *testing.T) {
	src := gradient(640, 480)

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, src))

	var gifBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, src, nil))

	var jpegBuf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpegBuf, src, &jpeg.Options{Quality: 95}))

	tests := []struct {
		name string
		data []byte
	}{
		{"png", pngBuf.Bytes()},
		{"gif", gifBuf.Bytes()},
		{"jpeg", jpegBuf.Bytes()},
	}

	c := compressors.NewImageCompressor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Compress(tt.data, entities.DefaultCompressionConfig())
			require.NoError(t, err)

			assert.LessOrEqual(t, result.Width, 500)
			assert.LessOrEqual(t, result.Height, 375)

			_, format, err := image.DecodeConfig(bytes.NewReader(result.Bytes))
			require.NoError(t, err)
			assert.Equal(t, "jpeg", format)
		})
	}
}

func TestCompress_Idempotent(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, solid(320, 240)))

	c := compressors.NewImageCompressor()
	config := entities.DefaultCompressionConfig()

	first, err := c.Compress(src.Bytes(), config)
	require.NoError(t, err)
	require.Equal(t, config.QualityMax, first.Quality)

	second, err := c.Compress(first.Bytes, config)
	require.NoError(t, err)

	assert.Equal(t, config.QualityMax, second.Quality)
	assert.Equal(t, first.Width, second.Width)
	assert.Equal(t, first.Height, second.Height)
	assert.LessOrEqual(t, second.SizeBytes, first.SizeBytes)
}
