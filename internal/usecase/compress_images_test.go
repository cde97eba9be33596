package usecases_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgshrink/internal/domain/entities"
)

func TestCompressImageUseCase_OptimizeFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "cats", "a.png")
	output := filepath.Join(dir, "out", "cats", "a.jpg")
	writePNG(t, input, 800, 600)

	result, err := newImageUseCase().OptimizeFile(input, output, entities.DefaultCompressionConfig(), false)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "cats", result.Theme)
	assert.Equal(t, output, result.OutputFile)
	assert.Greater(t, result.OriginalSize, int64(0))
	assert.Greater(t, result.CompressedSize, int64(0))
	assert.FileExists(t, input)
	assert.FileExists(t, output)

	width, height := jpegSize(t, output)
	assert.LessOrEqual(t, width, 500)
	assert.LessOrEqual(t, height, 500)
	if !result.Fallback {
		assert.Equal(t, 500, width)
		assert.Equal(t, 375, height)
	}
}

func TestCompressImageUseCase_RemovesSource(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.png")
	output := filepath.Join(dir, "a.jpg")
	writePNG(t, input, 320, 240)

	result, err := newImageUseCase().OptimizeFile(input, output, entities.DefaultCompressionConfig(), true)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NoFileExists(t, input)
	assert.FileExists(t, output)
}

func TestCompressImageUseCase_OverwritesInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jpg")
	writeJPEG(t, path, 900, 900)

	result, err := newImageUseCase().OptimizeFile(path, path, entities.DefaultCompressionConfig(), true)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.FileExists(t, path)
	width, height := jpegSize(t, path)
	assert.Equal(t, width, height)
	assert.LessOrEqual(t, width, 500)
}

func TestCompressImageUseCase_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.txt")
	writeBytes(t, input, []byte("not an image"))

	result, err := newImageUseCase().OptimizeFile(input, filepath.Join(dir, "notes.jpg"), entities.DefaultCompressionConfig(), false)
	require.ErrorIs(t, err, entities.ErrUnsupportedFormat)
	assert.False(t, result.Success)
}

func TestCompressImageUseCase_DecodeErrorLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.png")
	output := filepath.Join(dir, "broken.jpg")
	writeBytes(t, input, []byte("definitely not a png"))

	result, err := newImageUseCase().OptimizeFile(input, output, entities.DefaultCompressionConfig(), true)
	require.ErrorIs(t, err, entities.ErrDecode)

	assert.False(t, result.Success)
	assert.Equal(t, err, result.Error)
	assert.FileExists(t, input)
	assert.NoFileExists(t, output)
}

func TestCompressImageUseCase_MissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := newImageUseCase().OptimizeFile(filepath.Join(dir, "gone.png"), filepath.Join(dir, "gone.jpg"), entities.DefaultCompressionConfig(), false)
	require.ErrorIs(t, err, entities.ErrFileNotFound)
}
