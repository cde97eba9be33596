package usecases_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"imgshrink/internal/domain/entities"
	"imgshrink/internal/domain/repositories"
	"imgshrink/internal/infrastructure/compressors"
	infraRepos "imgshrink/internal/infrastructure/repositories"
	usecases "imgshrink/internal/usecase"
)

func gradient(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: uint8((x + y) % 256), A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradient(width, height)))
	writeBytes(t, path, buf.Bytes())
}

func writeJPEG(t *testing.T, path string, width, height int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, gradient(width, height), &jpeg.Options{Quality: 95}))
	writeBytes(t, path, buf.Bytes())
}

func writeBytes(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

// jpegSize возвращает размеры JPEG-файла
func jpegSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	return cfg.Width, cfg.Height
}

func newImageUseCase() *usecases.CompressImageUseCase {
	return usecases.NewCompressImageUseCase(
		repositories.NopLogger{},
		compressors.NewImageCompressor(),
		infraRepos.NewFileSystemRepository(),
	)
}

func newProcessUseCase() *usecases.ProcessThemesUseCase {
	fileRepo := infraRepos.NewFileSystemRepository()
	imageUseCase := usecases.NewCompressImageUseCase(
		repositories.NopLogger{},
		compressors.NewImageCompressor(),
		fileRepo,
	)
	return usecases.NewProcessThemesUseCase(
		usecases.NewCompressThemeUseCase(imageUseCase),
		fileRepo,
		infraRepos.NewBackupRepository(),
		infraRepos.NewConfigRepository(),
		repositories.NopLogger{},
	)
}

func testConfig(root string, policy entities.DestinationPolicy) *entities.Config {
	cfg := entities.DefaultConfig()
	cfg.Scanner.SourceDirectory = filepath.Join(root, "downloaded")
	cfg.Scanner.OutputDirectory = filepath.Join(root, "compressed")
	cfg.Scanner.BackupDirectory = filepath.Join(root, "downloaded_backup")
	cfg.Scanner.Destination = policy
	cfg.Output.LogToFile = false
	return cfg
}
