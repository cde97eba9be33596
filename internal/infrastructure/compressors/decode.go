package compressors

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"imgshrink/internal/domain/entities"
)

// supportedExtensions расширения исходных изображений и их форматы
var supportedExtensions = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".webp": "webp",
	".gif":  "gif",
}

// Decode декодирует изображение JPEG, PNG, WEBP или GIF.
// Для анимированного GIF берется первый кадр.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: пустые данные", entities.ErrDecode)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", entities.ErrDecode, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, format, fmt.Errorf("%w: пустое изображение %dx%d", entities.ErrDecode, bounds.Dx(), bounds.Dy())
	}

	return img, format, nil
}

// IsImageFile проверяет, является ли файл изображением поддерживаемого формата
func IsImageFile(filename string) bool {
	return GetImageFormat(filename) != ""
}

// GetImageFormat возвращает формат изображения по расширению файла
func GetImageFormat(filename string) string {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SupportedExtensions возвращает список поддерживаемых расширений
func SupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}
}
