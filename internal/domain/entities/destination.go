package entities

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DestinationPolicy определяет, куда записываются сжатые изображения
type DestinationPolicy string

const (
	// DestinationOverwrite перезаписывает исходники после однократного резервного копирования
	DestinationOverwrite DestinationPolicy = "overwrite"
	// DestinationMirror записывает результаты в параллельное дерево
	DestinationMirror DestinationPolicy = "mirror"
)

// DestinationPolicies возвращает все поддерживаемые политики
func DestinationPolicies() []DestinationPolicy {
	return []DestinationPolicy{DestinationOverwrite, DestinationMirror}
}

// ParseDestinationPolicy разбирает политику назначения из строки
func ParseDestinationPolicy(s string) (DestinationPolicy, error) {
	switch DestinationPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case DestinationOverwrite:
		return DestinationOverwrite, nil
	case DestinationMirror:
		return DestinationMirror, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDestination, s)
	}
}

// String возвращает название политики
func (p DestinationPolicy) String() string {
	switch p {
	case DestinationOverwrite:
		return "Перезапись с резервной копией"
	case DestinationMirror:
		return "Параллельное дерево"
	default:
		return "Неизвестно"
	}
}

// NeedsBackup сообщает, требуется ли резервная копия перед обработкой
func (p DestinationPolicy) NeedsBackup() bool {
	return p == DestinationOverwrite
}

// OutputDirectory возвращает директорию для результатов тематической папки
func (p DestinationPolicy) OutputDirectory(sourceDir, outputDir, theme string) string {
	if p == DestinationMirror {
		return filepath.Join(outputDir, theme)
	}
	return filepath.Join(sourceDir, theme)
}

// OutputPath строит путь выходного файла: имя исходника с расширением формата.
// Если расширение исходника уже совпадает с форматом без учета регистра
// (Photo.JPG), имя сохраняется как есть, и при перезаписи результат
// заменяет сам исходник.
func OutputPath(dir, sourceFile string, format OutputFormat) string {
	base := filepath.Base(sourceFile)
	ext := filepath.Ext(base)
	if strings.ToLower(ext) == format.Extension() {
		return filepath.Join(dir, base)
	}
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+format.Extension())
}

// PathWithin сообщает, совпадает ли path с root или лежит внутри него
func PathWithin(root, path string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ShouldRemoveSource сообщает, нужно ли удалить исходник после записи результата.
// Исходник удаляется только при перезаписи и только если его расширение
// не совпадает с расширением результата.
func (p DestinationPolicy) ShouldRemoveSource(sourceFile string, format OutputFormat) bool {
	if p != DestinationOverwrite {
		return false
	}
	return strings.ToLower(filepath.Ext(sourceFile)) != format.Extension()
}
