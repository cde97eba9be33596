package repositories

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"imgshrink/internal/domain/entities"
	"imgshrink/internal/infrastructure/compressors"
)

// FileSystemRepository реализация репозитория для работы с файловой системой
type FileSystemRepository struct{}

// NewFileSystemRepository создает новый репозиторий файловой системы
func NewFileSystemRepository() *FileSystemRepository {
	return &FileSystemRepository{}
}

// GetFileInfo получает информацию об изображении
func (r *FileSystemRepository) GetFileInfo(path string) (*entities.ImageFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &entities.ImageFile{
		Path:         path,
		Theme:        filepath.Base(filepath.Dir(path)),
		Size:         info.Size(),
		ModifiedTime: info.ModTime(),
	}, nil
}

// FileExists проверяет существование файла
func (r *FileSystemRepository) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CreateDirectory создает директорию
func (r *FileSystemRepository) CreateDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// ListThemeFolders возвращает имена тематических папок (только первый уровень)
func (r *FileSystemRepository) ListThemeFolders(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", entities.ErrDirectoryNotFound, directory)
		}
		return nil, err
	}

	var folders []string
	for _, entry := range entries {
		if entry.IsDir() {
			folders = append(folders, entry.Name())
		}
	}

	sort.Strings(folders)
	return folders, nil
}

// ListImages возвращает пути изображений в тематической папке без обхода подпапок
func (r *FileSystemRepository) ListImages(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, err
	}

	var images []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if compressors.IsImageFile(entry.Name()) {
			images = append(images, filepath.Join(directory, entry.Name()))
		}
	}

	sort.Strings(images)
	return images, nil
}

// ReadFile читает файл целиком
func (r *FileSystemRepository) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", entities.ErrFileNotFound, path)
		}
		return nil, err
	}
	return data, nil
}

// WriteFileAtomic записывает данные через временный файл и переименование
func (r *FileSystemRepository) WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию %s: %w", filepath.Dir(path), err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("не удалось записать временный файл: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("не удалось переименовать временный файл: %w", err)
	}

	return nil
}

// RemoveFile удаляет файл
func (r *FileSystemRepository) RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
