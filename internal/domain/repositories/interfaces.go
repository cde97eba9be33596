package repositories

import (
	"image"

	"imgshrink/internal/domain/entities"
)

// ImageCompressor интерфейс адаптивного сжатия изображений
type ImageCompressor interface {
	Compress(source []byte, config *entities.CompressionConfig) (*entities.EncodedResult, error)
	CompressImage(img image.Image, config *entities.CompressionConfig) (*entities.EncodedResult, error)
}

// FileRepository интерфейс для работы с файловой системой
type FileRepository interface {
	GetFileInfo(path string) (*entities.ImageFile, error)
	FileExists(path string) bool
	CreateDirectory(path string) error
	ListThemeFolders(directory string) ([]string, error)
	ListImages(directory string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	WriteFileAtomic(path string, data []byte) error
	RemoveFile(path string) error
}

// BackupManager интерфейс однократного резервного копирования
type BackupManager interface {
	EnsureBackedUp(sourceDir, backupDir string) (bool, error)
	IsBackedUp(backupDir string) bool
}

// ConfigRepository интерфейс для построения конфигурации сжатия
type ConfigRepository interface {
	GetCompressionConfig(settings *entities.AppCompressionConfig) (*entities.CompressionConfig, error)
	ValidateConfig(config *entities.CompressionConfig) error
}
