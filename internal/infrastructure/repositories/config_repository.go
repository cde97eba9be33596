package repositories

import (
	"imgshrink/internal/domain/entities"
)

// ConfigRepository реализация репозитория конфигурации сжатия
type ConfigRepository struct{}

// NewConfigRepository создает новый репозиторий конфигурации
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// GetCompressionConfig строит конфигурацию сжатия из настроек приложения
func (r *ConfigRepository) GetCompressionConfig(settings *entities.AppCompressionConfig) (*entities.CompressionConfig, error) {
	if settings == nil {
		return entities.DefaultCompressionConfig(), nil
	}
	config := settings.CompressionConfig()
	if err := r.ValidateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ValidateConfig валидирует конфигурацию
func (r *ConfigRepository) ValidateConfig(config *entities.CompressionConfig) error {
	return config.Validate()
}
