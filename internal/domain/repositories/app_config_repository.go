package repositories

import "imgshrink/internal/domain/entities"

// AppConfigRepository интерфейс для работы с конфигурацией приложения
type AppConfigRepository interface {
	Load(configPath string) (*entities.Config, error)
	Save(configPath string, config *entities.Config) error
	Validate(config *entities.Config) error
}
