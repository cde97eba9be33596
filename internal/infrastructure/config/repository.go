package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"imgshrink/internal/domain/entities"
)

// EnvPrefix префикс переменных окружения, переопределяющих файл конфигурации
const EnvPrefix = "IMGSHRINK"

// Repository реализация репозитория конфигурации
type Repository struct {
	validate *validator.Validate
}

// NewRepository создает новый репозиторий конфигурации
func NewRepository() *Repository {
	return &Repository{
		validate: validator.New(),
	}
}

// Load загружает конфигурацию из файла.
// Отсутствующие в файле поля берутся из значений по умолчанию,
// затем применяются переменные окружения IMGSHRINK_*.
func (r *Repository) Load(configPath string) (*entities.Config, error) {
	config := entities.DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Файла нет: работаем со значениями по умолчанию
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора %s: %w", configPath, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	if err := r.Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save сохраняет конфигурацию в файл
func (r *Repository) Save(configPath string, config *entities.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Validate проверяет конфигурацию приложения
func (r *Repository) Validate(config *entities.Config) error {
	if _, err := entities.ParseDestinationPolicy(string(config.Scanner.Destination)); err != nil {
		return err
	}
	if err := r.validate.Struct(config); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidConfig, err)
	}
	return config.Compression.Validate()
}
