package repositories_test

import (
	"testing"

	"imgshrink/internal/domain/entities"
	"imgshrink/internal/infrastructure/repositories"
)

func TestConfigRepository_GetCompressionConfig(t *testing.T) {
	repo := repositories.NewConfigRepository()

	settings := entities.DefaultConfig().Compression
	config, err := repo.GetCompressionConfig(&settings)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if config.MaxBytes != 51200 {
		t.Errorf("Expected MaxBytes 51200, got %d", config.MaxBytes)
	}

	settings.QualityMin = 90
	settings.QualityMax = 50
	if _, err := repo.GetCompressionConfig(&settings); err == nil {
		t.Error("Expected error for inverted quality range")
	}

	config, err = repo.GetCompressionConfig(nil)
	if err != nil || config.MaxDimension != entities.DefaultMaxDimension {
		t.Errorf("Expected default config for nil settings, got %+v, %v", config, err)
	}
}
