// Package configuration управляет пользовательскими настройками интерфейса.
package configuration

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/insurtech-admin/internal/models"
	"github.com/magabrotheeeer/insurtech-admin/internal/storage"
)

// ErrNotFound у пользователя нет сохранённой конфигурации.
var ErrNotFound = errors.New("configuration not found")

// Repository описывает хранилище конфигураций.
type Repository interface {
	GetConfiguration(ctx context.Context, userUID string) (*models.Configuration, error)
	SaveConfiguration(ctx context.Context, c models.Configuration) (*models.Configuration, error)
	DeleteConfiguration(ctx context.Context, userUID string) error
}

// Service реализует операции над конфигурацией пользователя.
type Service struct {
	repo Repository
}

// New создаёт Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get возвращает сохранённую конфигурацию или настройки по умолчанию.
func (s *Service) Get(ctx context.Context, userUID string) (*models.Configuration, error) {
	const op = "configuration.Get"
	c, err := s.repo.GetConfiguration(ctx, userUID)
	if errors.Is(err, storage.ErrConfigurationNotFound) {
		d := models.DefaultConfiguration(userUID)
		return &d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Update применяет patch к текущей конфигурации (или к настройкам
// по умолчанию) и сохраняет результат.
func (s *Service) Update(ctx context.Context, userUID string, patch models.ConfigurationPatch) (*models.Configuration, error) {
	const op = "configuration.Update"
	current, err := s.Get(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	merged := Merge(*current, patch)
	merged.UserUID = userUID

	saved, err := s.repo.SaveConfiguration(ctx, merged)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

// Delete удаляет конфигурацию пользователя.
func (s *Service) Delete(ctx context.Context, userUID string) error {
	const op = "configuration.Delete"
	err := s.repo.DeleteConfiguration(ctx, userUID)
	if errors.Is(err, storage.ErrConfigurationNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Merge копирует в dst только переданные поля patch.
func Merge(dst models.Configuration, patch models.ConfigurationPatch) models.Configuration {
	if patch.Country != nil {
		dst.Country = *patch.Country
	}
	if patch.Currency != nil {
		dst.Currency = *patch.Currency
	}
	if patch.Language != nil {
		dst.Language = *patch.Language
	}
	if patch.SetupComplete != nil {
		dst.SetupComplete = *patch.SetupComplete
	}
	return dst
}
