package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/insurtech-admin/internal/models"
	"github.com/magabrotheeeer/insurtech-admin/internal/storage"
)

// GetConfiguration возвращает конфигурацию пользователя.
func (s *Storage) GetConfiguration(ctx context.Context, userUID string) (*models.Configuration, error) {
	const op = "storage.GetConfiguration"

	query := `SELECT id, user_uid, country, currency, language, setup_complete, updated_at
			  FROM configurations
			  WHERE user_uid = $1`
	c := &models.Configuration{}
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&c.ID, &c.UserUID, &c.Country, &c.Currency, &c.Language, &c.SetupComplete, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConfigurationNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.UpdatedAt = models.ToUTC(c.UpdatedAt)
	return c, nil
}

// SaveConfiguration создаёт или полностью перезаписывает конфигурацию пользователя.
func (s *Storage) SaveConfiguration(ctx context.Context, c models.Configuration) (*models.Configuration, error) {
	const op = "storage.SaveConfiguration"

	query := `INSERT INTO configurations (user_uid, country, currency, language, setup_complete, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW())
			  ON CONFLICT (user_uid) DO UPDATE
			  SET country = EXCLUDED.country,
			      currency = EXCLUDED.currency,
			      language = EXCLUDED.language,
			      setup_complete = EXCLUDED.setup_complete,
			      updated_at = NOW()
			  RETURNING id, updated_at`
	err := s.DB.QueryRowContext(ctx, query,
		c.UserUID, c.Country, c.Currency, c.Language, c.SetupComplete).Scan(&c.ID, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.UpdatedAt = models.ToUTC(c.UpdatedAt)
	return &c, nil
}

// DeleteConfiguration удаляет конфигурацию пользователя.
func (s *Storage) DeleteConfiguration(ctx context.Context, userUID string) error {
	const op = "storage.DeleteConfiguration"

	res, err := s.DB.ExecContext(ctx, `DELETE FROM configurations WHERE user_uid = $1`, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrConfigurationNotFound)
	}
	return nil
}
