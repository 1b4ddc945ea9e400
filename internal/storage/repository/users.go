package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/insurtech-admin/internal/models"
	"github.com/magabrotheeeer/insurtech-admin/internal/storage"
)

const userColumns = `uid, username, email, password_hash, is_active, license_start,
		license_end, is_trial, is_blocked, blocked_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var licenseStart, licenseEnd, blockedAt sql.NullTime
	if err := row.Scan(&u.UUID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive,
		&licenseStart, &licenseEnd, &u.IsTrial, &u.IsBlocked, &blockedAt, &u.CreatedAt); err != nil {
		return nil, err
	}
	if licenseStart.Valid {
		u.LicenseStart = &licenseStart.Time
	}
	if licenseEnd.Valid {
		u.LicenseEnd = &licenseEnd.Time
	}
	if blockedAt.Valid {
		u.BlockedAt = &blockedAt.Time
	}
	u.NormalizeTimes()
	return u, nil
}

// RegisterUser сохраняет нового пользователя и возвращает его с присвоенным UID.
// Нарушение уникальности username/email возвращается как storage.ErrUsernameTaken
// или storage.ErrEmailTaken.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if user.UUID == "" {
		user.UUID = uuid.NewString()
	}
	query := `INSERT INTO users (uid, username, email, password_hash, is_active,
			      license_start, license_end, is_trial)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query,
		user.UUID, user.Username, user.Email, user.PasswordHash, user.IsActive,
		user.LicenseStart, user.LicenseEnd, user.IsTrial)
	created, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateUniqueViolation(err))
	}
	return created, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UsernameExists проверяет, занято ли имя пользователя (точное совпадение).
func (s *Storage) UsernameExists(ctx context.Context, username string) (bool, error) {
	const op = "storage.UsernameExists"
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// EmailExists проверяет, занят ли email (точное совпадение).
func (s *Storage) EmailExists(ctx context.Context, email string) (bool, error) {
	const op = "storage.EmailExists"
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// InitLicenseStart записывает начало лицензии, только если оно ещё не задано.
// Возвращает true, если запись была выполнена.
func (s *Storage) InitLicenseStart(ctx context.Context, userUID string, start time.Time) (bool, error) {
	const op = "storage.InitLicenseStart"

	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET license_start = $1 WHERE uid = $2 AND license_start IS NULL`,
		start.UTC(), userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// UpdateLicense выдаёт пользователю лицензию и снимает блокировку.
func (s *Storage) UpdateLicense(ctx context.Context, userUID string, grant models.LicenseGrant) error {
	const op = "storage.UpdateLicense"

	query := `UPDATE users
			  SET is_trial = $1,
			      license_start = $2,
			      license_end = $3,
			      is_blocked = FALSE,
			      blocked_at = NULL
			  WHERE uid = $4`
	return s.execOne(ctx, op, query, grant.IsTrial, grant.Start.UTC(), grant.End.UTC(), userUID)
}

// BlockUser блокирует учётную запись, фиксируя момент блокировки.
func (s *Storage) BlockUser(ctx context.Context, userUID string, at time.Time) error {
	const op = "storage.BlockUser"
	return s.execOne(ctx, op,
		`UPDATE users SET is_blocked = TRUE, blocked_at = $1 WHERE uid = $2`, at.UTC(), userUID)
}

// UnblockUser снимает блокировку учётной записи.
func (s *Storage) UnblockUser(ctx context.Context, userUID string) error {
	const op = "storage.UnblockUser"
	return s.execOne(ctx, op,
		`UPDATE users SET is_blocked = FALSE, blocked_at = NULL WHERE uid = $1`, userUID)
}

// UpdatePasswordHash заменяет хеш пароля (перехеширование с новыми параметрами).
func (s *Storage) UpdatePasswordHash(ctx context.Context, userUID, hash string) error {
	const op = "storage.UpdatePasswordHash"
	return s.execOne(ctx, op,
		`UPDATE users SET password_hash = $1 WHERE uid = $2`, hash, userUID)
}

// execOne выполняет UPDATE и возвращает storage.ErrUserNotFound, если строка не найдена.
func (s *Storage) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return nil
}
