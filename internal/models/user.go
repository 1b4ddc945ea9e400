// Package models содержит доменные модели административного бэкенда страхового брокера:
// учётную запись пользователя с полями лицензии и пользовательскую конфигурацию.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string     `json:"uid"`                     // Уникальный идентификатор пользователя
	Username     string     `json:"username"`                // Имя пользователя (уникальное)
	Email        string     `json:"email"`                   // Электронная почта (уникальная)
	PasswordHash string     `json:"-"`                       // Хэш пароля пользователя
	IsActive     bool       `json:"is_active"`               // Признак активной учетной записи
	LicenseStart *time.Time `json:"license_start,omitempty"` // Начало действия лицензии
	LicenseEnd   *time.Time `json:"license_end,omitempty"`   // Окончание действия лицензии
	IsTrial      bool       `json:"is_trial"`                // Пробная (true) или полная лицензия
	IsBlocked    bool       `json:"is_blocked"`              // Заблокирован после неудачных входов
	BlockedAt    *time.Time `json:"blocked_at,omitempty"`    // Момент блокировки
	CreatedAt    time.Time  `json:"created_at"`              // Дата регистрации
}

// LicenseGrant описывает выдаваемую пользователю лицензию.
type LicenseGrant struct {
	IsTrial bool
	Start   time.Time
	End     time.Time
}

// ToUTC приводит момент времени к UTC. Колонки TIMESTAMP без зоны драйвер pgx
// возвращает с локацией UTC, поэтому наивные значения трактуются как UTC,
// а значения с зоной переводятся в UTC без изменения момента.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// ToUTCPtr вариант ToUTC для nullable полей.
func ToUTCPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := ToUTC(*t)
	return &u
}

// NormalizeTimes приводит все временные поля пользователя к UTC.
func (u *User) NormalizeTimes() {
	u.LicenseStart = ToUTCPtr(u.LicenseStart)
	u.LicenseEnd = ToUTCPtr(u.LicenseEnd)
	u.BlockedAt = ToUTCPtr(u.BlockedAt)
	u.CreatedAt = ToUTC(u.CreatedAt)
}
