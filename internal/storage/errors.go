// Package storage содержит ошибки слоя хранения, общие для всех репозиториев.
package storage

import "errors"

var (
	// ErrUserNotFound пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken имя пользователя уже занято.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrEmailTaken email уже занят.
	ErrEmailTaken = errors.New("email already registered")
	// ErrConfigurationNotFound у пользователя нет сохранённой конфигурации.
	ErrConfigurationNotFound = errors.New("configuration not found")
)
