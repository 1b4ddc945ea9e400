// Package middlewarectx содержит HTTP middleware аутентификации и проверки
// лицензии. Гейты извлекают Bearer-токен из заголовка Authorization,
// проверяют его через сервис аутентификации и кладут пользователя в контекст.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/insurtech-admin/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User ключ для пользователя в контексте.
const User Key = "user"

// WithUser возвращает контекст с пользователем.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, User, user)
}

// UserFromContext возвращает пользователя, сохранённый гейтом.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(User).(*models.User)
	return u, ok && u != nil
}
