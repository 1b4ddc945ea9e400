// Package protected содержит пример маршрута, доступного только при действующей лицензии.
package protected

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/insurtech-admin/internal/http/middlewarectx"
)

// ServeHTTP godoc
// @Summary Защищённый маршрут
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Лицензия не активна"
// @Router /protected-route [get]
func ServeHTTP(w http.ResponseWriter, r *http.Request) {
	username := ""
	if user, ok := middlewarectx.UserFromContext(r.Context()); ok {
		username = user.Username
	}
	render.JSON(w, r, map[string]string{
		"message": fmt.Sprintf("Welcome, %s. Your license is active.", username),
	})
}
