// Package me отдаёт учётную запись текущего пользователя.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/insurtech-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/response"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /auth/users/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		h.log.Error("user missing in context",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgInvalidCredentials))
		return
	}
	render.JSON(w, r, user)
}
