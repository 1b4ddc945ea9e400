// Package licensestatus сообщает клиенту состояние лицензии текущего пользователя.
package licensestatus

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/insurtech-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/response"
	"github.com/magabrotheeeer/insurtech-admin/internal/lib/sl"
	"github.com/magabrotheeeer/insurtech-admin/internal/license"
	"github.com/magabrotheeeer/insurtech-admin/internal/models"
)

// Response тело ответа о состоянии лицензии.
type Response struct {
	IsLicenseActive bool   `json:"is_license_active"`
	Message         string `json:"message" example:"Full license active."`
	State           string `json:"state" example:"full_active"`
}

// FromStatus переводит вычисленное состояние в тело ответа.
func FromStatus(s license.Status) Response {
	return Response{
		IsLicenseActive: s.Active(),
		Message:         s.Message,
		State:           string(s.State),
	}
}

// Service вычисляет состояние лицензии.
type Service interface {
	LicenseStatus(ctx context.Context, user *models.User) (license.Status, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Состояние лицензии
// @Description Возвращает, активна ли лицензия, и сообщение с оставшимся сроком пробного периода.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/license-status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.licensestatus"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgInvalidCredentials))
		return
	}

	status, err := h.service.LicenseStatus(r.Context(), user)
	if err != nil {
		log.Error("failed to evaluate license", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}
	render.JSON(w, r, FromStatus(status))
}
