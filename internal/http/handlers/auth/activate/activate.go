// Package activate реализует активацию полной лицензии по мастер-ключу.
package activate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/insurtech-admin/internal/http/handlers/auth/licensestatus"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/response"
	"github.com/magabrotheeeer/insurtech-admin/internal/lib/sl"
	"github.com/magabrotheeeer/insurtech-admin/internal/license"
	"github.com/magabrotheeeer/insurtech-admin/internal/models"
	"github.com/magabrotheeeer/insurtech-admin/internal/services/auth"
)

// Request ключ лицензии.
type Request struct {
	LicenseKey string `json:"license_key" validate:"required,max=255"`
}

// Service выдаёт лицензию.
type Service interface {
	ActivateLicense(ctx context.Context, user *models.User, key string) (license.Status, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Активация лицензии
// @Description Выдаёт полную лицензию по мастер-ключу и снимает блокировку учётной записи.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Ключ лицензии"
// @Success 200 {object} licensestatus.Response
// @Failure 400 {object} response.ErrorResponse "Неверный ключ"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/license/activate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.activate"
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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}

	status, err := h.service.ActivateLicense(r.Context(), user, req.LicenseKey)
	if errors.Is(err, auth.ErrInvalidLicenseKey) {
		log.Info("invalid license key", slog.String("username", user.Username))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid license key"))
		return
	}
	if err != nil {
		log.Error("failed to activate license", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Info("license activated", slog.String("username", user.Username))
	render.JSON(w, r, licensestatus.FromStatus(status))
}
