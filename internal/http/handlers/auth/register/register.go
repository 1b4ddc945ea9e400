// Package register реализует HTTP-обработчик регистрации пользователя.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/insurtech-admin/internal/http/response"
	"github.com/magabrotheeeer/insurtech-admin/internal/lib/sl"
	"github.com/magabrotheeeer/insurtech-admin/internal/models"
	"github.com/magabrotheeeer/insurtech-admin/internal/services/auth"
)

// Request входные данные для регистрации.
type Request struct {
	Username         string `json:"username" validate:"required,min=3,max=50" example:"broker01"`
	Email            string `json:"email" validate:"required,email,max=255" example:"broker01@example.com"`
	Password         string `json:"password" validate:"required,min=6,max=128" example:"s3cret-pass"`
	MasterLicenseKey string `json:"master_license_key" validate:"max=255"`
}

// Service описывает регистрацию в сервисе аутентификации.
type Service interface {
	Register(ctx context.Context, username, email, password, masterKey string) (*models.User, error)
}

// Handler обрабатывает запросы регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя. Мастер-ключ лицензии даёт полную лицензию, иначе выдаётся пробная.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные пользователя"
// @Success 201 {object} models.User
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, имя пользователя или email заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.MsgInvalidBody))
			return
		}
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password, req.MasterLicenseKey)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrUsernameTaken), errors.Is(err, auth.ErrEmailTaken):
		log.Info("registration conflict", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(conflictMessage(err)))
		return
	default:
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Info("user registered", slog.String("username", user.Username), slog.Bool("is_trial", user.IsTrial))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

func conflictMessage(err error) string {
	if errors.Is(err, auth.ErrUsernameTaken) {
		return "username already registered"
	}
	return "email already registered"
}
