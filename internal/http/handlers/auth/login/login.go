// Package login реализует выдачу токена доступа по имени пользователя и паролю.
//
// Учётные данные принимаются как form-urlencoded поля username и password.
// Все отказы аутентификации возвращаются с кодом 401.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/insurtech-admin/internal/http/response"
	"github.com/magabrotheeeer/insurtech-admin/internal/lib/sl"
	"github.com/magabrotheeeer/insurtech-admin/internal/services/auth"
)

// Request учётные данные из формы.
type Request struct {
	Username string `validate:"required,max=50"`
	Password string `validate:"required,max=128"`
}

// Response тело успешного ответа.
type Response struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// Service описывает вход в сервисе аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Получение токена доступа
// @Description Аутентифицирует пользователя по имени и паролю и возвращает bearer-токен.
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param username formData string true "Имя пользователя"
// @Param password formData string true "Пароль"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}
	req := Request{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Info("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}

	log = log.With(slog.String("username", req.Username))
	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		msg, status := classify(err)
		if status == http.StatusInternalServerError {
			log.Error("login failed", sl.Err(err))
		} else {
			log.Info("login rejected", sl.Err(err))
		}
		if status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("login success")
	render.JSON(w, r, Response{AccessToken: token, TokenType: "bearer"})
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return response.MsgInvalidCredentials, http.StatusUnauthorized
	case errors.Is(err, auth.ErrInactive):
		return response.MsgUserInactive, http.StatusUnauthorized
	case errors.Is(err, auth.ErrBlocked):
		return response.MsgUserBlocked, http.StatusUnauthorized
	default:
		return response.MsgInternal, http.StatusInternalServerError
	}
}
