// Package configuration реализует HTTP-обработчики пользовательской конфигурации.
package configuration

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/insurtech-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/response"
	"github.com/magabrotheeeer/insurtech-admin/internal/lib/sl"
	"github.com/magabrotheeeer/insurtech-admin/internal/models"
	svc "github.com/magabrotheeeer/insurtech-admin/internal/services/configuration"
)

// Service описывает операции над конфигурацией.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.Configuration, error)
	Update(ctx context.Context, userUID string, patch models.ConfigurationPatch) (*models.Configuration, error)
	Delete(ctx context.Context, userUID string) error
}

// Handler обслуживает GET, PUT и DELETE для /configuracion.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*models.User, bool) {
	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgInvalidCredentials))
	}
	return user, ok
}

func internalError(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error(response.MsgInternal))
}

// Get godoc
// @Summary Получить конфигурацию
// @Tags Configuration
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.Configuration
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /configuracion [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.configuration.get")
	user, ok := h.user(w, r, log)
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), user.UUID)
	if err != nil {
		log.Error("failed to get configuration", sl.Err(err))
		internalError(w, r)
		return
	}
	render.JSON(w, r, c)
}

// Update godoc
// @Summary Обновить конфигурацию
// @Description Создаёт конфигурацию или обновляет переданные поля. Неизвестные поля отклоняются.
// @Tags Configuration
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.ConfigurationPatch true "Изменяемые поля"
// @Success 200 {object} models.Configuration
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /configuracion [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.configuration.update")
	user, ok := h.user(w, r, log)
	if !ok {
		return
	}

	var patch models.ConfigurationPatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}
	if err := h.validate.Struct(patch); err != nil {
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

	c, err := h.service.Update(r.Context(), user.UUID, patch)
	if err != nil {
		log.Error("failed to update configuration", sl.Err(err))
		internalError(w, r)
		return
	}
	render.JSON(w, r, c)
}

// Delete godoc
// @Summary Удалить конфигурацию
// @Tags Configuration
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 404 {object} response.ErrorResponse
// @Router /configuracion [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.configuration.delete")
	user, ok := h.user(w, r, log)
	if !ok {
		return
	}
	err := h.service.Delete(r.Context(), user.UUID)
	if errors.Is(err, svc.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("configuration not found"))
		return
	}
	if err != nil {
		log.Error("failed to delete configuration", sl.Err(err))
		internalError(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
