package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/insurtech-admin/internal/http/response"
	"github.com/magabrotheeeer/insurtech-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/insurtech-admin/internal/lib/sl"
	"github.com/magabrotheeeer/insurtech-admin/internal/metrics"
	"github.com/magabrotheeeer/insurtech-admin/internal/models"
	"github.com/magabrotheeeer/insurtech-admin/internal/services/auth"
)

// Authenticator описывает проверку токена сервисом аутентификации.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
	AuthenticateActive(ctx context.Context, token string) (*models.User, error)
}

type authenticateFunc func(ctx context.Context, token string) (*models.User, error)

// UserGate пропускает запрос с действительным токеном существующего пользователя.
func UserGate(svc Authenticator, log *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return gate("middlewarectx.UserGate", svc.Authenticate, log, m)
}

// ActiveUserGate дополнительно отклоняет неактивные учётные записи.
func ActiveUserGate(svc Authenticator, log *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return gate("middlewarectx.ActiveUserGate", svc.AuthenticateActive, log, m)
}

func gate(op string, authenticate authenticateFunc, log *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := bearerToken(r)
			if !ok {
				log.Info("missing or invalid authorization header")
				m.GateRejected("missing_token")
				unauthorized(w, r, response.MsgInvalidCredentials)
				return
			}

			user, err := authenticate(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrInactive):
				log.Info("inactive user rejected")
				m.GateRejected("inactive")
				unauthorized(w, r, response.MsgUserInactive)
				return
			case isCredentialError(err):
				log.Info("token rejected", sl.Err(err))
				m.GateRejected("invalid_token")
				unauthorized(w, r, response.MsgInvalidCredentials)
				return
			default:
				log.Error("failed to authenticate", sl.Err(err))
				m.GateRejected("internal")
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error(response.MsgInternal))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// bearerToken извлекает токен из заголовка "Authorization: Bearer <token>".
// Схема сравнивается без учёта регистра.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func isCredentialError(err error) bool {
	return errors.Is(err, jwt.ErrMalformed) ||
		errors.Is(err, jwt.ErrBadSignature) ||
		errors.Is(err, jwt.ErrExpired) ||
		errors.Is(err, jwt.ErrMissingSubject) ||
		errors.Is(err, auth.ErrUserNotFound)
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(msg))
}
