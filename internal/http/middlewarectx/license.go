package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/insurtech-admin/internal/http/response"
	"github.com/magabrotheeeer/insurtech-admin/internal/lib/sl"
	"github.com/magabrotheeeer/insurtech-admin/internal/license"
	"github.com/magabrotheeeer/insurtech-admin/internal/metrics"
	"github.com/magabrotheeeer/insurtech-admin/internal/models"
)

// LicenseChecker вычисляет состояние лицензии пользователя.
type LicenseChecker interface {
	LicenseStatus(ctx context.Context, user *models.User) (license.Status, error)
}

// LicenseGate создает middleware, пропускающий только пользователей
// с действующей пробной или полной лицензией. Ставится после ActiveUserGate.
func LicenseGate(svc LicenseChecker, log *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.LicenseGate"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user missing in context")
				m.GateRejected("missing_user")
				unauthorized(w, r, response.MsgInvalidCredentials)
				return
			}

			status, err := svc.LicenseStatus(r.Context(), user)
			if err != nil {
				log.Error("failed to evaluate license", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error(response.MsgInternal))
				return
			}
			if !status.Active() {
				log.Info("license not active", slog.String("state", string(status.State)))
				m.GateRejected("license")
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(response.MsgLicenseInactive))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
