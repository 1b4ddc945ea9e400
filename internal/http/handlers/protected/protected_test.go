package protected

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/insurtech-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/insurtech-admin/internal/models"
)

func TestServeHTTP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/protected-route", nil)
	req = req.WithContext(middlewarectx.WithUser(req.Context(), &models.User{Username: "alice"}))
	rr := httptest.NewRecorder()

	ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Welcome, alice. Your license is active."}`, rr.Body.String())
}
