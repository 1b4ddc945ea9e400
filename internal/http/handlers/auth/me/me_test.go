package me

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/insurtech-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/insurtech-admin/internal/models"
)

func TestMeHandler(t *testing.T) {
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("user in context", func(t *testing.T) {
		user := &models.User{UUID: "uid-1", Username: "alice", Email: "alice@example.com", PasswordHash: "secret", IsActive: true}
		req := httptest.NewRequest(http.MethodGet, "/auth/users/me", nil)
		req = req.WithContext(middlewarectx.WithUser(req.Context(), user))
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "alice@example.com", body["email"])
		assert.NotContains(t, rr.Body.String(), "secret")
	})

	t.Run("no user", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/users/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
