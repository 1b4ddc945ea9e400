package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/insurtech-admin/internal/models"
	"github.com/magabrotheeeer/insurtech-admin/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, username, email, password, masterKey string) (*models.User, error) {
	args := m.Called(ctx, username, email, password, masterKey)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	end := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	created := &models.User{
		UUID:         "uid-1",
		Username:     "broker01",
		Email:        "broker01@example.com",
		PasswordHash: "$argon2id$secret",
		IsActive:     true,
		IsTrial:      true,
		LicenseEnd:   &end,
	}
	valid := Request{Username: "broker01", Email: "broker01@example.com", Password: "password123"}

	tests := []struct {
		name       string
		body       string
		mockUser   *models.User
		mockErr    error
		callSvc    bool
		wantStatus int
		wantError  string
	}{
		{name: "created", body: toJSON(t, valid), mockUser: created, callSvc: true, wantStatus: http.StatusCreated},
		{name: "malformed json", body: "{not json", wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{
			name:       "invalid email",
			body:       toJSON(t, Request{Username: "broker01", Email: "nope", Password: "password123"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "field email must be a valid email",
		},
		{
			name:       "missing password",
			body:       toJSON(t, Request{Username: "broker01", Email: "broker01@example.com"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "field password is a required field",
		},
		{
			name: "username taken", body: toJSON(t, valid), callSvc: true,
			mockErr:    fmt.Errorf("auth.Register: %w", auth.ErrUsernameTaken),
			wantStatus: http.StatusBadRequest, wantError: "username already registered",
		},
		{
			name: "email taken", body: toJSON(t, valid), callSvc: true,
			mockErr:    fmt.Errorf("auth.Register: %w", auth.ErrEmailTaken),
			wantStatus: http.StatusBadRequest, wantError: "email already registered",
		},
		{
			name: "internal error", body: toJSON(t, valid), callSvc: true,
			mockErr:    errors.New("db down"),
			wantStatus: http.StatusInternalServerError, wantError: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callSvc {
				svc.On("Register", mock.Anything, "broker01", "broker01@example.com", "password123", "").
					Return(tt.mockUser, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			New(newNoopLogger(), svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			if tt.wantError != "" {
				assert.Equal(t, "Error", body["status"])
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				assert.Equal(t, "uid-1", body["uid"])
				assert.Equal(t, true, body["is_trial"])
				assert.NotContains(t, body, "password_hash")
				assert.NotContains(t, rr.Body.String(), "argon2id")
			}
			svc.AssertExpectations(t)
		})
	}
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(v))
	return buf.String()
}
