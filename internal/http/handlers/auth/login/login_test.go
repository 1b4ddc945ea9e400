package login

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/insurtech-admin/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		mockToken  string
		mockErr    error
		callSvc    bool
		wantStatus int
		wantError  string
	}{
		{
			name:       "success",
			form:       url.Values{"username": {"alice"}, "password": {"secret"}},
			mockToken:  "jwt-token",
			callSvc:    true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad credentials",
			form:       url.Values{"username": {"alice"}, "password": {"secret"}},
			mockErr:    fmt.Errorf("auth.Login: %w", auth.ErrInvalidCredentials),
			callSvc:    true,
			wantStatus: http.StatusUnauthorized,
			wantError:  "could not validate credentials",
		},
		{
			name:       "inactive",
			form:       url.Values{"username": {"alice"}, "password": {"secret"}},
			mockErr:    fmt.Errorf("auth.Login: %w", auth.ErrInactive),
			callSvc:    true,
			wantStatus: http.StatusUnauthorized,
			wantError:  "user inactive",
		},
		{
			name:       "blocked",
			form:       url.Values{"username": {"alice"}, "password": {"secret"}},
			mockErr:    fmt.Errorf("auth.Login: %w", auth.ErrBlocked),
			callSvc:    true,
			wantStatus: http.StatusUnauthorized,
			wantError:  "user blocked",
		},
		{
			name:       "internal",
			form:       url.Values{"username": {"alice"}, "password": {"secret"}},
			mockErr:    errors.New("db down"),
			callSvc:    true,
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal error",
		},
		{
			name:       "missing password",
			form:       url.Values{"username": {"alice"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "field password is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callSvc {
				svc.On("Login", mock.Anything, "alice", "secret").Return(tt.mockToken, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rr := httptest.NewRecorder()
			New(newNoopLogger(), svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				assert.Equal(t, map[string]any{"access_token": "jwt-token", "token_type": "bearer"}, body)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestLoginHandler_IgnoresJSONBody(t *testing.T) {
	svc := new(ServiceMock)
	req := httptest.NewRequest(http.MethodPost, "/auth/token",
		strings.NewReader(`{"username":"alice","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	New(newNoopLogger(), svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}
