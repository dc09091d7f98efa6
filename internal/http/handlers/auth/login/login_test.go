package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/movie-access/internal/apperr"
	"github.com/magabrotheeeer/movie-access/internal/http/cookie"
	"github.com/magabrotheeeer/movie-access/internal/models"
	"github.com/magabrotheeeer/movie-access/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (*auth.AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*auth.AuthResult)
	return res, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var opts = cookie.Options{Secure: true, MaxAge: 7 * 24 * time.Hour}

func TestLoginHandler_Success(t *testing.T) {
	svc := new(AuthServiceMock)
	svc.On("Login", mock.Anything, "a@b.co", "secret1").Return(&auth.AuthResult{
		Tokens: models.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		User:   models.UserView{ID: "u-1", Email: "a@b.co", Role: models.RolePremium},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		bytes.NewBufferString(`{"email":"a@b.co","password":"secret1"}`))
	rec := httptest.NewRecorder()
	New(newNoopLogger(), svc, opts).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp["data"].(map[string]any)
	assert.Equal(t, "acc", data["access_token"])
	assert.NotContains(t, data, "refresh_token")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookie.RefreshTokenName, cookies[0].Name)
	assert.Equal(t, "ref", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	svc.AssertExpectations(t)
}

func TestLoginHandler_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		mockErr   error
		wantCode  int
		wantError string
	}{
		{
			name:      "malformed json",
			body:      `{`,
			wantCode:  http.StatusBadRequest,
			wantError: "invalid request body",
		},
		{
			name:      "missing password",
			body:      `{"email":"a@b.co"}`,
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "field Password is a required field",
		},
		{
			name:      "invalid credentials",
			body:      `{"email":"a@b.co","password":"secret1"}`,
			mockErr:   apperr.New(apperr.KindUnauthorized, "invalid credentials"),
			wantCode:  http.StatusUnauthorized,
			wantError: "invalid credentials",
		},
		{
			name:      "deactivated account",
			body:      `{"email":"a@b.co","password":"secret1"}`,
			mockErr:   apperr.New(apperr.KindUnauthorized, "account is deactivated"),
			wantCode:  http.StatusUnauthorized,
			wantError: "account is deactivated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			if tt.mockErr != nil {
				svc.On("Login", mock.Anything, "a@b.co", "secret1").Return(nil, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			New(newNoopLogger(), svc, opts).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Empty(t, rec.Result().Cookies())

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp["error"])
			svc.AssertExpectations(t)
		})
	}
}
