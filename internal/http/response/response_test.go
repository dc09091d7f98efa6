package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/movie-access/internal/apperr"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.New(apperr.KindConflict, "x"), http.StatusConflict},
		{apperr.New(apperr.KindUnauthorized, "x"), http.StatusUnauthorized},
		{apperr.New(apperr.KindExpiredToken, "x"), http.StatusUnauthorized},
		{apperr.New(apperr.KindInvalidToken, "x"), http.StatusUnauthorized},
		{apperr.New(apperr.KindForbidden, "x"), http.StatusForbidden},
		{apperr.New(apperr.KindNotFound, "x"), http.StatusNotFound},
		{apperr.New(apperr.KindValidation, "x"), http.StatusUnprocessableEntity},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, apperr.New(apperr.KindForbidden, "upgrade").WithReason("upgrade_required"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "upgrade", resp.Error)
	assert.Equal(t, "upgrade_required", resp.Reason)
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password authentication")
}

func TestDecode(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name" validate:"required,min=3"`
	}
	v := validator.New()

	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantCode int
	}{
		{name: "valid", body: `{"email":"a@b.co","name":"alice"}`, wantOK: true},
		{name: "malformed json", body: `{`, wantCode: http.StatusBadRequest},
		{name: "invalid fields", body: `{"email":"nope","name":"al"}`, wantCode: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst payload
			ok := Decode(rec, req, v, &dst)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, tt.wantCode, rec.Code)
			}
		})
	}
}
