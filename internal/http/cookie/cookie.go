// Package cookie управляет HTTP-only cookie с refresh-токеном.
package cookie

import (
	"net/http"
	"time"
)

// RefreshTokenName — имя cookie с refresh-токеном.
const RefreshTokenName = "refreshToken"

// Options — параметры cookie.
type Options struct {
	Secure bool
	MaxAge time.Duration
}

// SetRefreshToken записывает refresh-токен в HTTP-only cookie с SameSite=Strict.
func SetRefreshToken(w http.ResponseWriter, token string, opts Options) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearRefreshToken удаляет cookie у клиента.
func ClearRefreshToken(w http.ResponseWriter, opts Options) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// RefreshToken читает refresh-токен из запроса. Пустое значение считается отсутствием.
func RefreshToken(r *http.Request) (string, bool) {
	c, err := r.Cookie(RefreshTokenName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
