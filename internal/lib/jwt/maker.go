// Package jwt выпускает и проверяет пары JWT-токенов (access + refresh).
//
// Обе части подписываются одним серверным секретом (HS256), несут одинаковые claims
// sub/email/role и различаются временем жизни и claim typ.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/movie-access/internal/apperr"
	"github.com/magabrotheeeer/movie-access/internal/models"
)

const (
	// DefaultAccessTTL — время жизни access-токена, 900 секунд.
	DefaultAccessTTL = 15 * time.Minute
	// DefaultRefreshTTL — время жизни refresh-токена, 604800 секунд.
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Maker описывает выпуск и проверку токенов.
type Maker interface {
	// Issue выпускает пару токенов. Либо обе части подписаны, либо возвращается ошибка.
	Issue(ctx context.Context, userUID, email string, role models.RoleName) (models.TokenPair, error)
	// Verify проверяет подпись и срок действия токена любого типа.
	Verify(token string) (*Claims, error)
	// VerifyAccess проверяет токен и требует typ=access.
	VerifyAccess(token string) (*Claims, error)
	// VerifyRefresh проверяет токен и требует typ=refresh.
	VerifyRefresh(token string) (*Claims, error)
	// Decode разбирает токен без проверки подписи. Не использовать для решений о доступе.
	Decode(token string) (*Claims, error)
}

// MakerImpl реализует Maker на HMAC-SHA256.
type MakerImpl struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option настраивает MakerImpl.
type Option func(*MakerImpl)

// WithClock подменяет источник времени для выпуска и проверки.
func WithClock(now func() time.Time) Option {
	return func(m *MakerImpl) {
		m.now = now
	}
}

// NewJWTMaker создаёт MakerImpl. Нулевые TTL заменяются значениями по умолчанию.
func NewJWTMaker(secretKey string, accessTTL, refreshTTL time.Duration, opts ...Option) *MakerImpl {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	m := &MakerImpl{
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Issue подписывает access- и refresh-токен параллельно.
func (m *MakerImpl) Issue(ctx context.Context, userUID, email string, role models.RoleName) (models.TokenPair, error) {
	const op = "jwt.Issue"
	now := m.now()

	var pair models.TokenPair
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tok, err := m.sign(ctx, userUID, email, role, TypeAccess, now, m.accessTTL)
		if err != nil {
			return err
		}
		pair.AccessToken = tok
		return nil
	})
	g.Go(func() error {
		tok, err := m.sign(ctx, userUID, email, role, TypeRefresh, now, m.refreshTTL)
		if err != nil {
			return err
		}
		pair.RefreshToken = tok
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	return pair, nil
}

func (m *MakerImpl) sign(ctx context.Context, userUID, email string, role models.RoleName,
	typ TokenType, now time.Time, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(m.secretKey) == 0 {
		return "", errors.New("signing key is empty")
	}
	claims := Claims{
		Email: email,
		Role:  string(role),
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userUID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify проверяет подпись и срок действия.
// Истёкший токен даёт ошибку категории expired_token, остальные сбои дают invalid_token.
func (m *MakerImpl) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return m.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.KindExpiredToken, "token expired", err)
		}
		return nil, apperr.Wrap(apperr.KindInvalidToken, "invalid token", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, apperr.New(apperr.KindInvalidToken, "invalid token")
	}
	return claims, nil
}

// VerifyAccess проверяет access-токен.
func (m *MakerImpl) VerifyAccess(tokenStr string) (*Claims, error) {
	return m.verifyType(tokenStr, TypeAccess)
}

// VerifyRefresh проверяет refresh-токен.
func (m *MakerImpl) VerifyRefresh(tokenStr string) (*Claims, error) {
	return m.verifyType(tokenStr, TypeRefresh)
}

func (m *MakerImpl) verifyType(tokenStr string, typ TokenType) (*Claims, error) {
	claims, err := m.Verify(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Type != typ {
		return nil, apperr.New(apperr.KindInvalidToken, "unexpected token type")
	}
	return claims, nil
}

// Decode разбирает claims без проверки подписи и срока действия.
func (m *MakerImpl) Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidToken, "malformed token", err)
	}
	return claims, nil
}
