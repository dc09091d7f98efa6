// Package password реализует одностороннее хэширование и проверку секретов на bcrypt.
//
// Hash и Verify работают с паролями. HashToken и VerifyToken предназначены для длинных
// секретов вроде refresh-токенов: bcrypt не принимает входы длиннее 72 байт, поэтому токен
// сначала сворачивается в SHA-256.
package password

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost — рабочий фактор bcrypt по умолчанию.
const DefaultCost = bcrypt.DefaultCost

// MaxLength — максимальная длина пароля в байтах, которую принимает bcrypt.
const MaxLength = 72

var (
	// ErrEmptyPassword возвращается при попытке захэшировать пустую строку.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrPasswordTooLong возвращается для паролей длиннее MaxLength байт.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// Hasher хэширует и проверяет секреты с фиксированным рабочим фактором.
type Hasher struct {
	cost int
}

// New создаёт Hasher. Нулевой или недопустимый cost заменяется на DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash возвращает bcrypt-хэш пароля со случайной солью внутри.
func (h *Hasher) Hash(plain string) (string, error) {
	const op = "password.Hash"
	if plain == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}
	if len(plain) > MaxLength {
		return "", fmt.Errorf("%s: %w", op, ErrPasswordTooLong)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify сравнивает пароль с хэшем. Никогда не возвращает ошибку:
// несовпадение и испорченный хэш дают false.
func (h *Hasher) Verify(plain, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// HashToken хэширует длинный секрет: SHA-256, затем bcrypt.
func (h *Hasher) HashToken(token string) (string, error) {
	const op = "password.HashToken"
	if token == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(preDigest(token)), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// VerifyToken проверяет секрет против хэша, полученного из HashToken.
func (h *Hasher) VerifyToken(token, digest string) bool {
	if token == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(preDigest(token))) == nil
}

func preDigest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
