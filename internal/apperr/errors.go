// Package apperr описывает таксономию ошибок сервиса доступа.
//
// Каждая ошибка несёт Kind, по которому транспортный слой выбирает HTTP-статус или gRPC-код,
// и необязательный Reason, машиночитаемый код причины отказа (например, upgrade_required),
// чтобы клиент мог показать предложение перейти на premium, а не просто "доступ запрещён".
package apperr

import (
	"errors"
	"fmt"
)

// Kind — категория ошибки.
type Kind string

const (
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInvalidToken Kind = "invalid_token"
	KindExpiredToken Kind = "expired_token"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindInternal     Kind = "internal"
)

// Error — ошибка с категорией, причиной и исходной ошибкой.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
	Err     error
}

// Error реализует интерфейс error.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap возвращает исходную ошибку.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по Kind, чтобы errors.Is(err, apperr.ErrUnauthorized) работал
// для любых сообщений той же категории.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New создаёт ошибку заданной категории.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap оборачивает err в ошибку заданной категории.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithReason возвращает копию ошибки с кодом причины.
func (e *Error) WithReason(reason string) *Error {
	c := *e
	c.Reason = reason
	return &c
}

// Sentinel-значения для errors.Is.
var (
	ErrConflict     = New(KindConflict, "conflict")
	ErrUnauthorized = New(KindUnauthorized, "unauthorized")
	ErrForbidden    = New(KindForbidden, "forbidden")
	ErrInvalidToken = New(KindInvalidToken, "invalid token")
	ErrExpiredToken = New(KindExpiredToken, "token expired")
	ErrNotFound     = New(KindNotFound, "not found")
	ErrValidation   = New(KindValidation, "validation failed")
	ErrInternal     = New(KindInternal, "internal error")
)

// KindOf возвращает категорию ошибки. Ошибки вне таксономии считаются внутренними.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ReasonOf возвращает код причины или пустую строку.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// MessageOf возвращает сообщение, безопасное для отдачи клиенту.
// Для ошибок вне таксономии детали скрываются.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal error"
}

// IsUnauthorized проверяет, что ошибка относится к категории unauthorized.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// IsForbidden проверяет, что ошибка относится к категории forbidden.
func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}

// IsConflict проверяет, что ошибка относится к категории conflict.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// IsNotFound проверяет, что ошибка относится к категории not_found.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
