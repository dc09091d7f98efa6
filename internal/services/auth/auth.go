// Package auth содержит сценарии аутентификации: регистрацию, вход, ротацию
// refresh-токена и выход.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/movie-access/internal/apperr"
	"github.com/magabrotheeeer/movie-access/internal/events"
	"github.com/magabrotheeeer/movie-access/internal/lib/jwt"
	"github.com/magabrotheeeer/movie-access/internal/lib/password"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/metrics"
	"github.com/magabrotheeeer/movie-access/internal/models"
	"github.com/magabrotheeeer/movie-access/internal/storage/repository"
)

// Сообщения ошибок, видимые клиенту.
const (
	msgInvalidCredentials = "invalid credentials"
	msgDeactivated        = "account is deactivated"
	msgAccessDenied       = "access denied"
	msgEmailExists        = "email already exists"
	msgRoleNotFound       = "role not found"
)

// dummyPassword хэшируется один раз и сверяется при входе с неизвестным email:
// время ответа не должно зависеть от наличия учётной записи.
const dummyPassword = "movie-access-dummy-password"

// CredentialStore описывает хранилище учётных записей.
type CredentialStore interface {
	// FindUserByEmail возвращает пользователя с ролью и подпиской или repository.ErrNotFound.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// FindUserByID возвращает пользователя по UID или repository.ErrNotFound.
	FindUserByID(ctx context.Context, userUID string) (*models.User, error)
	// CreateUser сохраняет пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// UpdateRefreshTokenHash перезаписывает хэш refresh-токена, nil очищает его.
	UpdateRefreshTokenHash(ctx context.Context, userUID string, hash *string) error
	// FindRoleByName возвращает роль или repository.ErrNotFound.
	FindRoleByName(ctx context.Context, name models.RoleName) (*models.Role, error)
}

// Hasher хэширует пароли и refresh-токены.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
	HashToken(token string) (string, error)
	VerifyToken(token, digest string) bool
}

// RegisterInput — данные регистрации.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	// Role пустая строка означает роль по умолчанию.
	Role string
}

// AdminSeed — учётные данные администратора по умолчанию.
type AdminSeed struct {
	Email    string
	Username string
	Password string
}

// AuthResult — результат регистрации и входа.
type AuthResult struct {
	Tokens models.TokenPair
	User   models.UserView
}

// AuthService отвечает за регистрацию, вход и ротацию токенов.
type AuthService struct {
	store     CredentialStore
	hasher    Hasher
	tokens    jwt.Maker
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService создаёт AuthService. publisher и m могут быть nil.
func NewAuthService(store CredentialStore, hasher Hasher, tokens jwt.Maker,
	publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *AuthService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &AuthService{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Register создаёт учётную запись, выпускает пару токенов и сохраняет хэш refresh-токена.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (res *AuthResult, err error) {
	const op = "services.auth.Register"
	defer func() { s.metrics.AuthAttempt("register", err) }()

	user, err := s.createUser(ctx, op, in.Email, in.Username, in.Password, in.Role)
	if err != nil {
		return nil, err
	}

	pair, err := s.issueAndStore(ctx, op, user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.UserRegistered,
		UserUID: user.UUID,
		Email:   user.Email,
		Role:    user.Role.Name.String(),
	})
	return &AuthResult{Tokens: pair, User: user.View(s.now())}, nil
}

// Login проверяет учётные данные. Неизвестный email и неверный пароль
// дают одинаковую ошибку.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (res *AuthResult, err error) {
	const op = "services.auth.Login"
	defer func() { s.metrics.AuthAttempt("login", err) }()

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(rawPassword, s.dummyDigest())
			return nil, apperr.New(apperr.KindUnauthorized, msgInvalidCredentials)
		}
		return nil, s.internal(op, err)
	}
	if !s.hasher.Verify(rawPassword, user.PasswordHash) {
		return nil, apperr.New(apperr.KindUnauthorized, msgInvalidCredentials)
	}
	if !user.IsActive {
		return nil, apperr.New(apperr.KindUnauthorized, msgDeactivated)
	}

	pair, err := s.issueAndStore(ctx, op, user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.UserLoggedIn,
		UserUID: user.UUID,
		Email:   user.Email,
		Role:    user.Role.Name.String(),
	})
	return &AuthResult{Tokens: pair, User: user.View(s.now())}, nil
}

// dummyDigest возвращает хэш dummyPassword, посчитанный с той же стоимостью, что и пароли.
func (s *AuthService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Warn("failed to hash dummy password", sl.Err(err))
			return
		}
		s.dummyHash = digest
	})
	return s.dummyHash
}

// Refresh обменивает предъявленный refresh-токен на новую пару.
// Предъявленный токен должен совпадать с последним выданным; после обмена он недействителен.
func (s *AuthService) Refresh(ctx context.Context, userUID, refreshToken string) (pair models.TokenPair, err error) {
	const op = "services.auth.Refresh"
	defer func() { s.metrics.AuthAttempt("refresh", err) }()

	user, err := s.store.FindUserByID(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.TokenPair{}, apperr.New(apperr.KindUnauthorized, msgAccessDenied)
		}
		return models.TokenPair{}, s.internal(op, err)
	}
	if user.RefreshTokenHash == nil || !s.hasher.VerifyToken(refreshToken, *user.RefreshTokenHash) {
		return models.TokenPair{}, apperr.New(apperr.KindUnauthorized, msgAccessDenied)
	}

	pair, err = s.issueAndStore(ctx, op, user)
	if err != nil {
		return models.TokenPair{}, err
	}

	s.publish(ctx, events.Event{Type: events.TokenRefreshed, UserUID: user.UUID})
	return pair, nil
}

// RefreshFromToken извлекает UID из refresh-токена и выполняет Refresh.
// Подпись, срок действия и тип токена проверяются до обращения к хранилищу;
// любой сбой проверки неотличим от несовпадения хэша.
func (s *AuthService) RefreshFromToken(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		s.metrics.AuthAttempt("refresh", err)
		return models.TokenPair{}, apperr.Wrap(apperr.KindUnauthorized, msgAccessDenied, err)
	}
	return s.Refresh(ctx, claims.UserUID(), refreshToken)
}

// Logout очищает хэш refresh-токена. Повторный вызов не является ошибкой.
func (s *AuthService) Logout(ctx context.Context, userUID string) (err error) {
	const op = "services.auth.Logout"
	defer func() { s.metrics.AuthAttempt("logout", err) }()

	err = s.store.UpdateRefreshTokenHash(ctx, userUID, nil)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return s.internal(op, err)
	}

	s.publish(ctx, events.Event{Type: events.UserLoggedOut, UserUID: userUID})
	return nil
}

// SeedDefaultAdmin создаёт администратора, если он ещё не существует.
// Возвращает true, если учётная запись была создана.
func (s *AuthService) SeedDefaultAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	const op = "services.auth.SeedDefaultAdmin"
	log := s.logger.With(slog.String("op", op))

	if seed.Email == "" || seed.Username == "" || seed.Password == "" {
		log.Warn("default admin credentials not configured")
		return false, nil
	}

	_, err := s.store.FindUserByEmail(ctx, seed.Email)
	switch {
	case err == nil:
		log.Info("default admin already exists", slog.String("email", seed.Email))
		return false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return false, s.internal(op, err)
	}

	user, err := s.createUser(ctx, op, seed.Email, seed.Username, seed.Password, string(models.RoleAdmin))
	if err != nil {
		if apperr.IsConflict(err) && apperr.MessageOf(err) == msgEmailExists {
			return false, nil
		}
		return false, err
	}
	log.Info("default admin created", slog.String("email", user.Email))
	return true, nil
}

// createUser проверяет уникальность email и роль, хэширует пароль и сохраняет пользователя.
func (s *AuthService) createUser(ctx context.Context, op, email, username, rawPassword, roleName string) (*models.User, error) {
	_, err := s.store.FindUserByEmail(ctx, email)
	if err == nil {
		return nil, apperr.New(apperr.KindConflict, msgEmailExists)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.internal(op, err)
	}

	name, ok := models.ParseRoleName(roleName)
	if !ok {
		return nil, apperr.New(apperr.KindConflict, msgRoleNotFound)
	}
	role, err := s.store.FindRoleByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindConflict, msgRoleNotFound)
		}
		return nil, s.internal(op, err)
	}

	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		if errors.Is(err, password.ErrEmptyPassword) || errors.Is(err, password.ErrPasswordTooLong) {
			return nil, apperr.Wrap(apperr.KindValidation, err.Error(), err)
		}
		return nil, s.internal(op, err)
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         *role,
		IsActive:     true,
	}
	uid, err := s.store.CreateUser(ctx, *user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperr.New(apperr.KindConflict, msgEmailExists)
		}
		return nil, s.internal(op, err)
	}
	user.UUID = uid
	return user, nil
}

// issueAndStore выпускает пару токенов и сохраняет хэш refresh-токена до возврата пары.
func (s *AuthService) issueAndStore(ctx context.Context, op string, user *models.User) (models.TokenPair, error) {
	pair, err := s.tokens.Issue(ctx, user.UUID, user.Email, user.Role.Name)
	if err != nil {
		return models.TokenPair{}, s.internal(op, err)
	}
	hash, err := s.hasher.HashToken(pair.RefreshToken)
	if err != nil {
		return models.TokenPair{}, s.internal(op, err)
	}
	if err = s.store.UpdateRefreshTokenHash(ctx, user.UUID, &hash); err != nil {
		return models.TokenPair{}, s.internal(op, err)
	}
	s.metrics.TokenIssued()
	return pair, nil
}

func (s *AuthService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event",
			slog.String("type", string(e.Type)),
			sl.Err(err),
		)
	}
}

func (s *AuthService) internal(op string, err error) error {
	s.logger.Error("auth operation failed", slog.String("op", op), sl.Err(err))
	return apperr.Wrap(apperr.KindInternal, "internal error", fmt.Errorf("%s: %w", op, err))
}
