// Package subscription управляет жизненным циклом подписок: оформлением,
// продлением, отменой и чтением через кэш.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/movie-access/internal/apperr"
	"github.com/magabrotheeeer/movie-access/internal/cache"
	"github.com/magabrotheeeer/movie-access/internal/events"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/models"
	"github.com/magabrotheeeer/movie-access/internal/storage/repository"
)

const (
	msgAlreadySubscribed = "user already has a subscription"
	msgNotFound          = "subscription not found"
	msgUserNotFound      = "user not found"
)

// DefaultCacheTTL — время жизни записи подписки в кэше.
const DefaultCacheTTL = 5 * time.Minute

// Repository определяет методы хранилища подписок.
type Repository interface {
	// FindSubscriptionByUserID возвращает подписку или repository.ErrNotFound.
	FindSubscriptionByUserID(ctx context.Context, userUID string) (*models.Subscription, error)
	// CreateSubscription вставляет подписку, повторная даёт repository.ErrAlreadyExists.
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	// SaveSubscription перезаписывает подписку пользователя.
	SaveSubscription(ctx context.Context, sub models.Subscription) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Version(ctx context.Context, key string) (int64, error)
	SetIfVersion(ctx context.Context, key string, version int64, value any, expiration time.Duration) (bool, error)
	Invalidate(ctx context.Context, key string) error
}

// CreateInput — данные для создания подписки администратором.
type CreateInput struct {
	UserUID    string
	PlanType   models.PlanType
	StartDate  time.Time
	ExpiryDate time.Time
	AutoRenew  bool
}

// SubscriptionService реализует бизнес-логику подписок.
type SubscriptionService struct {
	repo      Repository
	cache     Cache
	cacheTTL  time.Duration
	publisher events.Publisher
	log       *slog.Logger
	now       func() time.Time
}

// Option настраивает SubscriptionService.
type Option func(*SubscriptionService)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *SubscriptionService) { s.now = now }
}

// WithCacheTTL задаёт время жизни записи в кэше.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *SubscriptionService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewSubscriptionService создаёт сервис. cache и publisher могут быть nil.
func NewSubscriptionService(repo Repository, c Cache, publisher events.Publisher, log *slog.Logger, opts ...Option) *SubscriptionService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	s := &SubscriptionService{
		repo:      repo,
		cache:     c,
		cacheTTL:  DefaultCacheTTL,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe оформляет подписку пользователя начиная с текущего момента.
func (s *SubscriptionService) Subscribe(ctx context.Context, userUID string, plan models.PlanType) (*models.Subscription, error) {
	if !plan.IsValid() {
		return nil, apperr.New(apperr.KindValidation, "plan type must be monthly or yearly")
	}
	now := s.now()
	return s.create(ctx, "services.subscription.Subscribe", models.Subscription{
		UserUID:    userUID,
		PlanType:   plan,
		StartDate:  now,
		ExpiryDate: now.Add(plan.Duration()),
		IsActive:   true,
		AutoRenew:  false,
	})
}

// Create создаёт подписку с явными датами.
func (s *SubscriptionService) Create(ctx context.Context, in CreateInput) (*models.Subscription, error) {
	if !in.PlanType.IsValid() {
		return nil, apperr.New(apperr.KindValidation, "plan type must be monthly or yearly")
	}
	if !in.ExpiryDate.After(in.StartDate) {
		return nil, apperr.New(apperr.KindValidation, "expiry date must be after start date")
	}
	return s.create(ctx, "services.subscription.Create", models.Subscription{
		UserUID:    in.UserUID,
		PlanType:   in.PlanType,
		StartDate:  in.StartDate,
		ExpiryDate: in.ExpiryDate,
		IsActive:   true,
		AutoRenew:  in.AutoRenew,
	})
}

// Renew перезапускает подписку с текущего момента на срок выбранного плана.
func (s *SubscriptionService) Renew(ctx context.Context, userUID string, plan models.PlanType) (*models.Subscription, error) {
	const op = "services.subscription.Renew"
	if !plan.IsValid() {
		return nil, apperr.New(apperr.KindValidation, "plan type must be monthly or yearly")
	}

	sub, err := s.find(ctx, op, userUID)
	if err != nil {
		return nil, err
	}
	sub.Renew(plan, s.now())
	if err = s.save(ctx, op, sub); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:       events.SubscriptionRenewed,
		UserUID:    userUID,
		Attributes: map[string]string{"plan_type": string(plan), "expiry_date": sub.ExpiryDate.UTC().Format(time.RFC3339)},
	})
	return sub, nil
}

// Cancel деактивирует подписку и выключает автопродление.
func (s *SubscriptionService) Cancel(ctx context.Context, userUID string) error {
	const op = "services.subscription.Cancel"

	sub, err := s.find(ctx, op, userUID)
	if err != nil {
		return err
	}
	sub.Cancel()
	if err = s.save(ctx, op, sub); err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.SubscriptionCancelled, UserUID: userUID})
	return nil
}

// Get возвращает подписку с признаком действительности и числом оставшихся дней.
// Запись читается через кэш; производные поля вычисляются в момент чтения.
// Прочитанная из хранилища запись не попадает в кэш, если его успели сбросить
// параллельные Renew или Cancel.
func (s *SubscriptionService) Get(ctx context.Context, userUID string) (*models.SubscriptionView, error) {
	const op = "services.subscription.Get"
	key := cache.SubscriptionKey(userUID)

	var (
		version int64
		fill    bool
	)
	if s.cache != nil {
		var cached models.Subscription
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		}
		if found {
			v := cached.View(s.now())
			return &v, nil
		}

		version, err = s.cache.Version(ctx, key)
		if err != nil {
			s.log.Warn("failed to read cache version", slog.String("key", key), sl.Err(err))
		}
		fill = err == nil
	}

	sub, err := s.find(ctx, op, userUID)
	if err != nil {
		return nil, err
	}
	if fill {
		stored, err := s.cache.SetIfVersion(ctx, key, version, sub, s.cacheTTL)
		switch {
		case err != nil:
			s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
		case !stored:
			s.log.Debug("cache fill skipped, record changed", slog.String("key", key))
		}
	}
	v := sub.View(s.now())
	return &v, nil
}

func (s *SubscriptionService) create(ctx context.Context, op string, sub models.Subscription) (*models.Subscription, error) {
	created, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperr.New(apperr.KindConflict, msgAlreadySubscribed)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, msgUserNotFound)
		}
		return nil, s.internal(op, err)
	}
	s.invalidate(ctx, sub.UserUID)
	s.log.Info("created new subscription",
		slog.String("user_uid", created.UserUID),
		slog.String("plan_type", string(created.PlanType)),
	)

	s.publish(ctx, events.Event{
		Type:       events.SubscriptionCreated,
		UserUID:    created.UserUID,
		Attributes: map[string]string{"plan_type": string(created.PlanType), "expiry_date": created.ExpiryDate.UTC().Format(time.RFC3339)},
	})
	return created, nil
}

func (s *SubscriptionService) find(ctx context.Context, op, userUID string) (*models.Subscription, error) {
	sub, err := s.repo.FindSubscriptionByUserID(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, msgNotFound)
		}
		return nil, s.internal(op, err)
	}
	return sub, nil
}

func (s *SubscriptionService) save(ctx context.Context, op string, sub *models.Subscription) error {
	if err := s.repo.SaveSubscription(ctx, *sub); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, msgNotFound)
		}
		return s.internal(op, err)
	}
	s.invalidate(ctx, sub.UserUID)
	return nil
}

func (s *SubscriptionService) invalidate(ctx context.Context, userUID string) {
	if s.cache == nil {
		return
	}
	key := cache.SubscriptionKey(userUID)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *SubscriptionService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", string(e.Type)), sl.Err(err))
	}
}

func (s *SubscriptionService) internal(op string, err error) error {
	s.log.Error("subscription operation failed", slog.String("op", op), sl.Err(err))
	return apperr.Wrap(apperr.KindInternal, "internal error", fmt.Errorf("%s: %w", op, err))
}
