package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/movie-access/internal/apperr"
	"github.com/magabrotheeeer/movie-access/internal/metrics"
	"github.com/magabrotheeeer/movie-access/internal/models"
	"github.com/magabrotheeeer/movie-access/internal/storage/repository"
)

type LookupMock struct {
	mock.Mock
}

func (m *LookupMock) FindSubscriptionByUserID(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func TestAllowsAndAuthorize(t *testing.T) {
	assert.True(t, Allows(models.RoleAdmin, models.RoleAdmin, models.RolePremium))
	assert.False(t, Allows(models.RoleFree, models.RoleAdmin, models.RolePremium))
	assert.False(t, Allows(models.RoleAdmin))

	assert.Equal(t, Deny(ReasonUnauthenticated), Authorize(nil, models.RoleAdmin))
	assert.Equal(t, Deny(ReasonRoleNotAllowed),
		Authorize(&models.Principal{Role: models.RolePremium}, models.RoleAdmin))
	assert.Equal(t, Allow(), Authorize(&models.Principal{Role: models.RoleAdmin}, models.RoleAdmin))
}

func TestSubscriptionGuard_Matrix(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	valid := &models.Subscription{IsActive: true, ExpiryDate: now.Add(time.Hour)}
	expired := &models.Subscription{IsActive: true, ExpiryDate: now.Add(-time.Second)}
	expiresNow := &models.Subscription{IsActive: true, ExpiryDate: now}
	cancelled := &models.Subscription{IsActive: false, ExpiryDate: now.Add(24 * time.Hour)}

	tests := []struct {
		name      string
		principal *models.Principal
		sub       *models.Subscription
		lookupErr error
		lookedUp  bool
		want      Decision
	}{
		{name: "no principal", principal: nil, want: Deny(ReasonUnauthenticated)},
		{name: "admin bypasses lookup", principal: &models.Principal{UserUID: "a", Role: models.RoleAdmin}, want: Allow()},
		{name: "free needs upgrade", principal: &models.Principal{UserUID: "f", Role: models.RoleFree}, want: Deny(ReasonUpgradeRequired)},
		{
			name: "premium without subscription", principal: &models.Principal{UserUID: "p", Role: models.RolePremium},
			lookupErr: repository.ErrNotFound, lookedUp: true, want: Deny(ReasonNoSubscription),
		},
		{
			name: "premium with valid subscription", principal: &models.Principal{UserUID: "p", Role: models.RolePremium},
			sub: valid, lookedUp: true, want: Allow(),
		},
		{
			name: "premium with expired subscription", principal: &models.Principal{UserUID: "p", Role: models.RolePremium},
			sub: expired, lookedUp: true, want: Deny(ReasonExpired),
		},
		{
			name: "expiry instant is already expired", principal: &models.Principal{UserUID: "p", Role: models.RolePremium},
			sub: expiresNow, lookedUp: true, want: Deny(ReasonExpired),
		},
		{
			name: "premium with cancelled subscription", principal: &models.Principal{UserUID: "p", Role: models.RolePremium},
			sub: cancelled, lookedUp: true, want: Deny(ReasonExpired),
		},
		{name: "unknown role", principal: &models.Principal{UserUID: "x", Role: "moderator"}, want: Deny(ReasonUnknownRole)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := new(LookupMock)
			if tt.lookedUp {
				lookup.On("FindSubscriptionByUserID", mock.Anything, tt.principal.UserUID).
					Return(tt.sub, tt.lookupErr).Once()
			}
			guard := NewSubscriptionGuard(lookup, func() time.Time { return now })

			got, err := guard.Check(context.Background(), tt.principal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			lookup.AssertExpectations(t)
			if !tt.lookedUp {
				lookup.AssertNotCalled(t, "FindSubscriptionByUserID", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestSubscriptionGuard_LookupErrorPropagates(t *testing.T) {
	dbErr := errors.New("connection reset")
	lookup := new(LookupMock)
	lookup.On("FindSubscriptionByUserID", mock.Anything, "p").Return(nil, dbErr).Once()

	guard := NewSubscriptionGuard(lookup, nil)
	_, err := guard.Check(context.Background(), &models.Principal{UserUID: "p", Role: models.RolePremium})
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	lookup.AssertNumberOfCalls(t, "FindSubscriptionByUserID", 1)
}

func TestDecision_Err(t *testing.T) {
	assert.NoError(t, Allow().Err())

	err := Deny(ReasonUpgradeRequired).Err()
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, "upgrade_required", apperr.ReasonOf(err))

	err = Deny(ReasonUnauthenticated).Err()
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

type stubGuard struct {
	name  string
	d     Decision
	err   error
	calls int
}

func (g *stubGuard) Check(context.Context, *models.Principal) (Decision, error) {
	g.calls++
	return g.d, g.err
}

func (g *stubGuard) Name() string { return g.name }

func TestPipeline(t *testing.T) {
	p := &models.Principal{UserUID: "u", Role: models.RolePremium}

	t.Run("all allow", func(t *testing.T) {
		a, b := &stubGuard{name: "a", d: Allow()}, &stubGuard{name: "b", d: Allow()}
		d, err := NewPipeline(metrics.New(), a, b).Check(context.Background(), p)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 1, b.calls)
	})

	t.Run("first deny wins", func(t *testing.T) {
		a := &stubGuard{name: "a", d: Deny(ReasonRoleNotAllowed)}
		b := &stubGuard{name: "b", d: Deny(ReasonExpired)}
		d, err := NewPipeline(nil, a, b).Check(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, ReasonRoleNotAllowed, d.Reason)
		assert.Zero(t, b.calls)
	})

	t.Run("error stops pipeline", func(t *testing.T) {
		a := &stubGuard{name: "a", err: errors.New("boom")}
		b := &stubGuard{name: "b", d: Allow()}
		_, err := NewPipeline(nil, a, b).Check(context.Background(), p)
		require.Error(t, err)
		assert.Zero(t, b.calls)
	})

	t.Run("role then subscription", func(t *testing.T) {
		lookup := new(LookupMock)
		guard := NewSubscriptionGuard(lookup, nil)
		pipeline := NewPipeline(nil, RoleGuard{Required: []models.RoleName{models.RoleAdmin, models.RolePremium}}, guard)

		d, err := pipeline.Check(context.Background(), &models.Principal{UserUID: "f", Role: models.RoleFree})
		require.NoError(t, err)
		assert.Equal(t, ReasonRoleNotAllowed, d.Reason)
		lookup.AssertNotCalled(t, "FindSubscriptionByUserID", mock.Anything, mock.Anything)
	})
}
