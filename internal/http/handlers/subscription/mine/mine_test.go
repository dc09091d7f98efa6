package mine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/movie-access/internal/apperr"
	"github.com/magabrotheeeer/movie-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/movie-access/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, userUID string) (*models.SubscriptionView, error) {
	args := m.Called(ctx, userUID)
	v, _ := args.Get(0).(*models.SubscriptionView)
	return v, args.Error(1)
}

func request() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/my-subscription", nil)
	return req.WithContext(middlewarectx.WithPrincipal(req.Context(),
		&models.Principal{UserUID: "u-1", Role: models.RolePremium}))
}

func TestMineHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("has subscription", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Get", mock.Anything, "u-1").Return(&models.SubscriptionView{
			Subscription:  models.Subscription{ID: "s-1", UserUID: "u-1", PlanType: models.PlanMonthly, IsActive: true},
			IsValid:       true,
			DaysRemaining: 12,
		}, nil).Once()

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, request())

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data struct {
				HasSubscription bool                    `json:"has_subscription"`
				Subscription    models.SubscriptionView `json:"subscription"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Data.HasSubscription)
		assert.True(t, resp.Data.Subscription.IsValid)
		assert.Equal(t, 12, resp.Data.Subscription.DaysRemaining)
	})

	t.Run("no subscription is not an error", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Get", mock.Anything, "u-1").Return(nil, apperr.New(apperr.KindNotFound, "subscription not found")).Once()

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, request())

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"has_subscription":false`)
		assert.Contains(t, rec.Body.String(), "No active subscription")
	})

	t.Run("internal error", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Get", mock.Anything, "u-1").Return(nil, errors.New("db down")).Once()

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, request())

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
