package create

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
	"github.com/magabrotheeeer/movie-access/internal/models"
	"github.com/magabrotheeeer/movie-access/internal/services/subscription"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, in subscription.CreateInput) (*models.Subscription, error) {
	args := m.Called(ctx, in)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

const userID = "6f1c2b1e-7d0a-4c9e-9d5b-1a2b3c4d5e6f"

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry := start.AddDate(0, 1, 0)
	body := `{"user_id":"` + userID + `","plan_type":"monthly","start_date":"2025-01-01T00:00:00Z","expiry_date":"2025-02-01T00:00:00Z"}`
	input := subscription.CreateInput{
		UserUID:    userID,
		PlanType:   models.PlanMonthly,
		StartDate:  start,
		ExpiryDate: expiry,
	}

	tests := []struct {
		name     string
		body     string
		mockSub  *models.Subscription
		mockErr  error
		callsSvc bool
		wantCode int
	}{
		{
			name:     "created",
			body:     body,
			mockSub:  &models.Subscription{ID: "s-1", UserUID: userID, PlanType: models.PlanMonthly, StartDate: start, ExpiryDate: expiry, IsActive: true},
			callsSvc: true,
			wantCode: http.StatusCreated,
		},
		{
			name:     "invalid plan",
			body:     `{"user_id":"` + userID + `","plan_type":"weekly","start_date":"2025-01-01T00:00:00Z","expiry_date":"2025-02-01T00:00:00Z"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "user id not uuid",
			body:     `{"user_id":"42","plan_type":"monthly","start_date":"2025-01-01T00:00:00Z","expiry_date":"2025-02-01T00:00:00Z"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "bad date",
			body:     `{"user_id":"` + userID + `","plan_type":"monthly","start_date":"01.01.2025","expiry_date":"2025-02-01T00:00:00Z"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "already subscribed",
			body:     body,
			mockErr:  apperr.New(apperr.KindConflict, "user already has a subscription"),
			callsSvc: true,
			wantCode: http.StatusConflict,
		},
		{
			name:     "unknown user",
			body:     body,
			mockErr:  apperr.New(apperr.KindNotFound, "user not found"),
			callsSvc: true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.callsSvc {
				svc.On("Create", mock.Anything, input).Return(tt.mockSub, tt.mockErr).Once()
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", bytes.NewBufferString(tt.body))
			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.mockSub != nil {
				var resp struct {
					Data struct {
						Subscription models.Subscription `json:"subscription"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "s-1", resp.Data.Subscription.ID)
			}
			svc.AssertExpectations(t)
		})
	}
}
