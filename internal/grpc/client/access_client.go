// Package client содержит gRPC-клиент AccessService для соседних сервисов.
package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	accesspb "github.com/magabrotheeeer/movie-access/internal/grpc/gen"
	"github.com/magabrotheeeer/movie-access/internal/models"
	"github.com/magabrotheeeer/movie-access/internal/services/access"
)

// AccessClient — клиент AccessService.
type AccessClient struct {
	conn   *grpc.ClientConn
	client accesspb.AccessServiceClient
}

// NewAccessClient создаёт клиента. Без опций используется незащищённое соединение.
func NewAccessClient(addr string, opts ...grpc.DialOption) (*AccessClient, error) {
	const op = "grpc.client.NewAccessClient"

	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AccessClient{conn: conn, client: accesspb.NewAccessServiceClient(conn)}, nil
}

// Close закрывает соединение.
func (a *AccessClient) Close() error {
	return a.conn.Close()
}

// ValidateToken проверяет access-токен и возвращает пользователя.
func (a *AccessClient) ValidateToken(ctx context.Context, token string) (*models.Principal, error) {
	resp, err := a.client.ValidateToken(ctx, wrapperspb.String(token))
	if err != nil {
		return nil, err
	}
	fields := resp.GetFields()
	return &models.Principal{
		UserUID: fields["user_uid"].GetStringValue(),
		Email:   fields["email"].GetStringValue(),
		Role:    models.RoleName(fields["role"].GetStringValue()),
	}, nil
}

// CheckSubscription проверяет доступ к полным фильмам.
func (a *AccessClient) CheckSubscription(ctx context.Context, token string) (access.Decision, error) {
	resp, err := a.client.CheckSubscription(ctx, wrapperspb.String(token))
	if err != nil {
		return access.Decision{}, err
	}
	fields := resp.GetFields()
	return access.Decision{
		Allowed: fields["allowed"].GetBoolValue(),
		Reason:  access.Reason(fields["reason"].GetStringValue()),
	}, nil
}
