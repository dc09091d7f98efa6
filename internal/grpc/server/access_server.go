// Package server реализует gRPC-сервер AccessService.
//
// AccessServer проверяет access-токены и доступ к полным фильмам для соседних сервисов.
// Ошибки переводятся в коды gRPC по категории apperr.
package server

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/magabrotheeeer/movie-access/internal/apperr"
	accesspb "github.com/magabrotheeeer/movie-access/internal/grpc/gen"
	"github.com/magabrotheeeer/movie-access/internal/lib/jwt"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/models"
	"github.com/magabrotheeeer/movie-access/internal/services/access"
)

// TokenVerifier проверяет access-токен.
type TokenVerifier interface {
	VerifyAccess(token string) (*jwt.Claims, error)
}

// Guard принимает решение о доступе к полным фильмам.
type Guard interface {
	Check(ctx context.Context, p *models.Principal) (access.Decision, error)
}

// AccessServer реализует accesspb.AccessServiceServer.
type AccessServer struct {
	verifier TokenVerifier
	guard    Guard
	log      *slog.Logger
}

var _ accesspb.AccessServiceServer = (*AccessServer)(nil)

// NewAccessServer создаёт AccessServer.
func NewAccessServer(verifier TokenVerifier, guard Guard, logger *slog.Logger) *AccessServer {
	return &AccessServer{
		verifier: verifier,
		guard:    guard,
		log:      logger,
	}
}

// ValidateToken проверяет токен и возвращает данные пользователя.
func (s *AccessServer) ValidateToken(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	const op = "grpc.server.ValidateToken"

	claims, err := s.verifier.VerifyAccess(req.GetValue())
	if err != nil {
		s.log.Warn("invalid token", slog.String("op", op), sl.Err(err))
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{
		"user_uid": claims.UserUID(),
		"email":    claims.Email,
		"role":     claims.Role,
		"valid":    true,
	})
}

// CheckSubscription проверяет токен и доступ к полным фильмам.
// Отказ не считается ошибкой: причина возвращается в поле reason.
func (s *AccessServer) CheckSubscription(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	const op = "grpc.server.CheckSubscription"

	claims, err := s.verifier.VerifyAccess(req.GetValue())
	if err != nil {
		s.log.Warn("invalid token", slog.String("op", op), sl.Err(err))
		return nil, toStatus(err)
	}

	decision, err := s.guard.Check(ctx, claims.Principal())
	if err != nil {
		s.log.Error("access check failed", slog.String("op", op), sl.Err(err))
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{
		"allowed": decision.Allowed,
		"reason":  string(decision.Reason),
	})
}

// toStatus переводит ошибку в статус gRPC. Детали внутренних ошибок не раскрываются.
func toStatus(err error) error {
	msg := apperr.MessageOf(err)
	switch apperr.KindOf(err) {
	case apperr.KindConflict:
		return status.Error(codes.AlreadyExists, msg)
	case apperr.KindUnauthorized, apperr.KindInvalidToken, apperr.KindExpiredToken:
		return status.Error(codes.Unauthenticated, msg)
	case apperr.KindForbidden:
		return status.Error(codes.PermissionDenied, msg)
	case apperr.KindNotFound:
		return status.Error(codes.NotFound, msg)
	case apperr.KindValidation:
		return status.Error(codes.InvalidArgument, msg)
	default:
		return status.Error(codes.Internal, msg)
	}
}
