// Package accesspb содержит описание gRPC-сервиса AccessService.
//
// Запросы и ответы используют стандартные типы google.protobuf (StringValue, Struct),
// поэтому описание сервиса не требует сгенерированных сообщений.
// Контракт описан в api/proto/movieaccess/v1/access.proto.
package accesspb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName — полное имя сервиса.
	ServiceName = "movieaccess.v1.AccessService"

	ValidateTokenFullMethodName     = "/" + ServiceName + "/ValidateToken"
	CheckSubscriptionFullMethodName = "/" + ServiceName + "/CheckSubscription"
)

// AccessServiceServer — серверная часть AccessService.
type AccessServiceServer interface {
	ValidateToken(ctx context.Context, token *wrapperspb.StringValue) (*structpb.Struct, error)
	CheckSubscription(ctx context.Context, token *wrapperspb.StringValue) (*structpb.Struct, error)
}

// AccessServiceClient — клиентская часть AccessService.
type AccessServiceClient interface {
	ValidateToken(ctx context.Context, token *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	CheckSubscription(ctx context.Context, token *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type accessServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAccessServiceClient создаёт клиента поверх соединения.
func NewAccessServiceClient(cc grpc.ClientConnInterface) AccessServiceClient {
	return &accessServiceClient{cc: cc}
}

func (c *accessServiceClient) ValidateToken(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ValidateTokenFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accessServiceClient) CheckSubscription(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CheckSubscriptionFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterAccessServiceServer регистрирует реализацию на gRPC-сервере.
func RegisterAccessServiceServer(s grpc.ServiceRegistrar, srv AccessServiceServer) {
	s.RegisterService(&AccessServiceDesc, srv)
}

func validateTokenHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccessServiceServer).ValidateToken(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ValidateTokenFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AccessServiceServer).ValidateToken(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func checkSubscriptionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccessServiceServer).CheckSubscription(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CheckSubscriptionFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AccessServiceServer).CheckSubscription(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// AccessServiceDesc — описание сервиса для grpc.Server.
var AccessServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccessServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ValidateToken", Handler: validateTokenHandler},
		{MethodName: "CheckSubscription", Handler: checkSubscriptionHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "movieaccess/v1/access.proto",
}
