package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"terminal-terrace/journal-wiki/pkg/authsdk"
	"terminal-terrace/journal-wiki/pkg/response"
)

const healthServicePrefix = "/grpc.health.v1.Health/"

// UnaryAuthInterceptor 从 metadata 解析 JWT 并将用户写入 context
// 健康检查无需认证
func UnaryAuthInterceptor(secret string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if strings.HasPrefix(info.FullMethod, healthServicePrefix) {
			return handler(ctx, req)
		}

		user, err := authsdk.UserFromContext(ctx, secret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(authsdk.WithUser(ctx, user), req)
	}
}

// toStatus 将业务错误转换为 gRPC 状态码，其余错误记录日志后返回 Internal
func toStatus(err error) error {
	var be *response.BusinessError
	if !errors.As(err, &be) {
		slog.Error("grpc request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}

	switch be.Code {
	case response.ParseError, response.InvalidParameter:
		return status.Error(codes.InvalidArgument, be.Msg)
	case response.NotFound:
		return status.Error(codes.NotFound, be.Msg)
	case response.Unauthorized:
		return status.Error(codes.Unauthenticated, be.Msg)
	case response.Forbidden:
		return status.Error(codes.PermissionDenied, be.Msg)
	default:
		return status.Error(codes.Internal, be.Msg)
	}
}
