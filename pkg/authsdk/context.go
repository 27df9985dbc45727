package authsdk

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"
)

// ExtractTokenFromContext 从 gRPC context 的 metadata 中提取 JWT token
// 支持两种方式：
// 1. authorization header (Bearer token)
// 2. x-access-token header
func ExtractTokenFromContext(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", ErrNoToken
	}

	if values := md.Get("authorization"); len(values) > 0 {
		return strings.TrimPrefix(values[0], "Bearer "), nil
	}

	if values := md.Get("x-access-token"); len(values) > 0 {
		return values[0], nil
	}

	return "", ErrNoToken
}

// UserFromContext 从 gRPC context 解析用户信息
func UserFromContext(ctx context.Context, secret string) (*UserContext, error) {
	token, err := ExtractTokenFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return ParseToken(token, secret)
}

type userKey struct{}

// WithUser 将已认证用户写入 context
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFrom 读取 WithUser 写入的用户
func UserFrom(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userKey{}).(*UserContext)
	return user, ok && user != nil
}
