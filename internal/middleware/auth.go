package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"terminal-terrace/journal-wiki/internal/dto"
	"terminal-terrace/journal-wiki/pkg/authsdk"
	"terminal-terrace/journal-wiki/pkg/response"
)

const userIDKey = "user_id"

// parseToken 从 cookie 或 Authorization header 中解析 token
func parseToken(c *gin.Context, secret string) (*authsdk.UserContext, error) {
	// 优先从 cookie 中获取 access_token
	tokenString, err := c.Cookie("access_token")
	if err != nil || tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			return nil, fmt.Errorf("未提供认证令牌")
		}

		// 验证格式: Bearer <token>
		var ok bool
		tokenString, ok = strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			return nil, fmt.Errorf("认证格式错误")
		}
	}

	user, err := authsdk.ParseToken(tokenString, secret)
	if errors.Is(err, authsdk.ErrExpiredToken) {
		return nil, fmt.Errorf("认证令牌已过期")
	}
	if err != nil {
		return nil, fmt.Errorf("无效的认证令牌")
	}
	return user, nil
}

// JWTAuth JWT 认证中间件（必需认证）
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := parseToken(c, secret)
		if err != nil {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage(err.Error()),
			))
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set(userIDKey, user.UserID)
		c.Set("username", user.Username)
		c.Set("email", user.Email)
		c.Set("user_role", user.Role)
		c.Request = c.Request.WithContext(authsdk.WithUser(c.Request.Context(), user))
		c.Next()
	}
}

// CurrentUserID 读取 JWTAuth 写入的用户 ID
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}
