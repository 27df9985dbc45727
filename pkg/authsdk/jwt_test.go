package authsdk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	tests := []struct {
		name string
		user UserContext
	}{
		{name: "完整用户信息", user: UserContext{UserID: 7, Username: "writer", Email: "w@example.com", Role: "user"}},
		{name: "仅用户ID", user: UserContext{UserID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.user, testSecret, time.Hour)
			require.NoError(t, err)

			got, err := ParseToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.user, *got)
		})
	}
}

func TestParseToken_Errors(t *testing.T) {
	_, err := ParseToken("", testSecret)
	assert.ErrorIs(t, err, ErrNoToken)

	token, err := GenerateToken(UserContext{UserID: 1}, "other-secret", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateToken(UserContext{UserID: 1}, testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestUserFromContext(t *testing.T) {
	token, err := GenerateToken(UserContext{UserID: 3}, testSecret, time.Hour)
	require.NoError(t, err)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	user, err := UserFromContext(ctx, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.UserID)

	_, err = UserFromContext(context.Background(), testSecret)
	assert.ErrorIs(t, err, ErrNoToken)
}
