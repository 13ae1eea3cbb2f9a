package deleteexpiredtokens

import (
	"context"
	"testing"
	"time"
	"usuario/internal/core/domain/logging"
	"usuario/internal/core/domain/token"
	"usuario/internal/core/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var Now time.Time = time.Now().UTC()

func TestDeletesOnlyExpiredTokens(t *testing.T) {
	store := token.NewFakeStore()
	_, err := store.Issue(context.Background(), token.IssueInput{
		UserID:    user.ID(1),
		Code:      token.Code("live-code"),
		Type:      token.Confirmation,
		CreatedAt: Now,
		ExpiresAt: Now.Add(24 * time.Hour),
	})
	require.Nil(t, err)
	_, err = store.Issue(context.Background(), token.IssueInput{
		UserID:    user.ID(2),
		Code:      token.Code("expired-code"),
		Type:      token.Confirmation,
		CreatedAt: Now.Add(-48 * time.Hour),
		ExpiresAt: Now.Add(-24 * time.Hour),
	})
	require.Nil(t, err)

	service := New(logging.NewFakeLogger(), store, func() time.Time { return Now })
	result, err := service.Run(context.Background(), Input{})

	assert.Nil(t, err)
	assert.Equal(t, int64(1), result.DeletedCount)
	_, err = store.GetByCode(context.Background(), token.Code("live-code"))
	assert.Nil(t, err)
}

func TestStoreFailure(t *testing.T) {
	store := token.NewFakeStore()
	store.ReturnError = true
	service := New(logging.NewFakeLogger(), store, func() time.Time { return Now })

	_, err := service.Run(context.Background(), Input{})

	assert.NotNil(t, err)
}
