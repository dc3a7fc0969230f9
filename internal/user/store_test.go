package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notely/internal/apperr"
	"notely/internal/db/dbtest"
	"notely/internal/user"
)

func uniqueEmail() string {
	return "user-" + uuid.NewString()[:8] + "@example.com"
}

func TestStore_CreateAndFind(t *testing.T) {
	store := &user.Store{DB: dbtest.Open(t)}
	ctx := context.Background()

	u := user.User{Email: uniqueEmail(), Username: "store", PasswordHash: "hash"}
	require.NoError(t, store.Create(ctx, &u))
	require.NotEqual(t, uuid.Nil, u.ID)

	byEmail, err := store.FindByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := store.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)
}

func TestStore_DuplicateEmail(t *testing.T) {
	store := &user.Store{DB: dbtest.Open(t)}
	ctx := context.Background()
	email := uniqueEmail()

	require.NoError(t, store.Create(ctx, &user.User{Email: email, Username: "one", PasswordHash: "h"}))
	err := store.Create(ctx, &user.User{Email: email, Username: "two", PasswordHash: "h"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestStore_FindByEmail_Missing(t *testing.T) {
	store := &user.Store{DB: dbtest.Open(t)}

	_, err := store.FindByEmail(context.Background(), uniqueEmail())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
