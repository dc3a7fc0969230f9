package user

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"notely/internal/apperr"
)

type stubRepo struct {
	byEmail map[string]User
}

func newStubRepo() *stubRepo {
	return &stubRepo{byEmail: map[string]User{}}
}

func (r *stubRepo) Create(_ context.Context, u *User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return apperr.ErrConflict
	}
	u.ID = uuid.New()
	r.byEmail[u.Email] = *u
	return nil
}

func (r *stubRepo) FindByEmail(_ context.Context, email string) (User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (r *stubRepo) FindByID(_ context.Context, id uuid.UUID) (User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, apperr.ErrNotFound
}

func newTestService(repo repository) *Service {
	return NewService(repo, bcrypt.MinCost, zerolog.Nop())
}

func TestService_Create_HashesAndNormalizes(t *testing.T) {
	t.Parallel()
	svc := newTestService(newStubRepo())

	u, err := svc.Create(context.Background(), CreateInput{
		Email:    "  A@X.com ",
		Username: " alice ",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.True(t, ComparePassword(u.PasswordHash, "password123"))

	found, err := svc.FindByEmail(context.Background(), "A@x.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestService_Create_DuplicateEmailConflicts(t *testing.T) {
	t.Parallel()
	svc := newTestService(newStubRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Email: "a@x.com", Username: "a", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Email: "a@x.com", Username: "b", Password: "password456"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestService_Create_Validation(t *testing.T) {
	t.Parallel()
	svc := newTestService(newStubRepo())

	_, err := svc.Create(context.Background(), CreateInput{Email: "not-an-email", Password: "123"})
	require.ErrorIs(t, err, apperr.ErrValidation)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"email", "username", "password"}, fields)
}

func TestService_Create_PasswordTooLong(t *testing.T) {
	t.Parallel()
	repo := newStubRepo()
	svc := newTestService(repo)

	cases := map[string]string{
		"ascii":     strings.Repeat("p", MaxPasswordBytes+1),
		"multibyte": strings.Repeat("ü", 40), // 40 runes, 80 bytes
	}
	for name, pw := range cases {
		_, err := svc.Create(context.Background(), CreateInput{Email: "a@x.com", Username: "a", Password: pw})
		require.ErrorIs(t, err, apperr.ErrValidation, name)
		assert.Equal(t, http.StatusBadRequest, apperr.Status(err), name)

		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve, name)
		require.Len(t, ve.Fields, 1, name)
		assert.Equal(t, apperr.FieldError{Field: "password", Message: "must be at most 72 bytes"}, ve.Fields[0], name)
	}
	assert.Empty(t, repo.byEmail)

	_, err := svc.Create(context.Background(), CreateInput{Email: "a@x.com", Username: "a", Password: strings.Repeat("p", MaxPasswordBytes)})
	assert.NoError(t, err)
}

func TestService_FindByEmail_Unknown(t *testing.T) {
	t.Parallel()
	svc := newTestService(newStubRepo())

	_, err := svc.FindByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUser_JSONOmitsPasswordHash(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(User{ID: uuid.New(), Email: "a@x.com", Username: "a", PasswordHash: "secret-hash"})
	require.NoError(t, err)

	assert.NotContains(t, string(b), "secret-hash")
	assert.NotContains(t, string(b), "password")
	assert.Contains(t, string(b), `"email":"a@x.com"`)
}
