package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comichub/internal/auth"
	"comichub/internal/testutil"
)

func newTestService(t *testing.T) *auth.Service {
	t.Helper()

	db := testutil.OpenDB(t)
	repo := auth.NewRepo(db)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertAdmin(context.Background(), "a1b2c3d4-0000-4000-8000-000000000001", "admin@example.com", hash))

	return auth.NewService(repo, []byte("service-test-secret"), 7*24*time.Hour)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newTestService(t)

	user, token, err := svc.Login(context.Background(), "admin@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, "admin", user.Role)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "admin", got.Role)

	assert.True(t, svc.VerifyBearer("Bearer "+token))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestService(t)

	_, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "correct horse")
	_, _, errWrongPw := svc.Login(context.Background(), "admin@example.com", "wrong password")

	require.ErrorIs(t, errUnknown, auth.ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPw, auth.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLoginEmailNormalized(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Login(context.Background(), "  ADMIN@Example.COM  ", "correct horse")
	assert.Error(t, err) // leading/trailing spaces fail the format check

	_, _, err = svc.Login(context.Background(), "ADMIN@Example.COM", "correct horse")
	assert.NoError(t, err)
}

func TestLoginInputValidation(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"no at sign", "adminexample.com", "pw"},
		{"no tld", "admin@example", "pw"},
		{"spaces", "ad min@example.com", "pw"},
		{"too long email", strings.Repeat("a", 260) + "@example.com", "pw"},
		{"empty password", "admin@example.com", ""},
		{"too long password", "admin@example.com", strings.Repeat("p", 129)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.email, tc.password)
			require.Error(t, err)
			assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}
}

func TestVerifyBearer(t *testing.T) {
	svc := newTestService(t)

	_, token, err := svc.Login(context.Background(), "admin@example.com", "correct horse")
	require.NoError(t, err)

	assert.True(t, svc.VerifyBearer("Bearer "+token))
	assert.False(t, svc.VerifyBearer(""))
	assert.False(t, svc.VerifyBearer(token))              // missing scheme
	assert.False(t, svc.VerifyBearer("Bearer "))          // empty token
	assert.False(t, svc.VerifyBearer("Bearer not.a.jwt")) // garbage
}

func TestVerifyBearerRejectsNonAdminRole(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.Codec.Issue(auth.Claims{
		Sub:   "a1b2c3d4-0000-4000-8000-000000000002",
		Email: "reader@example.com",
		Role:  "reader",
		Exp:   time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	// signature is valid, but only the admin role passes the gate
	_, verr := svc.Verify(token)
	assert.NoError(t, verr)
	assert.False(t, svc.VerifyBearer("Bearer "+token))
}
