package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec() TokenCodec {
	return TokenCodec{Secret: []byte("unit-test-secret")}
}

func futureClaims() Claims {
	return Claims{
		Sub:   "42d1c8a0-9f13-4ae8-b2c1-73a5d9e0f4b6",
		Email: "admin@example.com",
		Role:  "admin",
		Exp:   time.Now().Add(time.Hour).Unix(),
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tc := testCodec()

	token, err := tc.Issue(futureClaims())
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
	assert.NotContains(t, token, "=")

	got, err := tc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, futureClaims().Sub, got.Sub)
	assert.Equal(t, "admin@example.com", got.Email)
	assert.Equal(t, "admin", got.Role)
}

func TestTokenTamperRejected(t *testing.T) {
	tc := testCodec()
	token, err := tc.Issue(futureClaims())
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		flipped := byte('A')
		if token[i] == 'A' {
			flipped = 'B'
		}
		tampered := token[:i] + string(flipped) + token[i+1:]

		_, err := tc.Verify(tampered)
		assert.ErrorIs(t, err, ErrInvalidToken, "flip at position %d accepted", i)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := testCodec().Issue(futureClaims())
	require.NoError(t, err)

	_, err = TokenCodec{Secret: []byte("other-secret")}.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	tc := testCodec()
	claims := futureClaims()
	claims.Exp = time.Now().Add(-time.Minute).Unix()

	token, err := tc.Issue(claims)
	require.NoError(t, err)

	_, err = tc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMalformed(t *testing.T) {
	tc := testCodec()

	for _, token := range []string{
		"",
		"onlyonesegment",
		"two.segments",
		"a.b.c.d",
		"!!!.???.***",
	} {
		_, err := tc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
