package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidToken is the only failure a caller ever sees from Verify.
// Malformed base64, bad JSON, wrong signature and expiry all collapse
// into it so the reason can't be probed from outside.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Exp   int64  `json:"exp"`
}

// TokenCodec signs and verifies compact HS256 signed-claims tokens:
// base64url(header).base64url(claims).base64url(hmac), no padding.
type TokenCodec struct {
	Secret []byte
}

var tokenHeader = []byte(`{"alg":"HS256","typ":"JWT"}`)

func (tc TokenCodec) Issue(claims Claims) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	headerB64 := base64.RawURLEncoding.EncodeToString(tokenHeader)
	claimsB64 := base64.RawURLEncoding.EncodeToString(payload)

	sig := tc.sign(headerB64 + "." + claimsB64)
	return headerB64 + "." + claimsB64 + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

func (tc TokenCodec) Verify(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	sig, err := decodeSegment(parts[2])
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !hmac.Equal(sig, tc.sign(parts[0]+"."+parts[1])) {
		return nil, ErrInvalidToken
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Exp != 0 && claims.Exp < time.Now().Unix() {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (tc TokenCodec) sign(input string) []byte {
	mac := hmac.New(sha256.New, tc.Secret)
	mac.Write([]byte(input))
	return mac.Sum(nil)
}

// decodeSegment accepts both padded and unpadded base64url. Strict mode
// rejects non-zero trailing bits so a tampered final character can't
// decode to the same bytes.
func decodeSegment(s string) ([]byte, error) {
	return base64.RawURLEncoding.Strict().DecodeString(strings.TrimRight(s, "="))
}
