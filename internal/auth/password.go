package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// VerifyPassword checks a plaintext against the composite credential
// format "sha256:<salt>:<hexdigest>". Anything that doesn't match the
// format exactly fails closed. The digest comparison is constant-time;
// a length mismatch returns early, leaking length only.
func VerifyPassword(plaintext, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 3 || parts[0] != "sha256" {
		return false
	}

	computed := digestHex(parts[1], plaintext)
	if len(computed) != len(parts[2]) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(parts[2])) == 1
}

// HashPassword produces a composite credential with a fresh random salt.
func HashPassword(plaintext string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	return "sha256:" + saltHex + ":" + digestHex(saltHex, plaintext), nil
}

func digestHex(salt, plaintext string) string {
	sum := sha256.Sum256([]byte(salt + plaintext))
	return hex.EncodeToString(sum[:])
}
