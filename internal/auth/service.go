package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidCredentials deliberately covers both unknown email and wrong
// password so login responses can't be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Service issues admin tokens on login and verifies them on demand.
// Exactly one role exists in this gate: "admin".
type Service struct {
	Repo     *Repo
	Codec    TokenCodec
	TokenTTL time.Duration
}

func NewService(repo *Repo, secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{Repo: repo, Codec: TokenCodec{Secret: secret}, TokenTTL: ttl}
}

// ValidateLoginInput rejects structurally bad credentials before any
// store lookup. Separate from the credential check so handlers can map
// it to 400 rather than 401.
func ValidateLoginInput(email, password string) error {
	if len(email) > 255 || !emailRe.MatchString(email) {
		return errors.New("invalid email format")
	}
	if password == "" || len(password) > 128 {
		return errors.New("invalid password")
	}
	return nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Identity, string, error) {
	if err := ValidateLoginInput(email, password); err != nil {
		return nil, "", err
	}

	u, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, "", err
	}
	if u == nil || !VerifyPassword(password, u.PasswordHash) {
		// identical outcome for both failure modes
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.Codec.Issue(Claims{
		Sub:   u.ID,
		Email: u.Email,
		Role:  "admin",
		Exp:   time.Now().Add(s.TokenTTL).Unix(),
	})
	if err != nil {
		return nil, "", err
	}

	return &Identity{ID: u.ID, Email: u.Email, Role: "admin"}, token, nil
}

func (s *Service) Verify(token string) (*Identity, error) {
	claims, err := s.Codec.Verify(token)
	if err != nil {
		return nil, err
	}
	return &Identity{ID: claims.Sub, Email: claims.Email, Role: claims.Role}, nil
}

// VerifyBearer reports whether the Authorization header carries a valid
// admin token. Any failure simply yields false.
func (s *Service) VerifyBearer(header string) bool {
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	claims, err := s.Codec.Verify(strings.TrimSpace(header[len("Bearer "):]))
	if err != nil {
		return false
	}
	return claims.Role == "admin"
}
