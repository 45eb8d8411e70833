package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM admin_users
		WHERE LOWER(email) = ?
	`, email)

	var u AdminUser
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	return &u, nil
}

// UpsertAdmin creates the admin credential or replaces its hash.
// Used by the seeding CLI only; the gateway itself never writes here.
func (r *Repo) UpsertAdmin(ctx context.Context, id, email, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO admin_users (id, email, password_hash)
		VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET password_hash = excluded.password_hash
	`, id, strings.TrimSpace(strings.ToLower(email)), passwordHash)
	if err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	return nil
}
