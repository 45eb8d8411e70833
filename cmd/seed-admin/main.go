// Command seed-admin creates or resets the administrative credential.
// Admin accounts are never created through the HTTP surface.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/google/uuid"

	"comichub/internal/auth"
	"comichub/pkg/database"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}
	if err := auth.ValidateLoginInput(*email, *password); err != nil {
		log.Fatalf("invalid credentials: %v", err)
	}

	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	repo := auth.NewRepo(db)
	if err := repo.UpsertAdmin(context.Background(), uuid.NewString(), *email, hash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	log.Printf("admin credential set for %s (db: %s)", *email, cfg.Path)
}
