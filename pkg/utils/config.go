package utils

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("COMICHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	dur := 7 * 24 * time.Hour
	if ttl := os.Getenv("COMICHUB_JWT_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			dur = time.Duration(h) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTDuration: dur,
	}
}

type StorageConfig struct {
	Endpoint  string // storage API base, e.g. https://sg.storage.bunnycdn.com
	Zone      string
	AccessKey string
	CDNHost   string // bare hostname serving uploaded files
}

func LoadStorageConfig() StorageConfig {
	endpoint := strings.TrimRight(os.Getenv("COMICHUB_STORAGE_ENDPOINT"), "/")
	if endpoint == "" {
		endpoint = "https://sg.storage.bunnycdn.com"
	}

	return StorageConfig{
		Endpoint:  endpoint,
		Zone:      strings.TrimSpace(os.Getenv("COMICHUB_STORAGE_ZONE")),
		AccessKey: strings.TrimSpace(os.Getenv("COMICHUB_STORAGE_KEY")),
		CDNHost:   NormalizeCDNHost(os.Getenv("COMICHUB_CDN_HOST")),
	}
}

var schemePrefix = regexp.MustCompile(`^https?://`)

// NormalizeCDNHost strips scheme and trailing slashes so the value can be
// embedded into https:// URLs regardless of how the env var was written.
func NormalizeCDNHost(host string) string {
	host = strings.TrimSpace(host)
	host = schemePrefix.ReplaceAllString(host, "")
	return strings.TrimRight(host, "/")
}
