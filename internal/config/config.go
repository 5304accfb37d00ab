package config

import (
	"os"
	"strings"
)

type Config struct {
	AppPort string

	SupabaseURL string
	SupabaseKey string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	// Email domain policy for registration and login. Deny wins over allow;
	// an empty allow list means every domain not denied is accepted.
	AllowedEmailDomains []string
	DeniedEmailDomains  []string
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		SupabaseURL: os.Getenv("SUPABASE_URL"),
		SupabaseKey: os.Getenv("SUPABASE_KEY"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AllowedEmailDomains: splitList(os.Getenv("ALLOWED_EMAIL_DOMAINS")),

		// example.com is rejected by the provider; denying it locally keeps
		// the failure message clear instead of surfacing the provider's one.
		DeniedEmailDomains: splitList(getenv("DENIED_EMAIL_DOMAINS", "example.com")),
	}

	return cfg

}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
