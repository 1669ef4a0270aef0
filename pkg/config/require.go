package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustValid aborts startup when the loaded config cannot run the service.
func (c Config) MustValid() {
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")
	if c.RefreshTokenDays <= 0 {
		log.Fatalf("REFRESH_TOKEN_DAYS must be positive, got %d", c.RefreshTokenDays)
	}
}
