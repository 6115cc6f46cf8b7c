package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables. Unset
// variables leave the current values untouched.
func parseEnv(config *Config) {
	if v := os.Getenv("USERS_ADDR"); v != "" {
		config.Addr = v
	}
	if v := os.Getenv("USERS_DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("AUTH_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("AUTH_ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenTTL = d
		}
	}
	if v := os.Getenv("AUTH_REFRESH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.RefreshTokenTTL = d
		}
	}
	if v := os.Getenv("USERS_REDIS_ADDR"); v != "" {
		config.RedisAddr = v
	}
	if v := os.Getenv("USERS_LOGIN_ATTEMPT_LIMIT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.LoginAttemptLimit = n
		}
	}
	if v := os.Getenv("USERS_LOGIN_ATTEMPT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.LoginAttemptWindow = d
		}
	}
}
