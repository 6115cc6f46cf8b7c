package config

import "os"

// parseEnv overlays configuration from environment variables. Unset
// variables leave the current values untouched.
func parseEnv(config *Config) {
	if v := os.Getenv("CATALOGUE_ADDR"); v != "" {
		config.Addr = v
	}
	if v := os.Getenv("CATALOGUE_DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("AUTH_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
}
