package config

import "os"

// parseEnv overlays configuration from environment variables. Unset
// variables leave the current values untouched.
func parseEnv(config *Config) {
	if v := os.Getenv("REVIEWS_ADDR"); v != "" {
		config.Addr = v
	}
	if v := os.Getenv("REVIEWS_DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("AUTH_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("REVIEWS_ORDERS_URL"); v != "" {
		config.OrdersURL = v
	}
}
