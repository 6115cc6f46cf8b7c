package config

import "os"

// parseEnv overlays configuration from environment variables. Unset
// variables leave the current values untouched.
func parseEnv(config *Config) {
	if v := os.Getenv("GATEWAY_ADDR"); v != "" {
		config.Addr = v
	}
	if v := os.Getenv("AUTH_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("GATEWAY_USERS_URL"); v != "" {
		config.UsersURL = v
	}
	if v := os.Getenv("GATEWAY_ORDERS_URL"); v != "" {
		config.OrdersURL = v
	}
	if v := os.Getenv("GATEWAY_CATALOGUE_URL"); v != "" {
		config.CatalogueURL = v
	}
	if v := os.Getenv("GATEWAY_REVIEWS_URL"); v != "" {
		config.ReviewsURL = v
	}
}
