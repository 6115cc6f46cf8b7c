// Package config handles configuration for the API gateway.
package config

// Config holds runtime settings for the gateway: the bind address, the
// shared token-verification secret and one base URL per downstream service.
type Config struct {
	Addr         string
	SecretKey    string
	UsersURL     string
	OrdersURL    string
	CatalogueURL string
	ReviewsURL   string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "secretKey"
	c.UsersURL = "http://users:8081"
	c.OrdersURL = "http://orders:8082"
	c.CatalogueURL = "http://catalogue:8090"
	c.ReviewsURL = "http://reviews:8083"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
