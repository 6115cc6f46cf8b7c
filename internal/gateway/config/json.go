package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

// JsonConfig is the JSON-file shape of Config.
type JsonConfig struct {
	Addr         string `json:"addr"`
	SecretKey    string `json:"secret_key"`
	UsersURL     string `json:"users_url"`
	OrdersURL    string `json:"orders_url"`
	CatalogueURL string `json:"catalogue_url"`
	ReviewsURL   string `json:"reviews_url"`
}

// parseJson loads configuration values from the JSON file given via the
// -c/-config flags, if any. Zero values in the file leave the current
// config untouched.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.UsersURL != "" {
		config.UsersURL = c.UsersURL
	}
	if c.OrdersURL != "" {
		config.OrdersURL = c.OrdersURL
	}
	if c.CatalogueURL != "" {
		config.CatalogueURL = c.CatalogueURL
	}
	if c.ReviewsURL != "" {
		config.ReviewsURL = c.ReviewsURL
	}
}
