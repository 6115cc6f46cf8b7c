package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
	"github.com/dmitrijs2005/shopkeeper/internal/timex"
)

// JsonConfig is the JSON-file shape of Config. Durations accept both string
// values such as "15m" and integer nanoseconds.
type JsonConfig struct {
	Addr               string         `json:"addr"`
	DatabaseDSN        string         `json:"database_dsn"`
	SecretKey          string         `json:"secret_key"`
	AccessTokenTTL     timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL    timex.Duration `json:"refresh_token_ttl"`
	RedisAddr          string         `json:"redis_addr"`
	LoginAttemptLimit  int64          `json:"login_attempt_limit"`
	LoginAttemptWindow timex.Duration `json:"login_attempt_window"`
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
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenTTL.Duration != 0 {
		config.AccessTokenTTL = time.Duration(c.AccessTokenTTL.Duration)
	}
	if c.RefreshTokenTTL.Duration != 0 {
		config.RefreshTokenTTL = time.Duration(c.RefreshTokenTTL.Duration)
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.LoginAttemptLimit != 0 {
		config.LoginAttemptLimit = c.LoginAttemptLimit
	}
	if c.LoginAttemptWindow.Duration != 0 {
		config.LoginAttemptWindow = time.Duration(c.LoginAttemptWindow.Duration)
	}
}
