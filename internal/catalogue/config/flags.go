package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags:
//
//	-a string   HTTP bind address (e.g., ":8090")
//	-d string   PostgreSQL DSN
//	-s string   shared HMAC secret key
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s"})

	fs := flag.NewFlagSet("catalogue", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
