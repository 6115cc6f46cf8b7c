package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-s string   shared HMAC secret key
//	-u string   user service base URL
//	-o string   order service base URL
//	-g string   catalogue service base URL
//	-r string   review service base URL
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-u", "-o", "-g", "-r"})

	fs := flag.NewFlagSet("gateway", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.UsersURL, "u", config.UsersURL, "user service base URL")
	fs.StringVar(&config.OrdersURL, "o", config.OrdersURL, "order service base URL")
	fs.StringVar(&config.CatalogueURL, "g", config.CatalogueURL, "catalogue service base URL")
	fs.StringVar(&config.ReviewsURL, "r", config.ReviewsURL, "review service base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
