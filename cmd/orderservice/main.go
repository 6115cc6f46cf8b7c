package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/shopkeeper/internal/orders"
	"github.com/dmitrijs2005/shopkeeper/internal/orders/config"
)

func main() {

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("%v", err)
			return
		}
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := orders.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
