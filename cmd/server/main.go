package main

import (
	"context"
	"log"

	"github.com/kids-learning/auth-service/internal/server"
	"github.com/kids-learning/auth-service/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
