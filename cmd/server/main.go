package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shipseva/docupload/internal/server"
	"github.com/shipseva/docupload/internal/server/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	if cfg.IssueToken != "" {
		if err := server.IssueToken(cfg, os.Stdout); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
