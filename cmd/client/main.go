package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shipseva/docupload/internal/client/cli"
	"github.com/shipseva/docupload/internal/client/config"
	"github.com/shipseva/docupload/internal/common"
	"github.com/shipseva/docupload/internal/flagx"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("error loading .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx, flagx.StripArgs(os.Args[1:], config.Flags)); err != nil {
		code := 1
		if errors.Is(err, common.ErrValidation) || errors.Is(err, common.ErrMandatoryMissing) {
			code = 2
		}
		log.Printf("%v", err)
		os.Exit(code)
	}
}
