package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/shipseva/docupload/internal/server"
	"github.com/shipseva/docupload/internal/server/config"
	handler "github.com/shipseva/docupload/internal/server/lambda"
)

func main() {
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	h := handler.NewHandler(app.Service(), cfg.SecretKey, app.Logger())
	lambda.Start(h.Handle)
}
