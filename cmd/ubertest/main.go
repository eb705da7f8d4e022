package main

import (
	"context"
	"flag"
	"os"

	"github.com/shubinsengi1/ubertest/config"
	"github.com/shubinsengi1/ubertest/internal/app"
	"github.com/shubinsengi1/ubertest/pkg/logger"
)

//	@title			Ride Coordination API
//	@version		1.0
//	@description	Ride requesting, dispatch and tracking service.
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

var configPath = flag.String("config-path", "config/config.yaml", "Path to the config yaml file")

func main() {
	flag.Parse()

	ctx := context.Background()
	log := logger.InitLogger("", logger.LevelDebug)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		os.Exit(1)
	}

	log = logger.InitLogger(cfg.ServiceName, cfg.LogLevel)

	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
