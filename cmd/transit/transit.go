package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/octavian202/public-transport-management/pkg/api"
	"github.com/octavian202/public-transport-management/pkg/report"
	"github.com/octavian202/public-transport-management/pkg/seeder"
	"github.com/octavian202/public-transport-management/pkg/util"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TRANSIT_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TRANSIT_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	util.LoadDotEnv()

	app := &cli.App{
		Name:        "transit",
		Description: "Public transport management - seed pipeline, web API and reports",

		Commands: []*cli.Command{
			seeder.RegisterCLI(),
			api.RegisterCLI(),
			report.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
