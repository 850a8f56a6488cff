package seeder

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/octavian202/public-transport-management/pkg/database"
	"github.com/octavian202/public-transport-management/pkg/tranzy"
	"github.com/octavian202/public-transport-management/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "seeder",
		Usage: "Synthesise a transit schedule & occupancy dataset from upstream records",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the full seed pipeline",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Length of the trip generation window in days",
						Value: 7,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Random seed for reproducible runs (0 = time based)",
					},
					&cli.IntFlag{
						Name:  "route-limit",
						Usage: "Only import the first N upstream routes (0 = all)",
						Value: 30,
					},
					&cli.StringFlag{
						Name:  "profile",
						Usage: "Path to a YAML timetable band profile",
					},
					&cli.BoolFlag{
						Name:  "skip-shapes",
						Usage: "Skip the rate limited shape fetch",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					defer database.Disconnect()

					env := util.GetEnvironmentVariables()

					apiKey := env["TRANSIT_TRANZY_API_KEY"]
					if apiKey == "" {
						return errors.New("TRANSIT_TRANZY_API_KEY must be set")
					}

					profile := DefaultProfile()
					if profilePath := c.String("profile"); profilePath != "" {
						var err error
						profile, err = LoadProfile(profilePath)
						if err != nil {
							return err
						}
					}

					seed := c.Int64("seed")
					if seed == 0 {
						if envSeed := env["TRANSIT_SEED"]; envSeed != "" {
							parsed, err := strconv.ParseInt(envSeed, 10, 64)
							if err != nil {
								return err
							}
							seed = parsed
						} else {
							seed = time.Now().UnixNano()
						}
					}

					log.Info().Int64("seed", seed).Msg("Starting seed pipeline")

					seeder := &Seeder{
						Client: tranzy.NewClient(
							env["TRANSIT_TRANZY_URL"],
							apiKey,
							env["TRANSIT_TRANZY_AGENCY_ID"],
						),
						Profile: profile,

						Now:  time.Now,
						Rand: rand.New(rand.NewSource(seed)),

						Days:        c.Int("days"),
						RouteLimit:  c.Int("route-limit"),
						FetchShapes: !c.Bool("skip-shapes"),
					}

					return seeder.Run(context.Background())
				},
			},
		},
	}
}
